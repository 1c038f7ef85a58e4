// services/notifier.go
package services

// Notifier pushes invalidate-and-re-read signals to the realtime hub after
// a row is persisted. Delivery is at-least-once and carries no payload;
// subscribers re-read the row they care about.
type Notifier interface {
	NotifyChange(table, id string)
}

// NopNotifier is used in tests and before the hub is wired.
type NopNotifier struct{}

func (NopNotifier) NotifyChange(table, id string) {}
