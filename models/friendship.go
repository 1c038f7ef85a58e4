// models/friendship.go
package models

// Friendship is owned by the social-graph service; this service only reads
// it to answer "may A challenge B". Rows are mirrored one per direction.
type Friendship struct {
	ID       string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID   string `gorm:"type:uuid;not null;index:idx_friend_pair,unique" json:"user_id"`
	FriendID string `gorm:"type:uuid;not null;index:idx_friend_pair,unique" json:"friend_id"`

	Timestamps
}
