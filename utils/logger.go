// utils/logger.go
package utils

import "go.uber.org/zap"

// InitLogger builds the structured logger used by the realtime hub and
// process bootstrap.
func InitLogger() (*zap.Logger, error) {
	return zap.NewProduction()
}
