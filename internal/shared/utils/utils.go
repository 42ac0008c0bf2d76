package utils

import (
	"github.com/google/uuid"
)

// NewID returns a fresh random entity id
func NewID() string {
	return uuid.NewString()
}
