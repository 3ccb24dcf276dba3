package common

import (
	"github.com/google/uuid"
)

// NewRequestID generates a correlation ID for an inbound request
// Format: req_<uuid>
func NewRequestID() string {
	return "req_" + uuid.New().String()
}
