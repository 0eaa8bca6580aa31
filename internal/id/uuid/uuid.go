// Package uuid generates correlation IDs for HTTP requests.
package uuid

import (
	"github.com/google/uuid"
)

// MaxInboundLength bounds client-supplied request IDs that are echoed back.
const MaxInboundLength = 128

// NewRequestID returns a time-ordered UUIDv7 string, falling back to a random
// UUIDv4 if the clock source fails.
func NewRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Resolve keeps a usable inbound ID and generates a fresh one otherwise.
func Resolve(inbound string) string {
	if inbound == "" || len(inbound) > MaxInboundLength {
		return NewRequestID()
	}
	return inbound
}
