package pipeline

import (
	"context"
)

type Result struct {
	IsAllowed bool
	// Halt stops the chain with the message allowed; used by bypass
	// and deduplication filters.
	Halt       bool
	Reason     string
	FilterName string
}

type Filter interface {
	Name() string
	Process(ctx context.Context, payload Payload) (*Result, error)
}
