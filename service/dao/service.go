package dao

import (
	"context"
)

// Service is the generic persistence contract shared by every store in the
// engine (requests, approvers, policies).  The reference implementation is
// in-memory; production deployments inject durable implementations behind
// the same interface.
type Service[K comparable, T any] interface {
	Save(ctx context.Context, t *T) error

	Load(ctx context.Context, id K) (*T, error)

	Delete(ctx context.Context, id K) error

	List(ctx context.Context, parameters ...*Parameter) ([]*T, error)
}
