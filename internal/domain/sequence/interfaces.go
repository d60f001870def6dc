package sequence

import "context"

// Issuer atomically returns the current value of a named counter and
// advances it by one. Implementations must not read and write separately.
type Issuer interface {
	Next(ctx context.Context, name string) (int64, error)
}

// Repository provides counter persistence.
type Repository interface {
	Issuer
	List(ctx context.Context) ([]Counter, error)
	Set(ctx context.Context, name string, value int64) error
	Provision(ctx context.Context, name string, start int64) (bool, error)
}
