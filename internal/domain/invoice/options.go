package invoice

import "time"

// DefaultPageSize is the listing page size when none is requested.
const DefaultPageSize = 20

// ListInvoicesOptions filters a repository listing. A zero ClientID lists
// every client.
type ListInvoicesOptions struct {
	ClientID int64
	Limit    int
	Offset   int
}

// ListRequest is a page-based listing request.
type ListRequest struct {
	ClientID int64
	Page     int
	PageSize int
}

// RetryPolicy bounds the optimistic write loop.
type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
}

// DefaultRetryPolicy is used when no policy is configured.
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 5, InitialInterval: 10 * time.Millisecond}

// Option configures a Service.
type Option func(*Service)

// WithRetryPolicy overrides the optimistic retry policy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(s *Service) {
		if p.MaxAttempts > 0 {
			s.retry.MaxAttempts = p.MaxAttempts
		}
		if p.InitialInterval > 0 {
			s.retry.InitialInterval = p.InitialInterval
		}
	}
}

// WithPageSize overrides the default listing page size.
func WithPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}
