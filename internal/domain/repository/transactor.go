package repository

import "context"

// Transactor runs fn in a single unit of work. Repositories called with the
// ctx passed to fn join that unit of work.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
