package query

/*
	Package query wraps the mongo driver behind the handful of operations the
	stores need. See https://pkg.go.dev/go.mongodb.org/mongo-driver/mongo for
	details of the underlying calls.
*/

import (
	"fmt"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/domain"
)

var (
	// ErrNotFound is mongo document not found error
	ErrNotFound = fmt.Errorf("document not found")

	// ErrDuplicateKey is an error when violating unique index
	ErrDuplicateKey = fmt.Errorf("duplicate key")
)

// Index describes an index on a table. Keys are field names, prefix "-" for descending.
type Index struct {
	Keys   []string
	Unique bool
}

// Mongo abstracts the mongo layer
type Mongo interface {
	// Insert inserts a new document, ErrDuplicateKey on unique index violation
	Insert(ctx ctx.Ctx, table domain.Table, insert interface{}) error

	// FindOne decodes the first match into result, ErrNotFound if nothing matches
	FindOne(ctx ctx.Ctx, table domain.Table, query, result interface{}) error

	Count(ctx ctx.Ctx, table domain.Table, selector interface{}) (int, error)

	// Upsert replaces the matching document or inserts update when none matches
	Upsert(ctx ctx.Ctx, table domain.Table, selector, update interface{}) error

	// Search sorts by `sort` ("field" ascending, "-field" descending), empty skips sorting.
	// limit 0 means no limit.
	Search(ctx ctx.Ctx, table domain.Table, offset, limit int, sort string, query, results interface{}) error

	// Remove deletes one document, ErrNotFound if selector matches none
	Remove(ctx ctx.Ctx, table domain.Table, selector interface{}) error

	// Patch $sets update on one document, ErrNotFound if selector matches none
	Patch(ctx ctx.Ctx, table domain.Table, selector, update interface{}) error

	// Increment adds inc to field and decodes the updated document, inserting it when missing
	Increment(ctx ctx.Ctx, table domain.Table, selector, result interface{}, field string, inc interface{}) error

	EnsureIndexes(ctx ctx.Ctx, table domain.Table, indexes ...Index) error
}
