// Package pagination converts a (page, limit) request into a deterministic
// skip/take window over an owner's task partition.
package pagination

const (
	// DefaultLimit is used when the caller does not specify one.
	DefaultLimit = 5
	// MaxLimit caps the page size regardless of the requested value.
	MaxLimit = 100
)

// Paginator carries the caller-supplied page number and limit. The zero
// value means "first page, default limit".
type Paginator struct {
	// Page is 1-indexed; 0 also refers to the first page. There is no
	// upper bound: pages past the data yield empty results.
	Page int
	// Limit is the requested page size; 0 or negative selects DefaultLimit.
	Limit int
}

// page returns the page number, at least 1.
func (p Paginator) page() int {
	if p.Page < 1 {
		return 1
	}
	return p.Page
}

// EffectiveLimit returns the page size after default substitution and
// clamping to MaxLimit.
func (p Paginator) EffectiveLimit() int {
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return limit
}

// Skip returns the number of records to drop before the window starts.
func (p Paginator) Skip() int {
	return (p.page() - 1) * p.EffectiveLimit()
}
