package querier

import (
	"github.com/andrewvolostnykh/viewton/querier/token"
)

type sortDirection uint8

const (
	sortNone sortDirection = iota
	sortAscending
	sortDescending
)

// Filter is a single field predicate under construction. It is obtained from
// Expression.Param and finished by exactly one terminal method, which writes
// it into the owning expression and returns the owner for further chaining.
//
// Calling a second terminal method on the same filter overwrites the first
// result; the outcome of such reuse is unspecified.
type Filter[Q any] struct {
	fieldName string
	value     string
	ic        bool // ignore case pending
	sort      sortDirection
	owner     *Expression[Q]
}

// FieldName returns the field the filter applies to.
func (f *Filter[Q]) FieldName() string {
	return f.fieldName
}

// Key returns the parameter name the filter is written under.
func (f *Filter[Q]) Key() string {
	if f.sort == sortDescending {
		return token.Descending + f.fieldName
	}
	return f.fieldName
}

// Value returns the encoded value, empty until a terminal method ran.
func (f *Filter[Q]) Value() string {
	return f.value
}

// IgnoreCase makes the next equality comparison case insensitive.
// It has no effect on ordering and range comparisons.
func (f *Filter[Q]) IgnoreCase() *Filter[Q] {
	f.ic = true
	return f
}

func (f *Filter[Q]) LessThanOrEqual(than any) Q {
	f.value = token.LessOrEqual.String() + stringify(than)
	return f.register()
}

func (f *Filter[Q]) GreaterThanOrEqual(than any) Q {
	f.value = token.GreaterOrEqual.String() + stringify(than)
	return f.register()
}

func (f *Filter[Q]) EqualsTo(to any) Q {
	f.value = f.caseFolded(stringify(to))
	return f.register()
}

func (f *Filter[Q]) NotEqualsTo(to any) Q {
	f.value = f.caseFolded(token.NotEquals.String() + stringify(to))
	return f.register()
}

// Between matches values in the range from lower to upper.
func (f *Filter[Q]) Between(lower, upper any) Q {
	f.value = stringify(lower) + token.Between.String() + stringify(upper)
	return f.register()
}

func (f *Filter[Q]) Less(than any) Q {
	f.value = token.Less.String() + stringify(than)
	return f.register()
}

func (f *Filter[Q]) Greater(than any) Q {
	f.value = token.Greater.String() + stringify(than)
	return f.register()
}

// AscSort adds the field to the ascending sort list.
func (f *Filter[Q]) AscSort() Q {
	f.value = token.Sorting
	f.sort = sortAscending
	return f.register()
}

// DescSort sorts by the field in reverse order. It is written under the
// field name prefixed with "-".
func (f *Filter[Q]) DescSort() Q {
	f.value = token.Sorting
	f.sort = sortDescending
	return f.register()
}

// Or sets value as the first alternative and continues with more of them.
// The filter is written only when the continuation's Next is called.
func (f *Filter[Q]) Or(value any) *OrAnd[Q] {
	f.value = f.caseFolded(stringify(value))
	return &OrAnd[Q]{
		owner:  f.owner,
		target: f,
	}
}

// caseFolded applies and clears a pending ignore case flag.
func (f *Filter[Q]) caseFolded(value string) string {
	if !f.ic {
		return value
	}
	f.ic = false
	return token.IgnoreCase + value
}

func (f *Filter[Q]) register() Q {
	f.owner.RegisterParam(f)
	return f.owner.self
}
