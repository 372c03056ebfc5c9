package querier

import "github.com/andrewvolostnykh/viewton/querier/token"

// OrAnd extends a filter with alternative values. It lives between a
// Filter.Or call and the Next call that writes the filter.
type OrAnd[Q any] struct {
	owner  *Expression[Q]
	target *Filter[Q]
	ic     bool
}

// IgnoreCase makes the next alternative case insensitive.
func (o *OrAnd[Q]) IgnoreCase() *OrAnd[Q] {
	o.ic = true
	return o
}

func (o *OrAnd[Q]) Or(value any) *OrAnd[Q] {
	v := stringify(value)
	if o.ic {
		v = token.IgnoreCase + v
		o.ic = false
	}

	o.target.value = o.target.value + token.Or.String() + v
	return o
}

// Next writes the filter with all its alternatives and returns the owner.
func (o *OrAnd[Q]) Next() Q {
	o.owner.RegisterParam(o.target)
	return o.owner.self
}
