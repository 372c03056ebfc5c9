package querier

// Selector picks the fields of a query type, typically through its domain
// specific filter accessors, for use as a projection.
type Selector[Q any] interface {
	Select(q Q) []*Filter[Q]
}

// SelectorFunc adapts a function to the Selector interface.
type SelectorFunc[Q any] func(q Q) []*Filter[Q]

func (fn SelectorFunc[Q]) Select(q Q) []*Filter[Q] {
	return fn(q)
}

// SelectAttributes is Attributes with the fields chosen by s.
func (e *Expression[Q]) SelectAttributes(s Selector[Q]) Q {
	return e.Attributes(s.Select(e.self)...)
}

// SelectTotalAttributes is TotalAttributes with the fields chosen by s.
func (e *Expression[Q]) SelectTotalAttributes(s Selector[Q]) Q {
	return e.TotalAttributes(s.Select(e.self)...)
}
