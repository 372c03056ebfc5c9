package token

// Operator is a wire token written in front of, or between, filter values.
// Equality has no token: a bare value means equals.
type Operator string

const (
	Less           Operator = "<"
	LessOrEqual    Operator = "<="
	Greater        Operator = ">"
	GreaterOrEqual Operator = ">="
	NotEquals      Operator = "!="

	// Between separates the lower and upper bound of a range.
	Between Operator = "-"
	// Or separates alternative values of the same field.
	Or Operator = ","
)

const (
	// IgnoreCase prefixes a value compared without case sensitivity.
	IgnoreCase = "^"
	// Descending prefixes the key of a field sorted in reverse order.
	Descending = "-"
	// Sorting is both the key collecting ascending sort fields and the value
	// of a sort filter.
	Sorting = "sorting"
	// ListSeparator joins field names in sorting and projection keys.
	ListSeparator = ","
)

func (o Operator) String() string {
	return string(o)
}
