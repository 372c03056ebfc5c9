// Package querier builds the query parameters read by a viewton service.
//
//	p := querier.New().
//		Param("name").IgnoreCase().EqualsTo("john").
//		Param("age").Between(18, 30).
//		Param("status").Or("new").Or("open").Next().
//		Param("created").DescSort().
//		Page(1).
//		Build()
//
//	p.Encode() // name=%5Ejohn&age=18-30&status=new%2Copen&-created=sorting&page=1
package querier

import (
	"strconv"
	"strings"

	"github.com/andrewvolostnykh/viewton/querier/token"
)

// Reserved parameter names understood by the viewton query parser.
const (
	ParamPage            = "page"
	ParamPageSize        = "page_size"
	ParamCount           = "count"
	ParamDistinct        = "distinct"
	ParamTotal           = "total"
	ParamAttributes      = "attributes"
	ParamTotalAttributes = "totalAttributes"
	ParamSorting         = token.Sorting
)

// NoPageSize is the page size meaning "return everything".
const NoPageSize = -1

// Expression collects query parameters for one request.
//
// Q is the concrete query type that embeds the expression. Every chaining
// method returns Q, so a domain query keeps its own filter accessors
// available after calling a generic method:
//
//	type UserQuery struct {
//		*querier.Expression[*UserQuery]
//	}
//
//	func NewUserQuery() *UserQuery {
//		q := &UserQuery{}
//		q.Expression = querier.NewExpression(q)
//		return q
//	}
//
//	func (q *UserQuery) Name() *querier.Filter[*UserQuery] { return q.Param("name") }
//
// An expression is not safe for concurrent use.
type Expression[Q any] struct {
	self   Q
	params *Params
}

// NewExpression creates an empty expression whose chaining methods return self.
func NewExpression[Q any](self Q) *Expression[Q] {
	return &Expression[Q]{
		self:   self,
		params: newParams(),
	}
}

// Query is the general purpose expression with no domain specific accessors.
type Query struct {
	*Expression[*Query]
}

// New creates an empty Query.
func New() *Query {
	q := &Query{}
	q.Expression = NewExpression(q)
	return q
}

// Param starts a filter on fieldName. Nothing is written until one of the
// filter's terminal methods is called.
func (e *Expression[Q]) Param(fieldName string) *Filter[Q] {
	return &Filter[Q]{
		fieldName: fieldName,
		owner:     e,
	}
}

// RegisterParam writes a finished filter into the parameters.
// Ascending sorts are collected under the sorting key and write no key of
// their own; every other filter, descending sorts included, is written under
// its own key.
func (e *Expression[Q]) RegisterParam(f *Filter[Q]) {
	if f.sort == sortAscending {
		if current, ok := e.params.Get(ParamSorting); ok {
			e.params.set(ParamSorting, current+token.ListSeparator+f.fieldName)
		} else {
			e.params.set(ParamSorting, f.fieldName)
		}
		return
	}

	e.params.set(f.Key(), f.value)
}

func (e *Expression[Q]) Page(page int) Q {
	e.params.set(ParamPage, strconv.Itoa(page))
	return e.self
}

func (e *Expression[Q]) PageSize(pageSize int) Q {
	e.params.set(ParamPageSize, strconv.Itoa(pageSize))
	return e.self
}

// NoPagination asks for all rows at once.
func (e *Expression[Q]) NoPagination() Q {
	e.params.set(ParamPageSize, strconv.Itoa(NoPageSize))
	return e.self
}

func (e *Expression[Q]) Count() Q {
	e.params.set(ParamCount, "true")
	return e.self
}

func (e *Expression[Q]) Distinct() Q {
	e.params.set(ParamDistinct, "true")
	return e.self
}

func (e *Expression[Q]) Total() Q {
	e.params.set(ParamTotal, "true")
	return e.self
}

// Attributes limits the returned fields to the given ones. The filters only
// carry field names; none of their comparison methods need to be called.
func (e *Expression[Q]) Attributes(attributes ...*Filter[Q]) Q {
	return e.toAttributes(ParamAttributes, attributes)
}

// TotalAttributes selects the fields the total is computed over.
func (e *Expression[Q]) TotalAttributes(attributes ...*Filter[Q]) Q {
	return e.toAttributes(ParamTotalAttributes, attributes)
}

func (e *Expression[Q]) toAttributes(paramName string, attributes []*Filter[Q]) Q {
	names := make([]string, 0, len(attributes))
	named := false
	for _, a := range attributes {
		if a == nil {
			continue
		}
		names = append(names, a.fieldName)
		named = named || a.fieldName != ""
	}

	if named {
		e.params.set(paramName, strings.Join(names, token.ListSeparator))
	}

	return e.self
}

// Build returns the collected parameters. The expression should not be
// modified afterwards.
func (e *Expression[Q]) Build() *Params {
	return e.params
}
