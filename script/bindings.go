package script

import (
	"github.com/andrewvolostnykh/viewton/querier"
	lua "github.com/yuin/gopher-lua"
)

const (
	queryTypeName  = "viewton.query"
	filterTypeName = "viewton.filter"
	orAndTypeName  = "viewton.or_and"
)

// The Lua side does not know the concrete query type, so the handles below
// hide it behind small interfaces.

type queryHandle interface {
	param(name string) filterHandle
	page(n int)
	pageSize(n int)
	noPagination()
	count()
	distinct()
	total()
	attributes(names []string)
	totalAttributes(names []string)
}

type filterHandle interface {
	ignoreCase()
	lessThanOrEqual(v any)
	greaterThanOrEqual(v any)
	equalsTo(v any)
	notEqualsTo(v any)
	between(lower, upper any)
	less(v any)
	greater(v any)
	ascSort()
	descSort()
	or(v any) orAndHandle
}

type orAndHandle interface {
	ignoreCase()
	or(v any)
	next()
}

type expressionHandle[Q any] struct {
	e *querier.Expression[Q]
}

func (h expressionHandle[Q]) param(name string) filterHandle {
	return filterAdapter[Q]{h.e.Param(name)}
}

func (h expressionHandle[Q]) page(n int) { h.e.Page(n) }
func (h expressionHandle[Q]) pageSize(n int) { h.e.PageSize(n) }
func (h expressionHandle[Q]) noPagination() { h.e.NoPagination() }
func (h expressionHandle[Q]) count() { h.e.Count() }
func (h expressionHandle[Q]) distinct() { h.e.Distinct() }
func (h expressionHandle[Q]) total() { h.e.Total() }

func (h expressionHandle[Q]) attributes(names []string) {
	h.e.Attributes(h.carriers(names)...)
}

func (h expressionHandle[Q]) totalAttributes(names []string) {
	h.e.TotalAttributes(h.carriers(names)...)
}

func (h expressionHandle[Q]) carriers(names []string) []*querier.Filter[Q] {
	res := make([]*querier.Filter[Q], len(names))
	for i, n := range names {
		res[i] = h.e.Param(n)
	}
	return res
}

type filterAdapter[Q any] struct {
	f *querier.Filter[Q]
}

func (a filterAdapter[Q]) ignoreCase() { a.f.IgnoreCase() }
func (a filterAdapter[Q]) lessThanOrEqual(v any) { a.f.LessThanOrEqual(v) }
func (a filterAdapter[Q]) greaterThanOrEqual(v any) { a.f.GreaterThanOrEqual(v) }
func (a filterAdapter[Q]) equalsTo(v any) { a.f.EqualsTo(v) }
func (a filterAdapter[Q]) notEqualsTo(v any) { a.f.NotEqualsTo(v) }
func (a filterAdapter[Q]) between(lower, upper any) { a.f.Between(lower, upper) }
func (a filterAdapter[Q]) less(v any) { a.f.Less(v) }
func (a filterAdapter[Q]) greater(v any) { a.f.Greater(v) }
func (a filterAdapter[Q]) ascSort() { a.f.AscSort() }
func (a filterAdapter[Q]) descSort() { a.f.DescSort() }
func (a filterAdapter[Q]) or(v any) orAndHandle { return orAndAdapter[Q]{a.f.Or(v)} }

type orAndAdapter[Q any] struct {
	o *querier.OrAnd[Q]
}

func (a orAndAdapter[Q]) ignoreCase() { a.o.IgnoreCase() }
func (a orAndAdapter[Q]) or(v any) { a.o.Or(v) }
func (a orAndAdapter[Q]) next() { a.o.Next() }

// luaFilter and luaOrAnd keep the query userdata so terminal methods can hand
// it back to the script for further chaining.
type luaFilter struct {
	h     filterHandle
	query *lua.LUserData
}

type luaOrAnd struct {
	h     orAndHandle
	query *lua.LUserData
}

func registerTypes(L *lua.LState) {
	mt := L.NewTypeMetatable(queryTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), queryMethods))

	mt = L.NewTypeMetatable(filterTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), filterMethods))

	mt = L.NewTypeMetatable(orAndTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), orAndMethods))
}

func newQuery[Q any](L *lua.LState, e *querier.Expression[Q]) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = queryHandle(expressionHandle[Q]{e})
	L.SetMetatable(ud, L.GetTypeMetatable(queryTypeName))
	return ud
}

func checkQuery(L *lua.LState) (queryHandle, *lua.LUserData) {
	ud := L.CheckUserData(1)
	if h, ok := ud.Value.(queryHandle); ok {
		return h, ud
	}
	L.ArgError(1, "query expected")
	return nil, nil
}

func checkFilter(L *lua.LState) (*luaFilter, *lua.LUserData) {
	ud := L.CheckUserData(1)
	if f, ok := ud.Value.(*luaFilter); ok {
		return f, ud
	}
	L.ArgError(1, "filter expected")
	return nil, nil
}

func checkOrAnd(L *lua.LState) (*luaOrAnd, *lua.LUserData) {
	ud := L.CheckUserData(1)
	if o, ok := ud.Value.(*luaOrAnd); ok {
		return o, ud
	}
	L.ArgError(1, "or_and expected")
	return nil, nil
}

// checkValue converts a filter value passed from Lua.
func checkValue(L *lua.LState, n int) any {
	switch v := L.CheckAny(n).(type) {
	case lua.LNumber:
		return float64(v)
	case lua.LString:
		return string(v)
	case lua.LBool:
		return bool(v)
	default:
		L.ArgError(n, "number, string or boolean expected")
		return nil
	}
}

func checkNames(L *lua.LState) []string {
	names := make([]string, 0, L.GetTop()-1)
	for i := 2; i <= L.GetTop(); i++ {
		names = append(names, L.CheckString(i))
	}
	return names
}

var queryMethods = map[string]lua.LGFunction{
	"param": func(L *lua.LState) int {
		q, ud := checkQuery(L)
		f := L.NewUserData()
		f.Value = &luaFilter{h: q.param(L.CheckString(2)), query: ud}
		L.SetMetatable(f, L.GetTypeMetatable(filterTypeName))
		L.Push(f)
		return 1
	},
	"page":             queryMethod(func(L *lua.LState, q queryHandle) { q.page(L.CheckInt(2)) }),
	"page_size":        queryMethod(func(L *lua.LState, q queryHandle) { q.pageSize(L.CheckInt(2)) }),
	"no_pagination":    queryMethod(func(L *lua.LState, q queryHandle) { q.noPagination() }),
	"count":            queryMethod(func(L *lua.LState, q queryHandle) { q.count() }),
	"distinct":         queryMethod(func(L *lua.LState, q queryHandle) { q.distinct() }),
	"total":            queryMethod(func(L *lua.LState, q queryHandle) { q.total() }),
	"attributes":       queryMethod(func(L *lua.LState, q queryHandle) { q.attributes(checkNames(L)) }),
	"total_attributes": queryMethod(func(L *lua.LState, q queryHandle) { q.totalAttributes(checkNames(L)) }),
}

func queryMethod(fn func(L *lua.LState, q queryHandle)) lua.LGFunction {
	return func(L *lua.LState) int {
		q, ud := checkQuery(L)
		fn(L, q)
		L.Push(ud)
		return 1
	}
}

var filterMethods = map[string]lua.LGFunction{
	"ignore_case": func(L *lua.LState) int {
		f, ud := checkFilter(L)
		f.h.ignoreCase()
		L.Push(ud)
		return 1
	},
	"less_than_or_equal":    filterTerminal(func(L *lua.LState, f filterHandle) { f.lessThanOrEqual(checkValue(L, 2)) }),
	"greater_than_or_equal": filterTerminal(func(L *lua.LState, f filterHandle) { f.greaterThanOrEqual(checkValue(L, 2)) }),
	"equals_to":             filterTerminal(func(L *lua.LState, f filterHandle) { f.equalsTo(checkValue(L, 2)) }),
	"not_equals_to":         filterTerminal(func(L *lua.LState, f filterHandle) { f.notEqualsTo(checkValue(L, 2)) }),
	"between":               filterTerminal(func(L *lua.LState, f filterHandle) { f.between(checkValue(L, 2), checkValue(L, 3)) }),
	"less":                  filterTerminal(func(L *lua.LState, f filterHandle) { f.less(checkValue(L, 2)) }),
	"greater":               filterTerminal(func(L *lua.LState, f filterHandle) { f.greater(checkValue(L, 2)) }),
	"asc_sort":              filterTerminal(func(L *lua.LState, f filterHandle) { f.ascSort() }),
	"desc_sort":             filterTerminal(func(L *lua.LState, f filterHandle) { f.descSort() }),
	"or_": func(L *lua.LState) int {
		f, _ := checkFilter(L)
		o := L.NewUserData()
		o.Value = &luaOrAnd{h: f.h.or(checkValue(L, 2)), query: f.query}
		L.SetMetatable(o, L.GetTypeMetatable(orAndTypeName))
		L.Push(o)
		return 1
	},
}

func filterTerminal(fn func(L *lua.LState, f filterHandle)) lua.LGFunction {
	return func(L *lua.LState) int {
		f, _ := checkFilter(L)
		fn(L, f.h)
		L.Push(f.query)
		return 1
	}
}

var orAndMethods = map[string]lua.LGFunction{
	"ignore_case": func(L *lua.LState) int {
		o, ud := checkOrAnd(L)
		o.h.ignoreCase()
		L.Push(ud)
		return 1
	},
	"or_": func(L *lua.LState) int {
		o, ud := checkOrAnd(L)
		o.h.or(checkValue(L, 2))
		L.Push(ud)
		return 1
	},
	"next": func(L *lua.LState) int {
		o, _ := checkOrAnd(L)
		o.h.next()
		L.Push(o.query)
		return 1
	},
}
