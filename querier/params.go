package querier

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Params is the finished mapping of query parameter names to encoded values.
// Keys are unique and keep the position of their first insertion; writing an
// existing key replaces its value in place.
type Params struct {
	m *linkedhashmap.Map
}

func newParams() *Params {
	return &Params{m: linkedhashmap.New()}
}

func (p *Params) set(key, value string) {
	p.m.Put(key, value)
}

// Get returns the value stored for key.
func (p *Params) Get(key string) (string, bool) {
	v, ok := p.m.Get(key)
	if !ok {
		return "", false
	}
	return v.(string), true
}

// Len returns the number of parameters.
func (p *Params) Len() int {
	return p.m.Size()
}

// Keys returns parameter names in insertion order.
func (p *Params) Keys() []string {
	keys := make([]string, 0, p.m.Size())
	p.Each(func(key, _ string) {
		keys = append(keys, key)
	})
	return keys
}

// Each calls fn for every parameter in insertion order.
func (p *Params) Each(fn func(key, value string)) {
	it := p.m.Iterator()
	for it.Next() {
		fn(it.Key().(string), it.Value().(string))
	}
}

// Map returns a copy of the parameters as a plain map.
func (p *Params) Map() map[string]string {
	res := make(map[string]string, p.m.Size())
	p.Each(func(key, value string) {
		res[key] = value
	})
	return res
}

// Values returns a copy of the parameters as url.Values, one value per key.
func (p *Params) Values() url.Values {
	res := make(url.Values, p.m.Size())
	p.Each(func(key, value string) {
		res.Set(key, value)
	})
	return res
}

// Encode returns the parameters URL-encoded as "key=value" pairs joined by
// "&". Unlike url.Values.Encode the insertion order is kept.
func (p *Params) Encode() string {
	var sb strings.Builder
	p.Each(func(key, value string) {
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(value))
	})
	return sb.String()
}

// AppendTo appends the parameters to the query string of rawURL. Parameters
// already present in rawURL are kept in front of the new ones.
func (p *Params) AppendTo(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("cannot parse url: %w", err)
	}

	encoded := p.Encode()
	switch {
	case encoded == "":
	case u.RawQuery == "":
		u.RawQuery = encoded
	default:
		u.RawQuery = u.RawQuery + "&" + encoded
	}

	return u.String(), nil
}

// MarshalJSON encodes the parameters as a JSON object in insertion order.
func (p *Params) MarshalJSON() ([]byte, error) {
	return p.m.ToJSON()
}
