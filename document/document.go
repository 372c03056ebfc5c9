package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/andrewvolostnykh/viewton/fault"
	"github.com/andrewvolostnykh/viewton/querier"
	"gopkg.in/yaml.v3"
)

// Operation names accepted in a filter's `op` key.
const (
	OpEq      = "eq"
	OpNe      = "ne"
	OpLt      = "lt"
	OpLte     = "lte"
	OpGt      = "gt"
	OpGte     = "gte"
	OpBetween = "between"
	OpIn      = "in"
)

// Document is a query written down as YAML instead of chained calls.
//
//	page: 2
//	page_size: 20
//	count: true
//	attributes: [name, age]
//	filters:
//	  - field: name
//	    op: eq
//	    value: john
//	    ignore_case: true
//	  - field: age
//	    op: between
//	    values: [18, 30]
//	sort:
//	  - field: age
//	    desc: true
type Document struct {
	Page            *int     `yaml:"page"`
	PageSize        *int     `yaml:"page_size"`
	NoPagination    bool     `yaml:"no_pagination"`
	Count           bool     `yaml:"count"`
	Distinct        bool     `yaml:"distinct"`
	Total           bool     `yaml:"total"`
	Attributes      []string `yaml:"attributes"`
	TotalAttributes []string `yaml:"total_attributes"`
	Filters         []Filter `yaml:"filters"`
	Sort            []Sort   `yaml:"sort"`
}

// Filter values are kept as YAML nodes so they reach the query exactly as
// written: `1.0` stays `1.0` instead of going through a float.
type Filter struct {
	Field      string      `yaml:"field"`
	Op         string      `yaml:"op"`
	Value      yaml.Node   `yaml:"value"`
	Values     []yaml.Node `yaml:"values"`
	IgnoreCase bool        `yaml:"ignore_case"`
}

type Sort struct {
	Field string `yaml:"field"`
	Desc  bool   `yaml:"desc"`
}

// Load reads and parses the document stored at path.
func Load(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fault.New(fault.NotFoundCode, fmt.Sprintf("Document `%s` does not exist.", path)).WithOriginal(err)
		}
		return nil, fmt.Errorf("cannot read document: %w", err)
	}

	return Parse(content)
}

// Parse decodes a YAML document. Unknown keys are rejected.
func Parse(content []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fault.New(fault.BadInputCode, "Document cannot be empty.")
		}
		return nil, fault.New(fault.BadInputCode, "Document contains badly-formed YAML.").WithOriginal(err)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	return &doc, nil
}

// Validate checks the document is complete enough to be applied.
// Field names and values themselves are not checked.
func (d *Document) Validate() error {
	md := fault.FieldErrorsMetadata{}

	if d.PageSize != nil && d.NoPagination {
		md["page_size"] = append(md["page_size"], "Cannot be combined with no_pagination.")
	}

	for i, f := range d.Filters {
		key := fmt.Sprintf("filters[%d]", i)

		if f.Field == "" {
			md[key+".field"] = append(md[key+".field"], "Field is required.")
		}

		switch f.Op {
		case OpEq, OpNe, OpLt, OpLte, OpGt, OpGte:
			switch n := resolve(&f.Value); {
			case n.Kind == 0 || n.Tag == "!!null":
				md[key+".value"] = append(md[key+".value"], "Field is required.")
			case n.Kind != yaml.ScalarNode:
				md[key+".value"] = append(md[key+".value"], "Value must be a scalar.")
			}
		case OpBetween:
			if len(f.Values) != 2 {
				md[key+".values"] = append(md[key+".values"], "Exactly two values are required.")
			}
		case OpIn:
			if len(f.Values) == 0 {
				md[key+".values"] = append(md[key+".values"], "At least one value is required.")
			}
		case "":
			md[key+".op"] = append(md[key+".op"], "Field is required.")
		default:
			md[key+".op"] = append(md[key+".op"], fmt.Sprintf("Operation `%s` is not supported.", f.Op))
		}

		if f.Op == OpBetween || f.Op == OpIn {
			for j := range f.Values {
				if n := resolve(&f.Values[j]); n.Kind != yaml.ScalarNode || n.Tag == "!!null" {
					vk := fmt.Sprintf("%s.values[%d]", key, j)
					md[vk] = append(md[vk], "Value must be a scalar.")
				}
			}
		}
	}

	for i, s := range d.Sort {
		if s.Field == "" {
			key := fmt.Sprintf("sort[%d].field", i)
			md[key] = append(md[key], "Field is required.")
		}
	}

	if len(md) > 0 {
		return fault.New(fault.BadInputCode, "").WithMetadata(md)
	}

	return nil
}

// Build applies the document to a fresh query and returns its parameters.
func (d *Document) Build() (*querier.Params, error) {
	q := querier.New()
	if err := Apply(d, q.Expression); err != nil {
		return nil, err
	}
	return q.Build(), nil
}

// Apply writes the document into e, which may belong to any query type.
func Apply[Q any](d *Document, e *querier.Expression[Q]) error {
	if err := d.Validate(); err != nil {
		return err
	}

	if d.Page != nil {
		e.Page(*d.Page)
	}

	if d.NoPagination {
		e.NoPagination()
	} else if d.PageSize != nil {
		e.PageSize(*d.PageSize)
	}

	if d.Count {
		e.Count()
	}
	if d.Distinct {
		e.Distinct()
	}
	if d.Total {
		e.Total()
	}

	e.Attributes(carriers(e, d.Attributes)...)
	e.TotalAttributes(carriers(e, d.TotalAttributes)...)

	for _, f := range d.Filters {
		applyFilter(e, f)
	}

	for _, s := range d.Sort {
		if s.Desc {
			e.Param(s.Field).DescSort()
		} else {
			e.Param(s.Field).AscSort()
		}
	}

	return nil
}

func carriers[Q any](e *querier.Expression[Q], names []string) []*querier.Filter[Q] {
	res := make([]*querier.Filter[Q], len(names))
	for i, n := range names {
		res[i] = e.Param(n)
	}
	return res
}

func applyFilter[Q any](e *querier.Expression[Q], f Filter) {
	p := e.Param(f.Field)
	if f.IgnoreCase {
		p.IgnoreCase()
	}

	value := literal(&f.Value)

	switch f.Op {
	case OpEq:
		p.EqualsTo(value)
	case OpNe:
		p.NotEqualsTo(value)
	case OpLt:
		p.Less(value)
	case OpLte:
		p.LessThanOrEqual(value)
	case OpGt:
		p.Greater(value)
	case OpGte:
		p.GreaterThanOrEqual(value)
	case OpBetween:
		p.Between(literal(&f.Values[0]), literal(&f.Values[1]))
	case OpIn:
		alt := p.Or(literal(&f.Values[0]))
		for i := range f.Values[1:] {
			if f.IgnoreCase {
				alt.IgnoreCase()
			}
			alt.Or(literal(&f.Values[i+1]))
		}
		alt.Next()
	}
}

// resolve follows YAML aliases to the node they point at.
func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

// literal returns the scalar text as it appears in the document.
func literal(n *yaml.Node) string {
	return resolve(n).Value
}
