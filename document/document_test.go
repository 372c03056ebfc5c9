package document

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/andrewvolostnykh/viewton/fault"
	"github.com/andrewvolostnykh/viewton/querier"
	"gopkg.in/yaml.v3"
)

const sample = `
page: 2
page_size: 20
count: true
distinct: true
attributes: [name, age]
total_attributes: [age]
filters:
  - field: name
    op: eq
    value: John
    ignore_case: true
  - field: status
    op: ne
    value: closed
  - field: age
    op: between
    values: [18, 30]
  - field: score
    op: gte
    value: 1.5
  - field: rank
    op: lt
    value: 10
  - field: city
    op: in
    values: [Kyiv, Lviv]
    ignore_case: true
sort:
  - field: name
  - field: age
  - field: created
    desc: true
`

func TestBuild(t *testing.T) {
	doc, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, err := doc.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []struct{ key, value string }{
		{"page", "2"},
		{"page_size", "20"},
		{"count", "true"},
		{"distinct", "true"},
		{"attributes", "name,age"},
		{"totalAttributes", "age"},
		{"name", "^John"},
		{"status", "!=closed"},
		{"age", "18-30"},
		{"score", ">=1.5"},
		{"rank", "<10"},
		{"city", "^Kyiv,^Lviv"},
		{"sorting", "name,age"},
		{"-created", "sorting"},
	}

	keys := p.Keys()
	if len(keys) != len(expected) {
		t.Fatalf("expected %d params, got %v", len(expected), p.Map())
	}

	for i, tt := range expected {
		if keys[i] != tt.key {
			t.Fatalf("#%d - expected key `%s`, got `%s`", i, tt.key, keys[i])
		}
		if v, _ := p.Get(tt.key); v != tt.value {
			t.Fatalf("#%d - expected value `%s`, got `%s`", i, tt.value, v)
		}
	}
}

func TestValuesKeepSourceText(t *testing.T) {
	input := `
filters:
  - field: anchor
    op: gt
    value: &base 0.50
  - field: price
    op: eq
    value: 1.0
  - field: version
    op: eq
    value: '1.0'
  - field: code
    op: ne
    value: 007
  - field: weight
    op: between
    values: [1.10, 2e3]
  - field: ratio
    op: in
    values: [*base, 0x1F]
`
	doc, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, err := doc.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct{ key, value string }{
		{"anchor", ">0.50"},
		{"price", "1.0"},
		{"version", "1.0"},
		{"code", "!=007"},
		{"weight", "1.10-2e3"},
		{"ratio", "0.50,0x1F"},
	}
	for i, tt := range tests {
		if v, _ := p.Get(tt.key); v != tt.value {
			t.Fatalf("#%d - expected `%s` for `%s`, got `%s`", i, tt.value, tt.key, v)
		}
	}
}

func TestNoPagination(t *testing.T) {
	doc, err := Parse([]byte("no_pagination: true\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, err := doc.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v, _ := p.Get(querier.ParamPageSize); v != "-1" {
		t.Fatalf("expected `-1`, got `%s`", v)
	}
}

type orderQuery struct {
	*querier.Expression[*orderQuery]
}

func TestApplyToDerivedQuery(t *testing.T) {
	q := &orderQuery{}
	q.Expression = querier.NewExpression(q)

	doc := &Document{Filters: []Filter{{Field: "total", Op: OpGt, Value: yaml.Node{Kind: yaml.ScalarNode, Value: "100"}}}}
	if err := Apply(doc, q.Expression); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v, _ := q.Build().Get("total"); v != ">100" {
		t.Fatalf("expected `>100`, got `%s`", v)
	}
}

func TestInvalidDocuments(t *testing.T) {
	tests := []struct {
		input string
		field string
	}{
		{"page_size: 10\nno_pagination: true\n", "page_size"},
		{"filters:\n  - op: eq\n    value: 1\n", "filters[0].field"},
		{"filters:\n  - field: a\n    value: 1\n", "filters[0].op"},
		{"filters:\n  - field: a\n    op: like\n    value: 1\n", "filters[0].op"},
		{"filters:\n  - field: a\n    op: eq\n", "filters[0].value"},
		{"filters:\n  - field: a\n    op: between\n    values: [1]\n", "filters[0].values"},
		{"filters:\n  - field: a\n    op: in\n", "filters[0].values"},
		{"filters:\n  - field: a\n    op: eq\n    value: ~\n", "filters[0].value"},
		{"filters:\n  - field: a\n    op: eq\n    value: [1, 2]\n", "filters[0].value"},
		{"filters:\n  - field: a\n    op: in\n    values: [1, {b: 2}]\n", "filters[0].values[1]"},
		{"sort:\n  - desc: true\n", "sort[0].field"},
	}

	for i, tt := range tests {
		_, err := Parse([]byte(tt.input))
		if err == nil {
			t.Fatalf("#%d - expected error", i)
		}

		var f fault.Fault
		if !errors.As(err, &f) {
			t.Fatalf("#%d - expected fault, got %T", i, err)
		}
		if f.Code() != fault.BadInputCode {
			t.Fatalf("#%d - expected code `%s`, got `%s`", i, fault.BadInputCode, f.Code())
		}

		md, ok := f.Metadata().(fault.FieldErrorsMetadata)
		if !ok {
			t.Fatalf("#%d - expected field errors metadata, got %T", i, f.Metadata())
		}
		if _, ok := md[tt.field]; !ok {
			t.Fatalf("#%d - expected error for `%s`, got %v", i, tt.field, md)
		}
	}
}

func TestMalformedDocuments(t *testing.T) {
	inputs := []string{
		"",
		"unknown_key: 1\n",
		"page: [1, 2\n",
		"page: abc\n",
	}

	for i, in := range inputs {
		_, err := Parse([]byte(in))
		if !fault.HasCode(err, fault.BadInputCode) {
			t.Fatalf("#%d - expected bad input fault, got %v", i, err)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "query.yaml")

	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatalf("cannot write document: %v", err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Filters) != 6 {
		t.Fatalf("expected 6 filters, got %d", len(doc.Filters))
	}

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	if !fault.HasCode(err, fault.NotFoundCode) {
		t.Fatalf("expected not found fault, got %v", err)
	}
}
