package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/andrewvolostnykh/viewton/querier"
	"gopkg.in/yaml.v3"
)

// Render writes params to w in the configured format, followed by a newline.
func Render(w io.Writer, p *querier.Params, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	switch cfg.Format {
	case FormatQuery:
		_, err := fmt.Fprintln(w, p.Encode())
		return err

	case FormatURL:
		u, err := p.AppendTo(cfg.BaseURL)
		if err != nil {
			return fmt.Errorf("cannot render url: %w", err)
		}
		_, err = fmt.Fprintln(w, u)
		return err

	case FormatJSON:
		js, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return fmt.Errorf("cannot render json: %w", err)
		}
		js = append(js, '\n')
		_, err = w.Write(js)
		return err

	default:
		return renderYAML(w, p)
	}
}

// renderYAML writes params as a YAML mapping in insertion order. Every value
// is tagged as a string so that "-1" or "true" are not read back as numbers
// or booleans.
func renderYAML(w io.Writer, p *querier.Params) error {
	node := &yaml.Node{Kind: yaml.MappingNode}
	p.Each(func(key, value string) {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value},
		)
	})

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return fmt.Errorf("cannot render yaml: %w", err)
	}

	return enc.Close()
}
