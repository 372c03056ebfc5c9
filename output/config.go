package output

import (
	"fmt"

	"github.com/andrewvolostnykh/viewton/fault"
)

const (
	FormatQuery = "query"
	FormatURL   = "url"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

type Config struct {
	Format  string `yaml:"format" mapstructure:"format"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

func (c Config) Validate() error {
	switch c.Format {
	case FormatQuery, FormatJSON, FormatYAML:
	case FormatURL:
		if c.BaseURL == "" {
			return fault.New(fault.BadInputCode, "").WithMetadata(fault.FieldErrorsMetadata{
				"base_url": []string{"Field is required for url output."},
			})
		}
	default:
		return fault.New(fault.BadInputCode, "").WithMetadata(fault.FieldErrorsMetadata{
			"format": []string{fmt.Sprintf("Format `%s` is not supported.", c.Format)},
		})
	}

	return nil
}
