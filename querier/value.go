package querier

import (
	"fmt"

	"github.com/spf13/cast"
)

// stringify renders any filter value the same way regardless of its type.
// Types cast does not know about fall back to their fmt representation.
func stringify(v any) string {
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}
