package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

var _ pflag.Value = (*enumValue)(nil)

// enumValue pflag.Value chỉ nhận một trong các giá trị cho phép (không phân biệt hoa thường)
type enumValue struct {
	value   string
	allowed []string
}

func newEnumValue(def string, allowed ...string) *enumValue {
	return &enumValue{value: def, allowed: allowed}
}

func (e *enumValue) String() string { return e.value }

func (e *enumValue) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, a := range e.allowed {
		if s == a {
			e.value = s
			return nil
		}
	}
	return fmt.Errorf("phải là một trong: %s", e.Allowed())
}

func (e *enumValue) Type() string { return "string" }

// Allowed danh sách giá trị hợp lệ, phân cách bởi |
func (e *enumValue) Allowed() string {
	return strings.Join(e.allowed, "|")
}
