package cli

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// writeOutput ghi v ra w theo --format. YAML đi qua JSON để giữ tên field theo json tag.
func writeOutput(w io.Writer, format string, v interface{}) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}

	// JSON là YAML hợp lệ; decode vào Node để giữ thứ tự key
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return err
	}
	stripStyle(&node)
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(&node)
}

// stripStyle bỏ flow style/quoted kế thừa từ JSON để in ra YAML dạng block
func stripStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		stripStyle(c)
	}
}
