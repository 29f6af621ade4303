package render

import "encoding/json"

// RenderJSON encodes f as an indented JSON document.
func RenderJSON(f Frame) ([]byte, error) {
	return json.MarshalIndent(f, "", "  ")
}
