package output

import (
	"encoding/json"
	"io"
)

// Result is the JSON-serializable shape of a completed scan.
type Result struct {
	Hosts map[string][]uint16 `json:"hosts"`
}

// WriteJSON writes the open-port result as indented JSON to w.
func WriteJSON(w io.Writer, grouped map[string][]uint16) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Result{Hosts: grouped})
}
