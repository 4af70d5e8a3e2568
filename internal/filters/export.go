package filters

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalExport renders rules in the interchange format: a bare JSON
// array of rule records.
func MarshalExport(rules []Rule) ([]byte, error) {
	if rules == nil {
		rules = []Rule{}
	}
	data, err := json.MarshalIndent(rules, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode rules: %w", err)
	}
	return data, nil
}

// UnmarshalExport decodes an interchange document. The canonical shape
// is a bare JSON array of rule records; a {"filters": [...]} wrapper
// object is accepted as an alternate.
func UnmarshalExport(data []byte) ([]Rule, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var rules []Rule
		if err := json.Unmarshal(trimmed, &rules); err != nil {
			return nil, fmt.Errorf("decode rule array: %w", err)
		}
		return rules, nil
	}

	var doc struct {
		Filters []Rule `json:"filters"`
	}
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("decode rule document: %w", err)
	}
	return doc.Filters, nil
}
