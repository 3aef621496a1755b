package utils

import "strings"

// ParseQueryList handles both repeated and comma-separated query params.
// Blank entries are dropped. Example:
//
//	?name=T50,CT_25         → ["T50","CT_25"]
//	?name=T50&name=CT_25    → ["T50","CT_25"]
func ParseQueryList(q map[string][]string, key string) []string {
	var out []string
	for _, v := range q[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
