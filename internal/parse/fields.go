// Package parse holds the response normalizers: pure functions that turn the
// semi-structured upstream payloads into typed records. Normalizers never
// return errors; unrecognizable input yields nil, which callers treat as "no
// data", not a failure. Upstream services change shape without notice, so
// every optional read is an explicit try-A-else-B chain and free-text mining
// is only ever a fallback.
package parse

import (
	"fmt"
	"regexp"
	"strings"
)

var reFecha = regexp.MustCompile(`\b\d{2}/\d{2}/\d{4}\b`)

// tabFields splits a semi-tabular line on runs of tabs, dropping empty tokens.
func tabFields(line string) []string {
	raw := strings.FieldsFunc(line, func(r rune) bool { return r == '\t' })
	out := raw[:0]
	for _, f := range raw {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// getString reads the first present key as a string, stringifying numbers.
func getString(m map[string]any, keys ...string) string {
	if m == nil {
		return ""
	}
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if t != "" {
				return t
			}
		case float64:
			if t == float64(int64(t)) {
				return fmt.Sprintf("%d", int64(t))
			}
			return fmt.Sprintf("%v", t)
		case int:
			return fmt.Sprintf("%d", t)
		case bool:
			return fmt.Sprintf("%t", t)
		}
	}
	return ""
}

// getMap reads the first present key as a JSON object.
func getMap(m map[string]any, keys ...string) map[string]any {
	if m == nil {
		return nil
	}
	for _, k := range keys {
		if v, ok := m[k].(map[string]any); ok {
			return v
		}
	}
	return nil
}

// getSlice reads the first present key as a JSON array.
func getSlice(m map[string]any, keys ...string) []any {
	if m == nil {
		return nil
	}
	for _, k := range keys {
		if v, ok := m[k].([]any); ok {
			return v
		}
	}
	return nil
}

// getBool reads key as a bool, reporting presence separately.
func getBool(m map[string]any, key string) (bool, bool) {
	if m == nil {
		return false, false
	}
	v, ok := m[key].(bool)
	return v, ok
}

// mapSlice narrows a JSON array to its object elements.
func mapSlice(s []any) []map[string]any {
	var out []map[string]any
	for _, v := range s {
		if m, ok := v.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
