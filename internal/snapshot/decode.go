// Package snapshot decodes the flat "key: value" history documents that the
// monitoring generator writes for every service (history/<slug>.yml).
//
// The format is a deliberately tiny subset of YAML: one scalar per line, no
// nesting, no lists. A full YAML decoder would disagree with the generator on
// quoted numbers, so this package keeps its own rules.
package snapshot

import (
	"regexp"
	"strconv"
	"strings"
)

// numeric matches the values that are turned into numbers.
var numeric = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// Document is a decoded snapshot: field name to either a string or a float64.
// Fields missing from the source text are missing from the map.
type Document map[string]any

// Decode converts the text of a snapshot document into a Document.
//
// Blank lines, lines starting with '#' and lines without a ':' are skipped.
// Only the first ':' separates key from value, so values may contain colons.
// A single matching pair of outer quotes is removed from the value, and a
// value that looks like an integer or decimal becomes a float64 even when it
// was quoted. Later lines overwrite earlier ones with the same key.
//
// Decode never fails and keeps no state between calls.
func Decode(text string) Document {
	doc := make(Document)
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idx := strings.IndexByte(line, ':')
		if idx == -1 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		val := unquote(strings.TrimSpace(line[idx+1:]))
		doc[key] = scalar(val)
	}
	return doc
}

// unquote strips one matching pair of outer quotes. A lone quote character
// is treated as an empty quoted string.
func unquote(val string) string {
	if val == "" {
		return val
	}
	q := val[0]
	if q != '\'' && q != '"' {
		return val
	}
	if val[len(val)-1] != q {
		return val
	}
	if len(val) == 1 {
		return ""
	}
	return strings.TrimSpace(val[1 : len(val)-1])
}

func scalar(val string) any {
	if !numeric.MatchString(val) {
		return val
	}
	n, err := strconv.ParseFloat(val, 64)
	if err != nil {
		// out of float64 range; keep the literal
		return val
	}
	return n
}

// String returns the value stored under key if it is a string.
func (d Document) String(key string) (string, bool) {
	s, ok := d[key].(string)
	return s, ok
}

// Number returns the value stored under key if it is a number.
func (d Document) Number(key string) (float64, bool) {
	n, ok := d[key].(float64)
	return n, ok
}

// Text returns the value stored under key in its string form. Numbers are
// printed with the fewest digits that round-trip (200, 123.5).
func (d Document) Text(key string) (string, bool) {
	switch v := d[key].(type) {
	case string:
		return v, true
	case float64:
		return FormatNumber(v), true
	default:
		return "", false
	}
}

// FormatNumber prints n the way the generator wrote it: no exponent and no
// trailing zeros.
func FormatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
