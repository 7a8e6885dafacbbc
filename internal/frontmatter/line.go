package frontmatter

import (
	"strconv"
	"strings"
)

// LineDecoder is a minimal line-oriented header decoder, used when full YAML
// decoding is disabled or fails. It understands "key: value" pairs with
// optional quoting, block lists introduced by a bare "key:" line, and inline
// [a, b] lists. Unsupported constructs are skipped rather than rejected; on
// the shared subset the result is identical to YAMLDecoder's.
type LineDecoder struct{}

// Decode implements Decoder. It never fails.
func (LineDecoder) Decode(block []byte) (Metadata, error) {
	meta := Metadata{}
	listKey := ""
	for _, raw := range strings.Split(string(block), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if line == "-" || strings.HasPrefix(line, "- ") {
			if listKey == "" {
				continue
			}
			item := strings.TrimSpace(strings.TrimPrefix(line, "-"))
			if item == "" || isNullWord(item) {
				continue
			}
			items, _ := meta[listKey].([]string)
			meta[listKey] = append(items, unquote(item))
			continue
		}
		listKey = ""

		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		value = strings.TrimSpace(value)

		switch {
		case value == "":
			// A bare "key:" opens a block list. The key is recorded only
			// once an item arrives, so childless keys stay absent, the
			// same way the YAML decoder drops null values.
			listKey = key
		case strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]"):
			meta[key] = splitFlowList(value)
		default:
			if q, ok := cutQuotes(value); ok {
				meta[key] = q
			} else if v, ok := scalarFromText(value); ok {
				meta[key] = v
			}
		}
	}
	return meta, nil
}

// scalarFromText resolves a bare scalar with the same spellings and strconv
// calls the YAML decoder ends up using, which is what keeps the two
// strategies equivalent. The ok result is false for null spellings.
func scalarFromText(s string) (any, bool) {
	if isNullWord(s) {
		return nil, false
	}
	switch s {
	case "true", "True", "TRUE":
		return true, true
	case "false", "False", "FALSE":
		return false, true
	}
	// Numeric resolution only applies to scalars that look numeric; this
	// keeps words like "inf" plain strings.
	if c := s[0]; c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9') {
		if v, err := strconv.ParseInt(s, 0, 64); err == nil {
			return v, true
		}
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v, true
		}
	}
	return s, true
}

// splitFlowList parses an inline [a, "b", c] list. Empty and null entries
// are dropped.
func splitFlowList(s string) []string {
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	items := []string{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" || isNullWord(part) {
			continue
		}
		items = append(items, unquote(part))
	}
	return items
}

// cutQuotes strips one matching pair of single or double quotes.
func cutQuotes(s string) (string, bool) {
	if len(s) < 2 {
		return s, false
	}
	if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1], true
	}
	return s, false
}

func unquote(s string) string {
	if q, ok := cutQuotes(s); ok {
		return q
	}
	return s
}

// isNullWord reports whether s is one of the YAML null spellings.
func isNullWord(s string) bool {
	switch s {
	case "", "~", "null", "Null", "NULL":
		return true
	}
	return false
}
