package querystate

import "strings"

const (
	listSeparator = ','
	listEscape    = '\\'
)

// EncodeList joins items with commas. Commas and backslashes inside an item
// are escaped with a backslash so that any label survives a round trip.
// Empty items are skipped.
func EncodeList(items []string) string {
	var b strings.Builder
	first := true
	for _, item := range items {
		if item == "" {
			continue
		}
		if !first {
			b.WriteByte(listSeparator)
		}
		first = false
		for _, r := range item {
			if r == listSeparator || r == listEscape {
				b.WriteByte(listEscape)
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DecodeList splits raw on unescaped commas. Empty items and repeats are
// dropped; the first occurrence keeps its position. A trailing lone
// backslash is kept literally.
func DecodeList(raw string) []string {
	items := make([]string, 0)
	if raw == "" {
		return items
	}

	seen := make(map[string]struct{})
	add := func(item string) {
		if item == "" {
			return
		}
		if _, ok := seen[item]; ok {
			return
		}
		seen[item] = struct{}{}
		items = append(items, item)
	}

	var cur strings.Builder
	escaped := false
	for _, r := range raw {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == listEscape:
			escaped = true
		case r == listSeparator:
			add(cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if escaped {
		cur.WriteRune(listEscape)
	}
	add(cur.String())

	return items
}
