package ui

import (
	"fmt"
	"sort"
	"strings"
)

// RenderCountTable renders a titled listing of counts, one "  key: n"
// line per entry, sorted by key.
func RenderCountTable(title string, counts map[string]int) string {
	var b strings.Builder
	b.WriteString(render(labelStyle, title+":"))

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("  %s: %s", k, render(valueStyle, fmt.Sprintf("%d", counts[k]))))
	}

	return b.String()
}
