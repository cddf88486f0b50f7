package dish

import (
	"fmt"
	"strings"
)

// FormatIngredientList 依 ID 分組後輸出 "A, B, and C (x2)" 形式的清單
func FormatIngredientList(ingredients []Ingredient) string {
	type group struct {
		label string
		count int
	}
	var groups []*group
	index := make(map[string]*group)
	for _, ing := range ingredients {
		if g, ok := index[ing.ID]; ok {
			g.count++
			continue
		}
		g := &group{label: ing.CleanLabel(), count: 1}
		if g.label == "" {
			g.label = "something"
		}
		index[ing.ID] = g
		groups = append(groups, g)
	}

	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		if g.count > 1 {
			parts = append(parts, fmt.Sprintf("%s (x%d)", g.label, g.count))
			continue
		}
		parts = append(parts, g.label)
	}
	return JoinList(parts)
}

// JoinList 以英文列舉規則（牛津逗號）串接
func JoinList(parts []string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	case 2:
		return parts[0] + " and " + parts[1]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + ", and " + parts[len(parts)-1]
}
