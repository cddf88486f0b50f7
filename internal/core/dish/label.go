package dish

import (
	"strings"
	"unicode"
)

// CleanLabel 回傳適合放進菜名的食材標籤
func (i Ingredient) CleanLabel() string {
	if label := strings.TrimSpace(i.Label); label != "" {
		lower := strings.ToLower(label)
		if strings.HasPrefix(lower, "raw ") {
			label = strings.TrimSpace(label[len("raw "):])
		}
		return titleWords(label)
	}
	return labelFromID(i.ID)
}

func labelFromID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return ""
	}
	switch {
	case strings.HasPrefix(id, "Meat_"):
		return joinWords(splitIdentifier(id[len("Meat_"):])) + " Meat"
	case strings.HasPrefix(id, "Raw") && len(id) > 3 && unicode.IsUpper(rune(id[3])):
		return joinWords(splitIdentifier(id[3:]))
	case strings.HasPrefix(id, "Egg") && len(id) > 3 && unicode.IsUpper(rune(id[3])):
		words := splitIdentifier(id[3:])
		kept := words[:0]
		for _, w := range words {
			if w == "Unfertilized" || w == "Fertilized" {
				continue
			}
			kept = append(kept, w)
		}
		return joinWords(append(kept, "Egg"))
	}
	return joinWords(splitIdentifier(id))
}

// splitIdentifier 拆開 CamelCase 與底線
func splitIdentifier(s string) []string {
	var words []string
	var cur []rune
	runes := []rune(s)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	for i, r := range runes {
		if r == '_' || r == '-' || unicode.IsSpace(r) {
			flush()
			continue
		}
		if unicode.IsUpper(r) && len(cur) > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

func joinWords(words []string) string {
	return titleWords(strings.Join(words, " "))
}

// titleWords 將每個單字首字母轉為大寫
func titleWords(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		r := []rune(f)
		r[0] = unicode.ToUpper(r[0])
		fields[i] = string(r)
	}
	return strings.Join(fields, " ")
}
