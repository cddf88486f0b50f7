package dish

import (
	"regexp"
	"strings"
)

// AlteredMeatID 扭曲肉的食材 ID
const AlteredMeatID = "Meat_Twisted"

// AlteredMeatSentence 含扭曲肉時附加在描述後的句子
const AlteredMeatSentence = "Something about the meat seems wrong, and it twitches when nobody is looking."

var twistedWordRE = regexp.MustCompile(`\bTwisted\b`)

// IsAlteredMeat 判斷是否為扭曲肉
func IsAlteredMeat(ing Ingredient) bool {
	return strings.Contains(ing.ID, "Twisted")
}

// ContainsAlteredMeat 判斷清單中是否有扭曲肉
func ContainsAlteredMeat(ingredients []Ingredient) bool {
	for _, ing := range ingredients {
		if IsAlteredMeat(ing) {
			return true
		}
	}
	return false
}

// FixTwistedMeat 將未接 "Meat" 的 "Twisted" 改寫為 "Twisted Meat"
func FixTwistedMeat(name string, ingredients []Ingredient) string {
	if !ContainsAlteredMeat(ingredients) {
		return name
	}
	matches := twistedWordRE.FindAllStringIndex(name, -1)
	if len(matches) == 0 {
		return name
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		end := m[1]
		b.WriteString(name[last:end])
		if !followedByMeat(name[end:]) {
			b.WriteString(" Meat")
		}
		last = end
	}
	b.WriteString(name[last:])
	return b.String()
}

func followedByMeat(rest string) bool {
	if !strings.HasPrefix(rest, " Meat") {
		return false
	}
	after := rest[len(" Meat"):]
	if after == "" {
		return true
	}
	c := after[0]
	return !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_')
}
