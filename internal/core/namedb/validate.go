package namedb

import (
	"fmt"
	"sort"
	"strings"

	"dish-namer/internal/core/dish"

	"github.com/agnivade/levenshtein"
)

// Warning 文件檢查警告
type Warning struct {
	Section string `json:"section"`
	Index   int    `json:"index"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s[%d]: %s", w.Section, w.Index, w.Message)
}

// Validate 檢查文件內容，回傳不影響載入但可能是撰寫錯誤的問題。
// known 為已知的食材 ID；為空時以文件中單一食材定義的 ID 作為已知集合。
func Validate(doc *Document, known []string) []Warning {
	var warnings []Warning
	if doc == nil {
		return nil
	}

	knownSet := make(map[string]bool)
	for _, id := range known {
		knownSet[id] = true
	}
	if len(knownSet) == 0 {
		for _, def := range doc.Dishes {
			knownSet[strings.TrimSpace(def.Ingredient)] = true
		}
	}
	knownList := make([]string, 0, len(knownSet))
	for id := range knownSet {
		if id != "" {
			knownList = append(knownList, id)
		}
	}
	sort.Strings(knownList)

	checkID := func(section string, index int, id string) {
		if id == "" || knownSet[id] {
			return
		}
		if near, ok := nearest(id, knownList); ok {
			warnings = append(warnings, Warning{
				Section: section,
				Index:   index,
				Message: fmt.Sprintf("ingredient %q looks like a typo of %q", id, near),
			})
		}
	}

	seen := make(map[string]int)
	for i, def := range doc.Dishes {
		id := strings.TrimSpace(def.Ingredient)
		if id == "" {
			warnings = append(warnings, Warning{Section: "dishes", Index: i, Message: "missing ingredient id"})
		}
		if _, ok := dish.ParseQuality(def.Quality); !ok {
			warnings = append(warnings, Warning{Section: "dishes", Index: i, Message: fmt.Sprintf("unknown quality %q", def.Quality)})
		}
		if len(cleanEntries(def.Entries)) == 0 {
			warnings = append(warnings, Warning{Section: "dishes", Index: i, Message: "no usable entries"})
		}
		for _, e := range def.Entries {
			key := id + "|" + def.Quality + "|" + e.Name
			if prev, dup := seen[key]; dup {
				warnings = append(warnings, Warning{Section: "dishes", Index: i, Message: fmt.Sprintf("duplicate entry %q (first at dishes[%d])", e.Name, prev)})
				continue
			}
			seen[key] = i
		}
	}

	for i, def := range doc.Combos {
		if n := len(def.Ingredients); n != 2 && n != 3 {
			warnings = append(warnings, Warning{Section: "combos", Index: i, Message: fmt.Sprintf("combo has %d ingredients, want 2 or 3", n)})
		}
		if len(cleanEntries(def.Entries)) == 0 {
			warnings = append(warnings, Warning{Section: "combos", Index: i, Message: "no usable entries"})
		}
		for _, id := range def.Ingredients {
			checkID("combos", i, strings.TrimSpace(id))
		}
	}
	return warnings
}

// nearest 找出編輯距離在門檻內的最接近 ID
func nearest(id string, known []string) (string, bool) {
	best, bestDist := "", -1
	for _, cand := range known {
		dist := levenshtein.ComputeDistance(strings.ToLower(id), strings.ToLower(cand))
		if dist > typoLimit(len(cand)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = cand, dist
		}
	}
	return best, bestDist >= 0
}

func typoLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	default:
		return 2
	}
}
