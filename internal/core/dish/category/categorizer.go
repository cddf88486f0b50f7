// Package category 食材分類器：以有序規則表將食材 ID 映射到分類，結果會被快取。
package category

import (
	"strings"
	"sync"

	"dish-namer/internal/core/dish"
)

// MatchKind 規則的比對方式
type MatchKind int

const (
	MatchExact MatchKind = iota
	MatchPrefix
	MatchContains
)

// Rule 分類規則
type Rule struct {
	Name     string
	Kind     MatchKind
	Patterns []string
	Category dish.Category
	// Altered 表示符合此規則的食材為扭曲肉
	Altered bool
}

func (r Rule) matches(id string) bool {
	for _, p := range r.Patterns {
		switch r.Kind {
		case MatchExact:
			if id == p {
				return true
			}
		case MatchPrefix:
			if strings.HasPrefix(id, p) {
				return true
			}
		case MatchContains:
			if strings.Contains(strings.ToLower(id), strings.ToLower(p)) {
				return true
			}
		}
	}
	return false
}

// DefaultRules 預設規則表，依優先順序排列，第一個符合的規則勝出
var DefaultRules = []Rule{
	{Name: "special", Kind: MatchExact, Patterns: []string{"RawPotatoes", "Milk", "InsectJelly", "Ambrosia"}, Category: dish.Special},
	{Name: "meat", Kind: MatchPrefix, Patterns: []string{"Meat_"}, Category: dish.Meat},
	{Name: "altered-meat", Kind: MatchContains, Patterns: []string{"Twisted"}, Category: dish.Meat, Altered: true},
	{Name: "egg", Kind: MatchPrefix, Patterns: []string{"Egg"}, Category: dish.Egg},
	{Name: "dairy", Kind: MatchContains, Patterns: []string{"Cheese", "Butter", "Cream", "Yogurt"}, Category: dish.Dairy},
	{Name: "grain", Kind: MatchExact, Patterns: []string{"RawRice", "RawCorn", "RawWheat", "RawOats"}, Category: dish.Grain},
	{Name: "fruit", Kind: MatchContains, Patterns: []string{"Berries", "Berry", "Fruit", "Agave", "Apple"}, Category: dish.Fruit},
	{Name: "fungus", Kind: MatchContains, Patterns: []string{"Fungus", "Mushroom", "Glowstool"}, Category: dish.Fungus},
	{Name: "raw-vegetable", Kind: MatchPrefix, Patterns: []string{"Raw"}, Category: dish.Vegetable},
}

// Categorizer 食材分類器
type Categorizer struct {
	rules []Rule
	mu    sync.RWMutex
	cache map[string]dish.Category
}

// New 以指定規則建立分類器；rules 為空時使用 DefaultRules
func New(rules []Rule) *Categorizer {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Categorizer{
		rules: rules,
		cache: make(map[string]dish.Category),
	}
}

// Categorize 回傳食材分類，未知食材回傳 Other
func (c *Categorizer) Categorize(ing dish.Ingredient) dish.Category {
	c.mu.RLock()
	cat, ok := c.cache[ing.ID]
	c.mu.RUnlock()
	if ok {
		return cat
	}

	cat = c.classify(ing.ID)

	c.mu.Lock()
	c.cache[ing.ID] = cat
	c.mu.Unlock()
	return cat
}

func (c *Categorizer) classify(id string) dish.Category {
	if id == "" {
		return dish.Other
	}
	for _, r := range c.rules {
		if r.matches(id) {
			return r.Category
		}
	}
	return dish.Other
}

// IsAltered 判斷食材是否命中扭曲肉規則
func (c *Categorizer) IsAltered(ing dish.Ingredient) bool {
	for _, r := range c.rules {
		if r.Altered && r.matches(ing.ID) {
			return true
		}
	}
	return dish.IsAlteredMeat(ing)
}

// DominantCategory 以多數決選出主要分類
func (c *Categorizer) DominantCategory(ingredients []dish.Ingredient) dish.Category {
	if len(ingredients) == 0 {
		return dish.Other
	}
	counts := make([]int, len(dish.Categories))
	for _, ing := range ingredients {
		counts[c.Categorize(ing)]++
	}

	best, bestCount := dish.Other, 0
	for _, cat := range dish.Categories {
		if cat == dish.Other {
			continue
		}
		if counts[cat] > bestCount {
			best, bestCount = cat, counts[cat]
		}
	}
	return best
}

// RepresentativeIngredient 回傳該分類中出現最多次的食材，平手取輸入順序較前者
func (c *Categorizer) RepresentativeIngredient(ingredients []dish.Ingredient, cat dish.Category) (dish.Ingredient, bool) {
	counts := make(map[string]int)
	var order []dish.Ingredient
	for _, ing := range ingredients {
		if c.Categorize(ing) != cat {
			continue
		}
		if counts[ing.ID] == 0 {
			order = append(order, ing)
		}
		counts[ing.ID]++
	}

	var best dish.Ingredient
	bestCount := 0
	for _, ing := range order {
		if counts[ing.ID] > bestCount {
			best, bestCount = ing, counts[ing.ID]
		}
	}
	return best, bestCount > 0
}

// DistinctCategories 依首次出現順序回傳不同的分類
func (c *Categorizer) DistinctCategories(ingredients []dish.Ingredient) []dish.Category {
	seen := make(map[dish.Category]bool)
	var out []dish.Category
	for _, ing := range ingredients {
		cat := c.Categorize(ing)
		if seen[cat] {
			continue
		}
		seen[cat] = true
		out = append(out, cat)
	}
	return out
}

// CacheSize 回傳已快取的食材數量
func (c *Categorizer) CacheSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}
