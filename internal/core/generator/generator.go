// Package generator 在資料庫沒有對應菜名時，依分類與品質以範本產生菜名與描述。
package generator

import (
	"math/rand/v2"
	"strings"

	"dish-namer/internal/core/dish"
	"dish-namer/internal/core/dish/category"
)

// 固定機率
const (
	cookingMethodChance = 0.4
	sauceChance         = 0.3
	fineAdjectiveChance = 0.5
)

var (
	cookingMethods = []string{"Roasted", "Braised", "Grilled", "Smoked", "Pan-Seared"}
	sauces         = []string{"Gravy", "Pepper Sauce", "Herb Butter", "Red Wine Jus"}

	fillers = map[Pool][]string{
		PoolMeat:    {"Vegetables", "Greens", "Root Mash"},
		PoolGrain:   {"Herbs", "Broth"},
		PoolProduce: {"Herbs", "Salt"},
		PoolMixed:   {"Scraps", "Leftovers"},
	}

	qualityAdjectives = map[dish.Quality][]string{
		dish.QualityFine:   {"Fine", "Savory", "Tender", "Hearty"},
		dish.QualityLavish: {"Lavish", "Exquisite", "Royal", "Sumptuous"},
	}

	categoryPlaceholders = map[dish.Category]string{
		dish.Meat:      "meat",
		dish.Vegetable: "vegetable",
		dish.Grain:     "grain",
		dish.Egg:       "egg",
		dish.Dairy:     "dairy",
		dish.Fruit:     "fruit",
		dish.Fungus:    "fungus",
		dish.Special:   "special",
	}
)

// Generator 程序化菜名產生器
type Generator struct {
	categorizer *category.Categorizer
	templates   Templates
}

// New 建立產生器；templates 為 nil 時使用內建範本
func New(categorizer *category.Categorizer, templates Templates) *Generator {
	if templates == nil {
		templates = DefaultTemplates()
	}
	if categorizer == nil {
		categorizer = category.New(nil)
	}
	return &Generator{categorizer: categorizer, templates: templates}
}

// Dominant 選出 1~2 個主要食材。特殊食材與扭曲肉一定排在第一位。
func (g *Generator) Dominant(ingredients []dish.Ingredient) []dish.Ingredient {
	if len(ingredients) == 0 {
		return nil
	}

	var picked []dish.Ingredient
	cat := g.categorizer.DominantCategory(ingredients)
	first, ok := g.categorizer.RepresentativeIngredient(ingredients, cat)
	if !ok {
		first = ingredients[0]
	}
	picked = append(picked, first)

	rest := make([]dish.Ingredient, 0, len(ingredients))
	for _, ing := range ingredients {
		if ing.ID != first.ID {
			rest = append(rest, ing)
		}
	}
	if len(rest) > 0 {
		cat := g.categorizer.DominantCategory(rest)
		second, ok := g.categorizer.RepresentativeIngredient(rest, cat)
		if !ok {
			second = rest[0]
		}
		picked = append(picked, second)
	}

	promoted, ok := g.promoted(ingredients)
	if !ok || picked[0].ID == promoted.ID {
		return picked
	}
	out := []dish.Ingredient{promoted}
	for _, ing := range picked {
		if ing.ID != promoted.ID && len(out) < 2 {
			out = append(out, ing)
		}
	}
	return out
}

// promoted 扭曲肉優先，其次為第一個特殊食材
func (g *Generator) promoted(ingredients []dish.Ingredient) (dish.Ingredient, bool) {
	for _, ing := range ingredients {
		if g.categorizer.IsAltered(ing) {
			return ing, true
		}
	}
	for _, ing := range ingredients {
		if g.categorizer.Categorize(ing) == dish.Special {
			return ing, true
		}
	}
	return dish.Ingredient{}, false
}

// GenerateName 產生菜名
func (g *Generator) GenerateName(ingredients []dish.Ingredient, quality dish.Quality, rng *rand.Rand) string {
	if len(ingredients) == 0 {
		return dish.MysteryName
	}
	rng = ensureRNG(rng, ingredients)
	quality = quality.OrSimple()
	set := g.templates.For(quality)

	dominant := g.Dominant(ingredients)
	primaryCat := g.categorizer.Categorize(dominant[0])
	pool := PoolFor(primaryCat)

	patterns := g.patternsFor(set, ingredients, dominant, pool)
	tmpl := patterns[rng.IntN(len(patterns))]

	vars := g.placeholders(ingredients, dominant)
	if len(dominant) < 2 {
		vars["secondary"] = choose(fillers[pool], rng)
		if pool == PoolMeat && rng.Float64() < sauceChance {
			vars["secondary"] = choose(sauces, rng)
		}
	}
	name := fill(tmpl, vars)

	if pool == PoolMeat && rng.Float64() < cookingMethodChance {
		name = choose(cookingMethods, rng) + " " + name
	}

	switch quality {
	case dish.QualityFine:
		if rng.Float64() < fineAdjectiveChance {
			name = choose(qualityAdjectives[quality], rng) + " " + name
		}
	case dish.QualityLavish:
		name = choose(qualityAdjectives[quality], rng) + " " + name
	}

	return dish.FixTwistedMeat(name, ingredients)
}

// GenerateDescription 產生描述
func (g *Generator) GenerateDescription(ingredients []dish.Ingredient, quality dish.Quality, rng *rand.Rand) string {
	if len(ingredients) == 0 {
		return dish.MysteryDescription
	}
	rng = ensureRNG(rng, ingredients)
	set := g.templates.For(quality)

	patterns := set.Descriptions
	if len(patterns) == 0 {
		patterns = builtin[dish.QualitySimple].Descriptions
	}
	vars := g.placeholders(ingredients, g.Dominant(ingredients))
	desc := fill(patterns[rng.IntN(len(patterns))], vars)

	if dish.ContainsAlteredMeat(ingredients) {
		desc += " " + dish.AlteredMeatSentence
	}
	return desc
}

func (g *Generator) patternsFor(set *TemplateSet, ingredients, dominant []dish.Ingredient, pool Pool) []string {
	var patterns []string
	distinct := 0
	for _, c := range g.categorizer.DistinctCategories(ingredients) {
		if c != dish.Other {
			distinct++
		}
	}
	switch {
	case distinct >= 3:
		patterns = set.Multi
	case len(dominant) == 2 && g.categorizer.Categorize(dominant[0]) != g.categorizer.Categorize(dominant[1]):
		patterns = set.Dual
	default:
		patterns = set.Single[pool]
	}
	if len(patterns) == 0 {
		patterns = set.Generic
	}
	if len(patterns) == 0 {
		patterns = builtin[dish.QualitySimple].Generic
	}
	return patterns
}

func (g *Generator) placeholders(ingredients, dominant []dish.Ingredient) map[string]string {
	vars := map[string]string{
		"ingredients": dish.FormatIngredientList(ingredients),
	}
	primary := dominant[0].CleanLabel()
	vars["primary"] = primary
	vars["ingredient"] = primary
	if len(dominant) > 1 {
		vars["secondary"] = dominant[1].CleanLabel()
	}

	for _, list := range [][]dish.Ingredient{dominant, ingredients} {
		for _, ing := range list {
			key, ok := categoryPlaceholders[g.categorizer.Categorize(ing)]
			if !ok {
				continue
			}
			if _, set := vars[key]; !set {
				vars[key] = ing.CleanLabel()
			}
		}
	}
	for _, key := range categoryPlaceholders {
		if _, set := vars[key]; !set {
			vars[key] = primary
		}
	}
	return vars
}

func fill(tmpl string, vars map[string]string) string {
	out := placeholderRE.ReplaceAllStringFunc(tmpl, func(m string) string {
		key := m[1 : len(m)-1]
		if v, ok := vars[key]; ok {
			return v
		}
		return vars["primary"]
	})
	return strings.Join(strings.Fields(out), " ")
}

func choose(list []string, rng *rand.Rand) string {
	return list[rng.IntN(len(list))]
}

// ensureRNG 未提供 rng 時以食材 ID 建立固定種子，讓結果可重現
func ensureRNG(rng *rand.Rand, ingredients []dish.Ingredient) *rand.Rand {
	if rng != nil {
		return rng
	}
	var seed uint64
	for _, ing := range ingredients {
		for i := 0; i < len(ing.ID); i++ {
			seed = seed*31 + uint64(ing.ID[i])
		}
	}
	return rand.New(rand.NewPCG(seed, 0x9e3779b97f4a7c15))
}
