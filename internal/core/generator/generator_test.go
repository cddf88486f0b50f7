package generator

import (
	"math/rand/v2"
	"strings"
	"testing"

	"dish-namer/internal/core/dish"
	"dish-namer/internal/core/namedb"

	"github.com/google/go-cmp/cmp"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 7))
}

func hasPrefixIn(name string, words []string) bool {
	for _, w := range words {
		if strings.HasPrefix(name, w+" ") {
			return true
		}
	}
	return false
}

func TestGenerateEmptyIsMystery(t *testing.T) {
	g := New(nil, nil)
	if got := g.GenerateName(nil, dish.QualityLavish, seeded(1)); got != dish.MysteryName {
		t.Errorf("GenerateName(nil) = %q", got)
	}
	if got := g.GenerateDescription([]dish.Ingredient{}, dish.QualityFine, nil); got != dish.MysteryDescription {
		t.Errorf("GenerateDescription(empty) = %q", got)
	}
}

func TestGenerateDeterministicForSeed(t *testing.T) {
	g := New(nil, nil)
	ings := dish.FromIDs("Meat_Cow", "RawRice", "RawBerries")
	for seed := uint64(0); seed < 20; seed++ {
		a := g.GenerateName(ings, dish.QualityFine, seeded(seed))
		b := g.GenerateName(ings, dish.QualityFine, seeded(seed))
		if a != b {
			t.Fatalf("seed %d: %q != %q", seed, a, b)
		}
	}
	if g.GenerateName(ings, dish.QualityFine, nil) != g.GenerateName(ings, dish.QualityFine, nil) {
		t.Fatal("nil rng should fall back to an ingredient-derived seed")
	}
}

func TestQualityPrefix(t *testing.T) {
	g := New(nil, nil)
	ings := dish.FromIDs("RawCabbage")
	const runs = 400

	fine := 0
	for seed := uint64(0); seed < runs; seed++ {
		lavish := g.GenerateName(ings, dish.QualityLavish, seeded(seed))
		if !hasPrefixIn(lavish, qualityAdjectives[dish.QualityLavish]) {
			t.Fatalf("lavish name without adjective: %q", lavish)
		}
		simple := g.GenerateName(ings, dish.QualitySimple, seeded(seed))
		if hasPrefixIn(simple, qualityAdjectives[dish.QualityLavish]) || hasPrefixIn(simple, qualityAdjectives[dish.QualityFine]) {
			t.Fatalf("simple name with quality adjective: %q", simple)
		}
		if hasPrefixIn(g.GenerateName(ings, dish.QualityFine, seeded(seed)), qualityAdjectives[dish.QualityFine]) {
			fine++
		}
	}
	if ratio := float64(fine) / runs; ratio < 0.35 || ratio > 0.65 {
		t.Fatalf("fine adjective ratio %.2f, want about 0.5", ratio)
	}
}

func TestMeatCookingMethodRate(t *testing.T) {
	g := New(nil, nil)
	ings := dish.FromIDs("Meat_Cow")
	const runs = 500
	withMethod := 0
	for seed := uint64(0); seed < runs; seed++ {
		if hasPrefixIn(g.GenerateName(ings, dish.QualitySimple, seeded(seed)), cookingMethods) {
			withMethod++
		}
	}
	if ratio := float64(withMethod) / runs; ratio < 0.3 || ratio > 0.5 {
		t.Fatalf("cooking method ratio %.2f, want about 0.4", ratio)
	}

	// grains never get a cooking method
	for seed := uint64(0); seed < 50; seed++ {
		if name := g.GenerateName(dish.FromIDs("RawRice"), dish.QualitySimple, seeded(seed)); hasPrefixIn(name, cookingMethods) {
			t.Fatalf("grain name with cooking method: %q", name)
		}
	}
}

func TestTwistedMeatAlwaysFixed(t *testing.T) {
	templates, errs := ParseTemplates([]byte(`
templates:
  - group: SingleCategory
    category: Meat
    patterns: ["Twisted [grain] Bowl", "[meat] Stew"]
  - group: DualCategory
    patterns: ["Twisted [secondary]"]
`), namedb.FormatYAML)
	if len(errs) > 0 {
		t.Fatalf("ParseTemplates: %v", errs)
	}
	g := New(nil, templates)

	for _, ids := range [][]string{
		{"Meat_Twisted"},
		{"Meat_Twisted", "RawRice"},
		{"RawRice", "RawRice", "Meat_Twisted"},
	} {
		for seed := uint64(0); seed < 100; seed++ {
			ings := dish.FromIDs(ids...)
			name := g.GenerateName(ings, dish.QualityLavish, seeded(seed))
			if !strings.Contains(name, "Twisted Meat") {
				t.Fatalf("%v seed %d: %q lacks Twisted Meat", ids, seed, name)
			}
			if dish.FixTwistedMeat(name, ings) != name {
				t.Fatalf("%v seed %d: %q still has a bare Twisted", ids, seed, name)
			}
		}
	}
}

func TestGenerateDescription(t *testing.T) {
	g := New(nil, nil)
	ings := dish.FromIDs("RawRice", "RawRice", "RawCorn", "Meat_Cow")
	desc := g.GenerateDescription(ings, dish.QualityFine, seeded(3))
	if !strings.Contains(desc, "Rice (x2), Corn, and Cow Meat") {
		t.Fatalf("description missing formatted list: %q", desc)
	}
	if strings.Contains(desc, dish.AlteredMeatSentence) {
		t.Fatalf("unexpected altered meat sentence: %q", desc)
	}

	twisted := g.GenerateDescription(dish.FromIDs("Meat_Twisted"), dish.QualitySimple, seeded(3))
	if !strings.HasSuffix(twisted, dish.AlteredMeatSentence) {
		t.Fatalf("expected altered meat sentence: %q", twisted)
	}
}

func TestDominantPromotion(t *testing.T) {
	g := New(nil, nil)
	tests := []struct {
		name string
		ids  []string
		want []string
	}{
		{"single", []string{"RawRice"}, []string{"RawRice"}},
		{"majority first", []string{"RawCorn", "RawRice", "RawRice", "Meat_Cow"}, []string{"RawRice", "Meat_Cow"}},
		{"special promoted", []string{"RawRice", "RawRice", "Meat_Cow", "RawPotatoes"}, []string{"RawPotatoes", "RawRice"}},
		{"altered beats special", []string{"RawPotatoes", "Meat_Twisted", "RawRice"}, []string{"Meat_Twisted", "RawRice"}},
		{"all other", []string{"Chocolate", "Kibble"}, []string{"Chocolate", "Kibble"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dish.IDs(g.Dominant(dish.FromIDs(tt.ids...)))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Dominant mismatch:\n%s", diff)
			}
		})
	}
}

func TestGenerateNeverEmpty(t *testing.T) {
	g := New(nil, nil)
	sets := [][]string{
		{"Chocolate"},
		{"RawRice", "Meat_Cow"},
		{"RawRice", "Meat_Cow", "RawBerries", "RawFungus"},
		{"Milk", "EggChickenUnfertilized"},
	}
	for _, ids := range sets {
		for _, q := range []dish.Quality{dish.QualityNone, dish.QualitySimple, dish.QualityFine, dish.QualityLavish} {
			name := g.GenerateName(dish.FromIDs(ids...), q, seeded(11))
			desc := g.GenerateDescription(dish.FromIDs(ids...), q, seeded(11))
			if strings.TrimSpace(name) == "" || strings.TrimSpace(desc) == "" {
				t.Fatalf("%v/%q: empty output %q / %q", ids, q, name, desc)
			}
			if strings.Contains(name, "[") || strings.Contains(desc, "[") {
				t.Fatalf("%v/%q: unfilled placeholder %q / %q", ids, q, name, desc)
			}
		}
	}
}
