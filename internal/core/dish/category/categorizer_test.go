package category

import (
	"sync"
	"testing"

	"dish-namer/internal/core/dish"

	"github.com/google/go-cmp/cmp"
)

func TestCategorize(t *testing.T) {
	c := New(nil)
	tests := map[string]dish.Category{
		"RawPotatoes":            dish.Special,
		"Milk":                   dish.Special,
		"InsectJelly":            dish.Special,
		"Meat_Cow":               dish.Meat,
		"Meat_Twisted":           dish.Meat,
		"TwistedFlesh":           dish.Meat,
		"EggChickenUnfertilized": dish.Egg,
		"GoatCheese":             dish.Dairy,
		"RawRice":                dish.Grain,
		"RawCorn":                dish.Grain,
		"RawBerries":             dish.Fruit,
		"RawAgave":               dish.Fruit,
		"RawFungus":              dish.Fungus,
		"Glowstool":              dish.Fungus,
		"RawCabbage":             dish.Vegetable,
		"Chocolate":              dish.Other,
		"":                       dish.Other,
	}
	for id, want := range tests {
		if got := c.Categorize(dish.Ingredient{ID: id}); got != want {
			t.Errorf("Categorize(%q) = %v, want %v", id, got, want)
		}
	}
}

func TestCategorizeTotalAndCached(t *testing.T) {
	c := New(nil)
	ids := []string{"Unknown", "raw", "RAWRICE", "Meat", "x_Twisted_y", "🍄", "Raw"}
	for _, id := range ids {
		got := c.Categorize(dish.Ingredient{ID: id})
		if got < dish.Meat || got > dish.Other {
			t.Errorf("Categorize(%q) returned out-of-range category %d", id, got)
		}
		again := c.Categorize(dish.Ingredient{ID: id})
		if again != got {
			t.Errorf("Categorize(%q) not stable: %v then %v", id, got, again)
		}
	}
	if c.CacheSize() != len(ids) {
		t.Errorf("CacheSize() = %d, want %d", c.CacheSize(), len(ids))
	}
}

func TestRuleOrderSpecialBeatsPatterns(t *testing.T) {
	// Ambrosia would otherwise fall through to Other, RawPotatoes to Vegetable.
	c := New(nil)
	for _, id := range []string{"RawPotatoes", "Ambrosia"} {
		if got := c.Categorize(dish.Ingredient{ID: id}); got != dish.Special {
			t.Errorf("Categorize(%q) = %v, want Special", id, got)
		}
	}
	if !c.IsAltered(dish.Ingredient{ID: "Meat_Twisted"}) {
		t.Error("expected Meat_Twisted to be altered")
	}
	if c.IsAltered(dish.Ingredient{ID: "Meat_Cow"}) {
		t.Error("expected Meat_Cow not to be altered")
	}
}

func TestDominantCategory(t *testing.T) {
	c := New(nil)
	tests := []struct {
		name string
		ids  []string
		want dish.Category
	}{
		{"empty", nil, dish.Other},
		{"all other", []string{"Chocolate", "Kibble"}, dish.Other},
		{"other excluded", []string{"Chocolate", "Kibble", "RawRice"}, dish.Grain},
		{"majority", []string{"RawRice", "Meat_Cow", "RawCorn"}, dish.Grain},
		{"tie by declaration order", []string{"RawRice", "Meat_Cow"}, dish.Meat},
		{"tie vegetable before grain", []string{"RawRice", "RawCabbage"}, dish.Vegetable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.DominantCategory(dish.FromIDs(tt.ids...)); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRepresentativeIngredient(t *testing.T) {
	c := New(nil)
	ings := dish.FromIDs("RawRice", "RawCorn", "RawCorn", "Meat_Cow")
	got, ok := c.RepresentativeIngredient(ings, dish.Grain)
	if !ok || got.ID != "RawCorn" {
		t.Fatalf("got %v, %v; want RawCorn", got, ok)
	}

	tie := dish.FromIDs("RawCorn", "RawRice")
	got, _ = c.RepresentativeIngredient(tie, dish.Grain)
	if got.ID != "RawCorn" {
		t.Fatalf("tie should keep input order, got %q", got.ID)
	}

	if _, ok := c.RepresentativeIngredient(ings, dish.Fruit); ok {
		t.Fatal("expected no fruit representative")
	}
	if _, ok := c.RepresentativeIngredient(nil, dish.Meat); ok {
		t.Fatal("expected no representative for empty list")
	}
}

func TestDistinctCategories(t *testing.T) {
	c := New(nil)
	got := c.DistinctCategories(dish.FromIDs("RawRice", "Meat_Cow", "RawCorn", "RawBerries"))
	want := []dish.Category{dish.Grain, dish.Meat, dish.Fruit}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DistinctCategories mismatch:\n%s", diff)
	}
}

func TestCategorizeConcurrent(t *testing.T) {
	c := New(nil)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, id := range []string{"RawRice", "Meat_Cow", "RawFungus", "Milk"} {
				c.Categorize(dish.Ingredient{ID: id})
			}
		}()
	}
	wg.Wait()
	if c.CacheSize() != 4 {
		t.Fatalf("CacheSize() = %d, want 4", c.CacheSize())
	}
}
