package dish

import (
	"strings"
	"testing"
)

func TestCleanLabel(t *testing.T) {
	tests := []struct {
		in   Ingredient
		want string
	}{
		{Ingredient{ID: "RawFungus"}, "Fungus"},
		{Ingredient{ID: "RawPotatoes"}, "Potatoes"},
		{Ingredient{ID: "Meat_Cow"}, "Cow Meat"},
		{Ingredient{ID: "Meat_Twisted"}, "Twisted Meat"},
		{Ingredient{ID: "EggChickenUnfertilized"}, "Chicken Egg"},
		{Ingredient{ID: "InsectJelly"}, "Insect Jelly"},
		{Ingredient{ID: "RawFungus", Label: "raw fungus"}, "Fungus"},
		{Ingredient{ID: "x", Label: "glowing berries"}, "Glowing Berries"},
		{Ingredient{}, ""},
	}
	for _, tt := range tests {
		if got := tt.in.CleanLabel(); got != tt.want {
			t.Errorf("CleanLabel(%+v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatIngredientList(t *testing.T) {
	tests := []struct {
		name string
		in   []Ingredient
		want string
	}{
		{"empty", nil, ""},
		{"single", FromIDs("RawRice"), "Rice"},
		{"two", FromIDs("RawRice", "RawCorn"), "Rice and Corn"},
		{"three", FromIDs("RawRice", "RawCorn", "Meat_Cow"), "Rice, Corn, and Cow Meat"},
		{"grouped", FromIDs("RawRice", "RawCorn", "RawRice", "RawRice"), "Rice (x3) and Corn"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatIngredientList(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestQualityFromMealType(t *testing.T) {
	tests := map[string]Quality{
		"MealSimple":       QualitySimple,
		"MealFine":         QualityFine,
		"MealLavish":       QualityLavish,
		"MealFine_Veg":     QualityFine,
		"MealLavishFine":   QualityLavish,
		"MealSurvivalPack": QualitySimple,
		"":                 QualitySimple,
	}
	for in, want := range tests {
		if got := QualityFromMealType(in); got != want {
			t.Errorf("QualityFromMealType(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFixTwistedMeat(t *testing.T) {
	twisted := FromIDs("Meat_Twisted", "RawRice")
	tests := []struct {
		name string
		in   string
		ings []Ingredient
		want string
	}{
		{"bare word", "Roasted Twisted Stew", twisted, "Roasted Twisted Meat Stew"},
		{"already fixed", "Twisted Meat Stew", twisted, "Twisted Meat Stew"},
		{"end of string", "Stew of the Twisted", twisted, "Stew of the Twisted Meat"},
		{"meat prefix of longer word", "Twisted Meatloaf", twisted, "Twisted Meat Meatloaf"},
		{"not whole word", "Twistedly Good Rice", twisted, "Twistedly Good Rice"},
		{"case sensitive", "twisted rice", twisted, "twisted rice"},
		{"no altered meat", "Twisted Rice", FromIDs("RawRice"), "Twisted Rice"},
		{"repeated", "Twisted Twisted", twisted, "Twisted Meat Twisted Meat"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FixTwistedMeat(tt.in, tt.ings)
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
			for _, m := range twistedWordRE.FindAllStringIndex(got, -1) {
				if ContainsAlteredMeat(tt.ings) && !followedByMeat(got[m[1]:]) {
					t.Fatalf("%q still has a bare Twisted", got)
				}
			}
		})
	}
}

func TestJoinListOxfordComma(t *testing.T) {
	got := JoinList([]string{"A", "B", "C", "D"})
	if got != "A, B, C, and D" {
		t.Fatalf("got %q", got)
	}
	if !strings.Contains(JoinList([]string{"A", "B"}), " and ") {
		t.Fatal("expected two-item join with and")
	}
}

func TestParseCategoryAndQuality(t *testing.T) {
	for _, c := range Categories {
		got, ok := ParseCategory(strings.ToLower(c.String()))
		if !ok || got != c {
			t.Errorf("ParseCategory(%q) = %v, %v", c.String(), got, ok)
		}
	}
	if _, ok := ParseQuality("gourmet"); ok {
		t.Error("expected unknown quality to fail")
	}
	if q, ok := ParseQuality(" lavish "); !ok || q != QualityLavish {
		t.Errorf("ParseQuality(lavish) = %q, %v", q, ok)
	}
	if QualityNone.OrSimple() != QualitySimple {
		t.Error("expected none quality to default to simple")
	}
}
