package generator

import (
	"strings"
	"testing"

	"dish-namer/internal/core/dish"
	"dish-namer/internal/core/namedb"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultTemplatesComplete(t *testing.T) {
	templates := DefaultTemplates()
	for _, q := range dish.Qualities {
		set := templates.For(q)
		if set == nil {
			t.Fatalf("no template set for %s", q)
		}
		for _, pool := range []Pool{PoolMeat, PoolGrain, PoolProduce, PoolMixed} {
			if len(set.Single[pool]) == 0 {
				t.Errorf("%s: empty %s pool", q, pool)
			}
		}
		if len(set.Dual) == 0 || len(set.Multi) == 0 || len(set.Generic) == 0 || len(set.Descriptions) == 0 {
			t.Errorf("%s: missing group in %+v", q, set)
		}
	}
	if diff := cmp.Diff(templates.For(dish.QualitySimple), templates.For(dish.QualityNone)); diff != "" {
		t.Errorf("unspecified quality should use Simple:\n%s", diff)
	}
}

func TestParseTemplatesOverridesAndKeepsDefaults(t *testing.T) {
	templates, errs := ParseTemplates([]byte(`
templates:
  - quality: Fine
    group: SingleCategory
    category: Vegetable
    patterns: ["Garden [vegetable]"]
  - quality: Fine
    group: Bogus
    patterns: ["x"]
  - group: DualCategory
    patterns: ["[primary] meets [nonsense]"]
  - quality: Gourmet
    group: Generic
    patterns: ["x"]
  - group: MultiCategory
    patterns: []
descriptions:
  - quality: Lavish
    patterns: ["Opulent [ingredients]."]
`), namedb.FormatYAML)
	if len(errs) != 4 {
		t.Fatalf("expected 4 errors, got %d: %v", len(errs), errs)
	}

	defaults := DefaultTemplates()
	fine := templates.For(dish.QualityFine)
	if diff := cmp.Diff([]string{"Garden [vegetable]"}, fine.Single[PoolProduce]); diff != "" {
		t.Errorf("override not applied:\n%s", diff)
	}
	if diff := cmp.Diff(defaults.For(dish.QualityFine).Dual, fine.Dual); diff != "" {
		t.Errorf("invalid override should keep defaults:\n%s", diff)
	}
	if diff := cmp.Diff(defaults.For(dish.QualitySimple).Single[PoolProduce], templates.For(dish.QualitySimple).Single[PoolProduce]); diff != "" {
		t.Errorf("other qualities should be untouched:\n%s", diff)
	}
	if got := templates.For(dish.QualityLavish).Descriptions; len(got) != 1 || !strings.HasPrefix(got[0], "Opulent") {
		t.Errorf("description override not applied: %v", got)
	}

	// defaults are not mutated by overrides
	if diff := cmp.Diff(defaults, DefaultTemplates()); diff != "" {
		t.Errorf("built-in templates changed:\n%s", diff)
	}
}

func TestParseTemplatesMalformed(t *testing.T) {
	templates, errs := ParseTemplates([]byte("templates: {"), namedb.FormatYAML)
	if len(errs) != 1 {
		t.Fatalf("expected a parse error, got %v", errs)
	}
	if diff := cmp.Diff(DefaultTemplates(), templates); diff != "" {
		t.Errorf("malformed document should yield defaults:\n%s", diff)
	}

	templates, errs = ParseTemplates([]byte(`{"templates":[{"group":"Generic","patterns":["Chef's [primary]"]}]}`), namedb.FormatJSON)
	if len(errs) != 0 {
		t.Fatalf("json templates: %v", errs)
	}
	if got := templates.For(dish.QualityLavish).Generic; len(got) != 1 {
		t.Fatalf("expected json generic override on every quality, got %v", got)
	}
}
