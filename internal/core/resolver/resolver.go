// Package resolver 菜名解析門面：組合資料庫查詢與程序化產生，並負責亂數種子策略。
package resolver

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"dish-namer/internal/core/dish"
	"dish-namer/internal/pkg/common"

	"go.uber.org/zap"
)

// Lookup 分層菜名查詢
type Lookup interface {
	Lookup(ingredients []dish.Ingredient, quality dish.Quality, rng *rand.Rand) (dish.Entry, bool)
}

// Generator 程序化產生器
type Generator interface {
	GenerateName(ingredients []dish.Ingredient, quality dish.Quality, rng *rand.Rand) string
	GenerateDescription(ingredients []dish.Ingredient, quality dish.Quality, rng *rand.Rand) string
}

// Options 解析器設定
type Options struct {
	// VariationChance 種子加入時間刻度的機率，讓相同食材的不同批次有機會得到不同名稱
	VariationChance float64
	// TickWindow 時間刻度的長度，同一刻度內的種子相同
	TickWindow time.Duration
	// Ticks 自訂刻度來源（測試用）
	Ticks func() uint64
	// Roll 自訂 [0,1) 亂數來源（測試用）
	Roll func() float64
}

// Stats 解析統計
type Stats struct {
	Database  int64 `json:"database"`
	Generated int64 `json:"generated"`
	Fallback  int64 `json:"fallback"`
}

// Resolver 菜名解析器
type Resolver struct {
	db              Lookup
	gen             Generator
	variationChance float64
	ticks           func() uint64
	roll            func() float64

	database  atomic.Int64
	generated atomic.Int64
	fallback  atomic.Int64
}

// New 建立解析器
func New(db Lookup, gen Generator, opts Options) *Resolver {
	r := &Resolver{
		db:              db,
		gen:             gen,
		variationChance: opts.VariationChance,
		ticks:           opts.Ticks,
		roll:            opts.Roll,
	}
	if r.ticks == nil {
		window := opts.TickWindow
		if window <= 0 {
			window = time.Second
		}
		r.ticks = func() uint64 {
			return uint64(time.Now().UnixNano() / int64(window))
		}
	}
	if r.roll == nil {
		r.roll = rand.Float64
	}
	return r
}

// Resolve 解析菜名與描述：先查資料庫，未命中時改用程序化產生。
// 每次呼叫使用自己的亂數產生器，並行呼叫互不影響。
func (r *Resolver) Resolve(ingredients []dish.Ingredient, quality dish.Quality) dish.Result {
	if len(ingredients) == 0 {
		r.fallback.Add(1)
		return dish.Mystery()
	}

	rng := r.rngFor(ingredients, quality)

	if r.db != nil {
		if entry, ok := r.db.Lookup(ingredients, quality, rng); ok {
			r.database.Add(1)
			common.LogDebug("Dish resolved from database",
				zap.Strings("ingredients", dish.IDs(ingredients)),
				zap.String("quality", string(quality)),
				zap.String("name", entry.Name),
			)
			return dish.Result{Name: entry.Name, Description: entry.Description, Source: dish.SourceDatabase}
		}
	}

	r.generated.Add(1)
	result := dish.Result{
		Name:        r.gen.GenerateName(ingredients, quality, rng),
		Description: r.gen.GenerateDescription(ingredients, quality, rng),
		Source:      dish.SourceGenerated,
	}
	common.LogDebug("Dish name generated",
		zap.Strings("ingredients", dish.IDs(ingredients)),
		zap.String("quality", string(quality)),
		zap.String("name", result.Name),
	)
	return result
}

// Stats 回傳解析統計
func (r *Resolver) Stats() Stats {
	return Stats{
		Database:  r.database.Load(),
		Generated: r.generated.Load(),
		Fallback:  r.fallback.Load(),
	}
}

func (r *Resolver) rngFor(ingredients []dish.Ingredient, quality dish.Quality) *rand.Rand {
	seed := Seed(ingredients, quality)
	if r.variationChance > 0 && r.roll() < r.variationChance {
		seed += r.ticks()
	}
	return seededRNG(seed)
}

// Seed 食材與品質的穩定種子（不含時間刻度）
func Seed(ingredients []dish.Ingredient, quality dish.Quality) uint64 {
	var seed uint64
	for _, ing := range ingredients {
		seed += stableHash(ing.ID)
	}
	if quality != dish.QualityNone {
		seed += stableHash(string(quality))
	}
	return seed
}

func stableHash(s string) uint64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return uint64(h.Sum32())
}

func seededRNG(seed uint64) *rand.Rand {
	// Non-cryptographic PRNG is intentional for reproducible naming.
	// #nosec G404
	return rand.New(rand.NewPCG(seedWord(seed, "a"), seedWord(seed, "b")))
}

func seedWord(seed uint64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return h.Sum64()
}
