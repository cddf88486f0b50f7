// Package engine 組合分類器、菜名資料庫、產生器、解析器與批次追蹤器，提供宿主呼叫的入口。
package engine

import (
	"context"
	"fmt"
	"time"

	"dish-namer/internal/core/batch"
	"dish-namer/internal/core/dish"
	"dish-namer/internal/core/dish/category"
	"dish-namer/internal/core/generator"
	"dish-namer/internal/core/namedb"
	"dish-namer/internal/core/resolver"
	"dish-namer/internal/infrastructure/config"
	"dish-namer/internal/pkg/common"

	"go.uber.org/zap"
)

// Engine 菜名解析引擎
type Engine struct {
	categorizer *category.Categorizer
	db          *namedb.Database
	dishes      namedb.Source
	generator   *generator.Generator
	resolver    *resolver.Resolver
	tracker     *batch.Tracker
}

// Stats 引擎統計
type Stats struct {
	Database        namedb.Stats   `json:"database"`
	Resolver        resolver.Stats `json:"resolver"`
	Tracker         batch.Stats    `json:"tracker"`
	CategorizedSeen int            `json:"categorized_ingredients"`
}

// Initialize 依設定建立引擎。資料文件缺少或損壞時降級為內建資料，不會失敗；
// 只有工作儲存無法建立時回傳錯誤。
func Initialize(ctx context.Context, cfg *config.Config) (*Engine, error) {
	categorizer := category.New(nil)

	dishes := namedb.NewSource(cfg.Data.DishesPath, namedb.DefaultDocument(), cfg.Data.FetchTimeout)
	db := namedb.Open(dishes)

	templates := loadTemplates(cfg.Data.TemplatesPath, cfg.Data.FetchTimeout)
	gen := generator.New(categorizer, templates)

	res := resolver.New(db, gen, resolver.Options{
		VariationChance: cfg.Resolver.VariationChance,
		TickWindow:      cfg.Resolver.TickWindow,
	})

	store, err := newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tracker := batch.New(store, res, batch.Options{
		DefaultIngredients: dish.FromIDs(cfg.Tracker.DefaultIngredients...),
	})

	common.LogInfo("Dish engine initialized",
		zap.String("dishes", dishes.Name()),
		zap.String("templates", cfg.Data.TemplatesPath),
		zap.String("tracker_store", cfg.Tracker.Store),
		zap.Float64("variation_chance", cfg.Resolver.VariationChance),
	)

	return &Engine{
		categorizer: categorizer,
		db:          db,
		dishes:      dishes,
		generator:   gen,
		resolver:    res,
		tracker:     tracker,
	}, nil
}

func loadTemplates(location string, timeout time.Duration) generator.Templates {
	if location == "" {
		return generator.DefaultTemplates()
	}
	src := namedb.NewSource(location, generator.DefaultDocument(), timeout)
	data, err := src.Read()
	if err != nil {
		common.LogWarn("Template source unavailable, using built-in templates",
			zap.String("source", src.Name()),
			zap.Error(err),
		)
		return generator.DefaultTemplates()
	}
	templates, errs := generator.ParseTemplates(data, src.Format())
	for _, err := range errs {
		common.LogWarn("Skipping malformed template entry",
			zap.String("source", src.Name()),
			zap.Error(err),
		)
	}
	return templates
}

func newStore(ctx context.Context, cfg *config.Config) (batch.Store, error) {
	switch cfg.Tracker.Store {
	case config.StoreRedis:
		store, err := batch.NewRedisStore(ctx, batch.RedisOptions{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
			TTL:       cfg.Tracker.JobTTL,
		})
		if err != nil {
			return nil, fmt.Errorf("init job store: %w", err)
		}
		return store, nil
	default:
		return batch.NewMemoryStore(batch.MemoryOptions{
			TTL:             cfg.Tracker.JobTTL,
			MaxJobs:         cfg.Tracker.MaxJobs,
			CleanupInterval: cfg.Tracker.CleanupInterval,
		}), nil
	}
}

// RegisterJob 註冊批次工作
func (e *Engine) RegisterJob(jobID int, mealTypeID, producer string) {
	e.tracker.RegisterJob(jobID, mealTypeID, producer)
}

// ProcessOutput 為批次產出物命名
func (e *Engine) ProcessOutput(out batch.Output, jobID int, consumed []dish.Ingredient) (dish.Result, bool) {
	return e.tracker.ProcessOutput(out, jobID, consumed)
}

// GetName 已命名工作的菜名
func (e *Engine) GetName(jobID int) (string, bool) {
	return e.tracker.Name(jobID)
}

// GetIngredients 已命名工作的食材
func (e *Engine) GetIngredients(jobID int) ([]dish.Ingredient, bool) {
	return e.tracker.Ingredients(jobID)
}

// Job 工作狀態
func (e *Engine) Job(jobID int) (batch.Job, bool) {
	return e.tracker.Job(jobID)
}

// ReleaseJob 釋放工作
func (e *Engine) ReleaseJob(jobID int) {
	e.tracker.ReleaseJob(jobID)
}

// ResolveAdHoc 不經批次追蹤直接解析菜名；quality 為空時視為 Simple
func (e *Engine) ResolveAdHoc(ingredients []dish.Ingredient, quality dish.Quality) dish.Result {
	return e.resolver.Resolve(ingredients, quality.OrSimple())
}

// Categorize 食材分類
func (e *Engine) Categorize(ing dish.Ingredient) dish.Category {
	return e.categorizer.Categorize(ing)
}

// Reload 重新載入菜名資料；失敗時保留舊資料
func (e *Engine) Reload() error {
	if err := e.db.Reload(); err != nil {
		common.LogWarn("Dish database reload failed, keeping previous data", zap.Error(err))
		return err
	}
	return nil
}

// WatchPath 可監看的本機資料檔路徑；遠端來源回傳空字串
func (e *Engine) WatchPath() string {
	if fs, ok := e.dishes.(*namedb.FileSource); ok {
		return fs.Path()
	}
	return ""
}

// Stats 引擎統計
func (e *Engine) Stats() Stats {
	return Stats{
		Database:        e.db.Stats(),
		Resolver:        e.resolver.Stats(),
		Tracker:         e.tracker.Stats(),
		CategorizedSeen: e.categorizer.CacheSize(),
	}
}

// Close 釋放工作儲存
func (e *Engine) Close() error {
	return e.tracker.Close()
}
