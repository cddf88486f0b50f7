package batch

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"time"

	"dish-namer/internal/core/dish"
	"dish-namer/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// defaultStoreTimeout 單次儲存操作的時間上限
const defaultStoreTimeout = 2 * time.Second

// Output 需要命名的產出物
type Output interface {
	AssignDishName(name string)
	// RecordedIngredients 產出物本身記錄的食材組成，可為空
	RecordedIngredients() []dish.Ingredient
}

// DescribedOutput 同時保存描述的產出物
type DescribedOutput interface {
	Output
	AssignDescription(description string)
}

// Resolver 菜名解析
type Resolver interface {
	Resolve(ingredients []dish.Ingredient, quality dish.Quality) dish.Result
}

// Options 追蹤器設定
type Options struct {
	// DefaultIngredients 產出時完全沒有食材資訊的備用組合
	DefaultIngredients []dish.Ingredient
	// StoreTimeout 單次儲存操作的時間上限
	StoreTimeout time.Duration
	Now          func() time.Time
}

// Stats 追蹤統計
type Stats struct {
	StoreStats
	Resolutions int64 `json:"resolutions"`
	Outputs     int64 `json:"outputs"`
}

// Tracker 批次一致性追蹤器
type Tracker struct {
	store    Store
	resolver Resolver
	defaults []dish.Ingredient
	timeout  time.Duration
	now      func() time.Time

	group       singleflight.Group
	resolutions atomic.Int64
	outputs     atomic.Int64
}

// DefaultIngredients 沒有任何食材資訊時使用的組合
func DefaultIngredients() []dish.Ingredient {
	return dish.FromIDs("RawPotatoes", "RawRice")
}

// New 建立追蹤器
func New(store Store, resolver Resolver, opts Options) *Tracker {
	if len(opts.DefaultIngredients) == 0 {
		opts.DefaultIngredients = DefaultIngredients()
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = defaultStoreTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Tracker{
		store:    store,
		resolver: resolver,
		defaults: opts.DefaultIngredients,
		timeout:  opts.StoreTimeout,
		now:      opts.Now,
	}
}

// RegisterJob 註冊批次工作，已註冊時不做任何事
func (t *Tracker) RegisterJob(jobID int, mealTypeID, producer string) {
	ctx, cancel := t.ctx()
	defer cancel()

	created, err := t.store.Register(ctx, Job{
		ID:           jobID,
		MealTypeID:   mealTypeID,
		Producer:     producer,
		Quality:      dish.QualityFromMealType(mealTypeID),
		RegisteredAt: t.now(),
	})
	if err != nil {
		common.LogWarn("Failed to register job", zap.Int("job_id", jobID), zap.Error(err))
		return
	}
	common.LogDebug("Job registered",
		zap.Int("job_id", jobID),
		zap.String("meal_type", mealTypeID),
		zap.Bool("created", created),
	)
}

// ProcessOutput 為產出物命名。第一次產出時解析菜名並保存，之後的產出物沿用同一個菜名。
// 工作不存在時回傳 false 且不修改產出物。
func (t *Tracker) ProcessOutput(out Output, jobID int, consumed []dish.Ingredient) (dish.Result, bool) {
	job, ok := t.job(jobID)
	if !ok {
		return dish.Result{}, false
	}

	if job.Naming == nil {
		v, err, _ := t.group.Do(strconv.Itoa(jobID), func() (interface{}, error) {
			return t.name(jobID, out, consumed)
		})
		if err != nil {
			if !errors.Is(err, ErrJobNotFound) {
				common.LogWarn("Failed to name job", zap.Int("job_id", jobID), zap.Error(err))
			}
			return dish.Result{}, false
		}
		job = v.(Job)
	}

	naming := job.Naming
	result := dish.Result{
		Name:        dish.FixTwistedMeat(naming.Name, naming.Ingredients),
		Description: naming.Description,
		Source:      dish.SourceBatch,
	}
	assign(out, result)
	t.outputs.Add(1)
	return result, true
}

// name 執行第一次解析；在 singleflight 內執行，同一個工作同時只有一個呼叫者
func (t *Tracker) name(jobID int, out Output, consumed []dish.Ingredient) (Job, error) {
	ctx, cancel := t.ctx()
	defer cancel()

	job, err := t.store.Get(ctx, jobID)
	if err != nil {
		return Job{}, err
	}
	if job.Naming != nil {
		return job, nil
	}

	ingredients := t.actualIngredients(out, consumed)
	result := t.resolver.Resolve(ingredients, job.Quality)
	t.resolutions.Add(1)

	named, err := t.store.SetNaming(ctx, jobID, job.Generation, Naming{
		Name:        result.Name,
		Description: result.Description,
		Source:      result.Source,
		Ingredients: ingredients,
		NamedAt:     t.now(),
	})
	if err != nil {
		return Job{}, err
	}

	common.LogDebug("Job named",
		zap.Int("job_id", jobID),
		zap.String("name", named.Naming.Name),
		zap.String("source", string(named.Naming.Source)),
		zap.Strings("ingredients", dish.IDs(ingredients)),
	)
	return named, nil
}

func (t *Tracker) actualIngredients(out Output, consumed []dish.Ingredient) []dish.Ingredient {
	if len(consumed) > 0 {
		return append([]dish.Ingredient(nil), consumed...)
	}
	if out != nil {
		if recorded := out.RecordedIngredients(); len(recorded) > 0 {
			return append([]dish.Ingredient(nil), recorded...)
		}
	}
	return append([]dish.Ingredient(nil), t.defaults...)
}

func assign(out Output, result dish.Result) {
	if out == nil {
		return
	}
	out.AssignDishName(result.Name)
	if d, ok := out.(DescribedOutput); ok {
		d.AssignDescription(result.Description)
	}
}

// Name 已命名工作的菜名
func (t *Tracker) Name(jobID int) (string, bool) {
	job, ok := t.job(jobID)
	if !ok || job.Naming == nil {
		return "", false
	}
	return dish.FixTwistedMeat(job.Naming.Name, job.Naming.Ingredients), true
}

// Ingredients 已命名工作實際使用的食材
func (t *Tracker) Ingredients(jobID int) ([]dish.Ingredient, bool) {
	job, ok := t.job(jobID)
	if !ok || job.Naming == nil {
		return nil, false
	}
	return append([]dish.Ingredient(nil), job.Naming.Ingredients...), true
}

// Job 取得工作狀態
func (t *Tracker) Job(jobID int) (Job, bool) {
	return t.job(jobID)
}

// ReleaseJob 釋放工作，可重複呼叫
func (t *Tracker) ReleaseJob(jobID int) {
	ctx, cancel := t.ctx()
	defer cancel()

	if err := t.store.Delete(ctx, jobID); err != nil {
		common.LogWarn("Failed to release job", zap.Int("job_id", jobID), zap.Error(err))
		return
	}
	common.LogDebug("Job released", zap.Int("job_id", jobID))
}

// Stats 追蹤統計
func (t *Tracker) Stats() Stats {
	ctx, cancel := t.ctx()
	defer cancel()

	storeStats, err := t.store.Stats(ctx)
	if err != nil {
		common.LogWarn("Failed to read job store stats", zap.Error(err))
	}
	return Stats{
		StoreStats:  storeStats,
		Resolutions: t.resolutions.Load(),
		Outputs:     t.outputs.Load(),
	}
}

// Close 關閉底層儲存
func (t *Tracker) Close() error {
	return t.store.Close()
}

func (t *Tracker) job(jobID int) (Job, bool) {
	ctx, cancel := t.ctx()
	defer cancel()

	job, err := t.store.Get(ctx, jobID)
	if err != nil {
		if !errors.Is(err, ErrJobNotFound) {
			common.LogWarn("Failed to load job", zap.Int("job_id", jobID), zap.Error(err))
		}
		return Job{}, false
	}
	return job, true
}

func (t *Tracker) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), t.timeout)
}
