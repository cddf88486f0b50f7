// Package batch 保證同一批次生產的所有產出物取得相同菜名，並管理工作生命週期。
package batch

import (
	"context"
	"errors"
	"time"

	"dish-namer/internal/core/dish"
)

// ErrJobNotFound 工作不存在（未註冊或已釋放）
var ErrJobNotFound = errors.New("batch: job not found")

// State 工作狀態
type State int

const (
	StateUnregistered State = iota
	StateRegistered
	StateNamed
)

func (s State) String() string {
	switch s {
	case StateRegistered:
		return "registered"
	case StateNamed:
		return "named"
	default:
		return "unregistered"
	}
}

// Job 一次批次生產的狀態
type Job struct {
	ID           int          `json:"id"`
	MealTypeID   string       `json:"meal_type_id"`
	Producer     string       `json:"producer,omitempty"`
	Quality      dish.Quality `json:"quality"`
	RegisteredAt time.Time    `json:"registered_at"`
	// Generation 區分同一個 id 的不同註冊，由儲存在 Register 時指定
	Generation string  `json:"generation"`
	Naming     *Naming `json:"naming,omitempty"`
}

// Naming 第一次產出時決定的菜名，之後不再改變
type Naming struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Source      dish.Source       `json:"source"`
	Ingredients []dish.Ingredient `json:"ingredients"`
	NamedAt     time.Time         `json:"named_at"`
}

// State 回傳工作目前的狀態
func (j *Job) State() State {
	if j == nil {
		return StateUnregistered
	}
	if j.Naming != nil {
		return StateNamed
	}
	return StateRegistered
}

// StoreStats 儲存統計
type StoreStats struct {
	Jobs      int   `json:"jobs"`
	Named     int   `json:"named"`
	Evictions int64 `json:"evictions"`
}

// Store 工作狀態儲存。Register 與 SetNaming 必須是原子操作：
// 同一個工作只會建立一次，菜名也只會寫入一次。
type Store interface {
	// Register 在工作不存在時建立，回傳是否新建
	Register(ctx context.Context, job Job) (bool, error)
	// Get 取得工作，不存在時回傳 ErrJobNotFound
	Get(ctx context.Context, id int) (Job, error)
	// SetNaming 只在工作尚未命名時寫入，回傳寫入後（或既有）的工作。
	// generation 與目前的註冊不同時（工作已釋放後重新註冊）回傳 ErrJobNotFound。
	SetNaming(ctx context.Context, id int, generation string, naming Naming) (Job, error)
	// Delete 刪除工作，不存在時不回傳錯誤
	Delete(ctx context.Context, id int) error
	Stats(ctx context.Context) (StoreStats, error)
	Close() error
}
