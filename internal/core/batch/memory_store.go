package batch

import (
	"context"
	"sync"
	"time"

	"dish-namer/internal/pkg/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MemoryOptions 記憶體儲存設定
type MemoryOptions struct {
	// TTL 工作存活時間，宿主忘記釋放時由清理協程回收；0 表示不過期
	TTL time.Duration
	// MaxJobs 最大工作數，滿了先清過期項目再淘汰最舊的
	MaxJobs int
	// CleanupInterval 清理間隔；0 表示不啟動清理協程
	CleanupInterval time.Duration
	// Now 時鐘（測試用）
	Now func() time.Time
}

// MemoryStore 程序內的工作儲存
type MemoryStore struct {
	opts MemoryOptions

	mu        sync.RWMutex
	jobs      map[int]memoryEntry
	evictions int64

	stop     chan struct{}
	stopOnce sync.Once
}

type memoryEntry struct {
	job        Job
	expiresAt  time.Time
	lastAccess time.Time
}

// NewMemoryStore 建立記憶體儲存，並在需要時啟動清理協程
func NewMemoryStore(opts MemoryOptions) *MemoryStore {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &MemoryStore{
		opts: opts,
		jobs: make(map[int]memoryEntry),
		stop: make(chan struct{}),
	}
	if opts.CleanupInterval > 0 && opts.TTL > 0 {
		go s.startCleanup()
	}

	common.LogDebug("Memory job store initialized",
		zap.Int("max_jobs", opts.MaxJobs),
		zap.Duration("ttl", opts.TTL),
		zap.Duration("cleanup_interval", opts.CleanupInterval),
	)
	return s
}

// Register 註冊工作
func (s *MemoryStore) Register(_ context.Context, job Job) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.opts.Now()
	if entry, ok := s.jobs[job.ID]; ok && !s.expired(entry, now) {
		return false, nil
	}

	if s.opts.MaxJobs > 0 && len(s.jobs) >= s.opts.MaxJobs {
		s.cleanup(now)
		for len(s.jobs) >= s.opts.MaxJobs {
			s.evictOldest()
		}
	}

	if job.Generation == "" {
		job.Generation = uuid.NewString()
	}
	s.jobs[job.ID] = memoryEntry{
		job:        job,
		expiresAt:  s.expiry(now),
		lastAccess: now,
	}
	return true, nil
}

// Get 取得工作並更新最後存取時間
func (s *MemoryStore) Get(_ context.Context, id int) (Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.opts.Now()
	entry, ok := s.jobs[id]
	if !ok || s.expired(entry, now) {
		return Job{}, ErrJobNotFound
	}
	entry.lastAccess = now
	s.jobs[id] = entry
	return entry.job, nil
}

// SetNaming 寫入菜名，已命名時保留原本的菜名
func (s *MemoryStore) SetNaming(_ context.Context, id int, generation string, naming Naming) (Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.opts.Now()
	entry, ok := s.jobs[id]
	if !ok || s.expired(entry, now) || entry.job.Generation != generation {
		return Job{}, ErrJobNotFound
	}
	if entry.job.Naming == nil {
		n := naming
		entry.job.Naming = &n
	}
	entry.lastAccess = now
	s.jobs[id] = entry
	return entry.job, nil
}

// Delete 刪除工作
func (s *MemoryStore) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	delete(s.jobs, id)
	s.mu.Unlock()
	return nil
}

// Stats 儲存統計
func (s *MemoryStore) Stats(_ context.Context) (StoreStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := StoreStats{Jobs: len(s.jobs), Evictions: s.evictions}
	for _, entry := range s.jobs {
		if entry.job.Naming != nil {
			stats.Named++
		}
	}
	return stats, nil
}

// Close 停止清理協程並清空工作
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })

	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = make(map[int]memoryEntry)
	return nil
}

// Sweep 立即清理過期工作，回傳清理數量
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cleanup(s.opts.Now())
}

func (s *MemoryStore) startCleanup() {
	ticker := time.NewTicker(s.opts.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-s.stop:
			return
		}
	}
}

func (s *MemoryStore) expiry(now time.Time) time.Time {
	if s.opts.TTL <= 0 {
		return time.Time{}
	}
	return now.Add(s.opts.TTL)
}

func (s *MemoryStore) expired(entry memoryEntry, now time.Time) bool {
	return !entry.expiresAt.IsZero() && now.After(entry.expiresAt)
}

// cleanup 呼叫端需持有寫鎖
func (s *MemoryStore) cleanup(now time.Time) int {
	count := 0
	for id, entry := range s.jobs {
		if s.expired(entry, now) {
			delete(s.jobs, id)
			count++
		}
	}
	s.evictions += int64(count)

	if count > 0 {
		common.LogDebug("Expired jobs cleaned up",
			zap.Int("count", count),
			zap.Int("remaining", len(s.jobs)),
		)
	}
	return count
}

// evictOldest 淘汰最久未使用的工作，呼叫端需持有寫鎖
func (s *MemoryStore) evictOldest() {
	var (
		oldestID int
		oldest   time.Time
		found    bool
	)
	for id, entry := range s.jobs {
		if !found || entry.lastAccess.Before(oldest) {
			oldestID, oldest, found = id, entry.lastAccess, true
		}
	}
	if !found {
		return
	}
	delete(s.jobs, oldestID)
	s.evictions++
	common.LogWarn("Job store full, evicted oldest job",
		zap.Int("job_id", oldestID),
		zap.Int("max_jobs", s.opts.MaxJobs),
	)
}
