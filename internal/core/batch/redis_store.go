package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"dish-namer/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RedisOptions Redis 儲存設定
type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	TTL       time.Duration
}

// RedisStore 以 Redis 儲存工作，讓多個宿主程序共享批次狀態
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore 建立 Redis 儲存並測試連線
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	// 測試連接
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("Redis job store connected",
		zap.String("addr", opts.Addr),
		zap.Int("db", opts.DB),
		zap.String("key_prefix", opts.KeyPrefix),
	)

	return &RedisStore{client: client, prefix: opts.KeyPrefix, ttl: opts.TTL}, nil
}

// Register 以 SETNX 建立工作
func (s *RedisStore) Register(ctx context.Context, job Job) (bool, error) {
	if job.Generation == "" {
		job.Generation = uuid.NewString()
	}
	data, err := json.Marshal(job)
	if err != nil {
		return false, fmt.Errorf("failed to marshal job: %w", err)
	}
	created, err := s.client.SetNX(ctx, s.jobKey(job.ID), data, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to register job: %w", err)
	}
	return created, nil
}

// Get 取得工作與已決定的菜名
func (s *RedisStore) Get(ctx context.Context, id int) (Job, error) {
	job, err := s.getJob(ctx, id)
	if err != nil {
		return Job{}, err
	}
	naming, err := s.getNaming(ctx, id, job.Generation)
	if err != nil {
		return Job{}, err
	}
	job.Naming = naming
	return job, nil
}

// SetNaming 以 SETNX 寫入菜名，多個程序同時寫入時只有第一個生效。
// 菜名鍵包含 generation，舊註冊遲到的寫入不會被新註冊讀到。
func (s *RedisStore) SetNaming(ctx context.Context, id int, generation string, naming Naming) (Job, error) {
	job, err := s.getJob(ctx, id)
	if err != nil {
		return Job{}, err
	}
	if job.Generation != generation {
		return Job{}, ErrJobNotFound
	}

	data, err := json.Marshal(naming)
	if err != nil {
		return Job{}, fmt.Errorf("failed to marshal naming: %w", err)
	}
	key := s.namingKey(id, job.Generation)
	if _, err := s.client.SetNX(ctx, key, data, s.ttl).Result(); err != nil {
		return Job{}, fmt.Errorf("failed to set naming: %w", err)
	}

	stored, err := s.getNaming(ctx, id, job.Generation)
	if err != nil {
		return Job{}, err
	}
	job.Naming = stored
	return job, nil
}

// Delete 刪除工作與菜名
func (s *RedisStore) Delete(ctx context.Context, id int) error {
	keys := []string{s.jobKey(id)}
	if job, err := s.getJob(ctx, id); err == nil {
		keys = append(keys, s.namingKey(id, job.Generation))
	} else if !errors.Is(err, ErrJobNotFound) {
		return err
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	return nil
}

// Stats 掃描前綴下的鍵來計算工作數
func (s *RedisStore) Stats(ctx context.Context) (StoreStats, error) {
	var (
		stats  StoreStats
		cursor uint64
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.prefix+"job:*", 200).Result()
		if err != nil {
			return StoreStats{}, fmt.Errorf("failed to scan jobs: %w", err)
		}
		for _, key := range keys {
			if strings.Contains(strings.TrimPrefix(key, s.prefix), ":name:") {
				stats.Named++
			} else {
				stats.Jobs++
			}
		}
		if next == 0 {
			return stats, nil
		}
		cursor = next
	}
}

// Close 關閉連線
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) getJob(ctx context.Context, id int) (Job, error) {
	data, err := s.client.Get(ctx, s.jobKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return Job{}, ErrJobNotFound
		}
		return Job{}, fmt.Errorf("failed to get job: %w", err)
	}
	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return Job{}, fmt.Errorf("failed to unmarshal job: %w", err)
	}
	return job, nil
}

func (s *RedisStore) getNaming(ctx context.Context, id int, generation string) (*Naming, error) {
	data, err := s.client.Get(ctx, s.namingKey(id, generation)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get naming: %w", err)
	}
	var naming Naming
	if err := json.Unmarshal(data, &naming); err != nil {
		return nil, fmt.Errorf("failed to unmarshal naming: %w", err)
	}
	return &naming, nil
}

func (s *RedisStore) jobKey(id int) string {
	return s.prefix + "job:" + strconv.Itoa(id)
}

func (s *RedisStore) namingKey(id int, generation string) string {
	return s.jobKey(id) + ":name:" + generation
}
