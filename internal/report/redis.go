package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrReportNotFound = errors.New("report not found")

// Redis key 前缀
const (
	reportPrefix = "arbsim:report"
	latestPrefix = "arbsim:latest"
)

// 按执行结果区分的默认 TTL
const (
	defaultSuccessTTL = 7 * 24 * time.Hour
	defaultFailedTTL  = 24 * time.Hour
)

// RedisStore 在 Redis 中保存执行报告，并记录每个 authority 最近一次报告
type RedisStore struct {
	rdb        *redis.Client
	successTTL time.Duration
	failedTTL  time.Duration
}

// NewRedisStore 创建报告存储，ttl <= 0 时使用默认值
func NewRedisStore(rdb *redis.Client, successTTL, failedTTL time.Duration) *RedisStore {
	if successTTL <= 0 {
		successTTL = defaultSuccessTTL
	}
	if failedTTL <= 0 {
		failedTTL = defaultFailedTTL
	}
	return &RedisStore{rdb: rdb, successTTL: successTTL, failedTTL: failedTTL}
}

func reportKey(id string) string {
	return fmt.Sprintf("%s:%s", reportPrefix, id)
}

func latestKey(authority string) string {
	return fmt.Sprintf("%s:%s", latestPrefix, authority)
}

// getTTL 成功报告保留更久
func (s *RedisStore) getTTL(r *ExecutionReport) time.Duration {
	if r.Succeeded() {
		return s.successTTL
	}
	return s.failedTTL
}

// Save 写入报告及 authority 索引
func (s *RedisStore) Save(ctx context.Context, r *ExecutionReport) error {
	if r.ID == "" {
		return fmt.Errorf("report without id")
	}
	data, err := EncodeReport(r)
	if err != nil {
		return err
	}
	ttl := s.getTTL(r)
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, reportKey(r.ID), data, ttl)
		if r.Authority != "" {
			pipe.Set(ctx, latestKey(r.Authority), r.ID, ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save report %s: %w", r.ID, err)
	}
	return nil
}

// Get 按 id 读取报告
func (s *RedisStore) Get(ctx context.Context, id string) (*ExecutionReport, error) {
	data, err := s.rdb.Get(ctx, reportKey(id)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, ErrReportNotFound
	case err != nil:
		return nil, fmt.Errorf("redis get error: %w", err)
	}
	return DecodeReport(data)
}

// Latest 读取 authority 最近一次报告
func (s *RedisStore) Latest(ctx context.Context, authority string) (*ExecutionReport, error) {
	id, err := s.rdb.Get(ctx, latestKey(authority)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, ErrReportNotFound
	case err != nil:
		return nil, fmt.Errorf("redis get error: %w", err)
	}
	return s.Get(ctx, id)
}
