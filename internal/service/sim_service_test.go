package service

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"arb-router-sol/internal/config"
	"arb-router-sol/internal/logic/simulate"
	"arb-router-sol/internal/report"
	"arb-router-sol/internal/scenario"
	"arb-router-sol/internal/svc"
	"arb-router-sol/internal/types"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	twoHop     = filepath.Join("..", "..", "etc", "scenarios", "two_hop.yaml")
	dlmmHooked = filepath.Join("..", "..", "etc", "scenarios", "dlmm_hooked.yaml")
)

func newTestContext(t *testing.T) (*svc.ServiceContext, *report.RedisStore) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	store := report.NewRedisStore(rdb, 0, 0)
	return &svc.ServiceContext{
		Config:    config.SimConfig{},
		Simulator: simulate.New(types.Pubkey{0x77}),
		Store:     store,
	}, store
}

func TestRunOnceBundledScenarios(t *testing.T) {
	svcCtx, store := newTestContext(t)
	s := NewSimService(svcCtx, []string{twoHop, dlmmHooked}, 0)

	reports, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 2)

	ok := reports[0]
	assert.Equal(t, report.StatusSuccess, ok.Status, ok.Error)
	assert.Equal(t, uint64(50_000), ok.Profit)
	assert.Equal(t, uint64(25_000), ok.Tip)
	assert.Equal(t, uint64(25_000), ok.Balances["tipper"])

	hooked := reports[1]
	assert.Equal(t, uint32(6001), hooked.ErrorCode)
	assert.NotEmpty(t, hooked.Provisioned["hook_mint"])
	assert.Equal(t, uint64(50_000), hooked.Balances["usdc_acct"])
	assert.Equal(t, uint64(5_000_000-2_039_280), hooked.Balances["trader"])

	saved, err := store.Get(context.Background(), ok.ID)
	require.NoError(t, err)
	assert.Equal(t, ok.Profit, saved.Profit)
	latest, err := store.Latest(context.Background(), hooked.Authority)
	require.NoError(t, err)
	assert.Equal(t, hooked.ID, latest.ID)
}

func TestRunOnceReportsMismatchAndBadFiles(t *testing.T) {
	svcCtx, _ := newTestContext(t)

	data, err := os.ReadFile(twoHop)
	require.NoError(t, err)
	dir := t.TempDir()
	wrong := filepath.Join(dir, "wrong.yaml")
	require.NoError(t, os.WriteFile(wrong, append(data, []byte("\nexpect_error: 6001\n")...), 0o644))
	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("name: [unterminated"), 0o644))

	s := NewSimService(svcCtx, []string{wrong, broken, filepath.Join(dir, "missing.yaml")}, 0)
	reports, err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.Len(t, reports, 1, "mismatched run still reports")
	assert.Contains(t, err.Error(), "expected code 6001")
}

func TestStartStop(t *testing.T) {
	svcCtx, store := newTestContext(t)
	s := NewSimService(svcCtx, []string{twoHop}, 20*time.Millisecond)

	done := make(chan struct{})
	go func() {
		s.Start()
		close(done)
	}()

	trader := scenario.DeriveKey("trader").String()
	var first string
	require.Eventually(t, func() bool {
		rep, err := store.Latest(context.Background(), trader)
		if err != nil {
			return false
		}
		if first == "" {
			first = rep.ID
		}
		return rep.ID != first // 至少重复执行了一轮
	}, 2*time.Second, 5*time.Millisecond)

	s.Stop()
	s.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after Stop")
	}
}

func TestConcurrentStop(t *testing.T) {
	svcCtx, _ := newTestContext(t)
	s := NewSimService(svcCtx, nil, 0)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NotPanics(t, s.Stop)
		}()
	}
	wg.Wait()

	select {
	case <-s.stopChan:
	default:
		t.Fatal("stopChan not closed")
	}
	assert.Error(t, s.ctx.Err())
}
