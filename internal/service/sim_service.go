package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"arb-router-sol/internal/pkg/logger"
	"arb-router-sol/internal/pkg/utils"
	"arb-router-sol/internal/report"
	"arb-router-sol/internal/scenario"
	"arb-router-sol/internal/svc"
)

// SimService 执行一组场景并把报告写入 Redis / Kafka。
// interval > 0 时按间隔重复执行，实现 go-zero service.Service。
type SimService struct {
	svcCtx   *svc.ServiceContext
	paths    []string
	interval time.Duration
	ctx      context.Context
	cancel   func(err error)
	stopChan chan struct{}
	stopOnce sync.Once
}

func NewSimService(svcCtx *svc.ServiceContext, paths []string, interval time.Duration) *SimService {
	ctx, cancel := context.WithCancelCause(context.Background())
	return &SimService{
		svcCtx:   svcCtx,
		paths:    paths,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		stopChan: make(chan struct{}),
	}
}

func (s *SimService) Start() {
	if _, err := s.round(); err != nil {
		logger.Warnf("[SimService] 执行失败: %v", err)
	}
	if s.interval > 0 {
		s.scheduleNext()
	}
	<-s.stopChan
}

func (s *SimService) scheduleNext() {
	time.AfterFunc(s.interval, func() {
		if _, err := s.round(); err != nil {
			logger.Warnf("[SimService] 周期性执行失败: %v", err)
		}
		// 如果没有被 Stop，就继续调度
		select {
		case <-s.ctx.Done():
			return
		default:
			s.scheduleNext()
		}
	})
}

func (s *SimService) Stop() {
	s.stopOnce.Do(func() {
		s.cancel(errors.New("SimService stop"))
		close(s.stopChan)
	})
}

func (s *SimService) round() (reports []*report.ExecutionReport, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("[SimService] round panic: %v\n%s", r, debug.Stack())
			err = fmt.Errorf("round panic: %v", r)
		}
	}()
	return s.RunOnce(s.ctx)
}

// RunOnce 并发执行全部场景，再落库 / 发送报告。
// 场景无法执行或结果与 expect_error 不符时返回汇总错误，已生成的报告照常返回。
func (s *SimService) RunOnce(ctx context.Context) ([]*report.ExecutionReport, error) {
	results := utils.ParallelMap(s.paths, runtime.NumCPU(), func(path string) runResult {
		return s.runScenario(ctx, path)
	})

	var (
		reports []*report.ExecutionReport
		errs    []error
	)
	for _, r := range results {
		if r.report != nil {
			reports = append(reports, r.report)
		}
		if r.err != nil {
			errs = append(errs, r.err)
		}
	}

	if err := s.sink(ctx, reports); err != nil {
		errs = append(errs, err)
	}
	return reports, errors.Join(errs...)
}

type runResult struct {
	report *report.ExecutionReport
	err    error
}

func (s *SimService) runScenario(ctx context.Context, path string) runResult {
	sc, err := scenario.Load(path)
	if err != nil {
		return runResult{err: err}
	}
	ctx, cancel := context.WithTimeout(ctx, s.svcCtx.Config.TimeConf.RpcTimeout())
	defer cancel()
	rep, err := s.svcCtx.Simulator.Run(ctx, sc)
	if err != nil {
		return runResult{err: err}
	}
	if !Matches(sc, rep) {
		return runResult{report: rep, err: fmt.Errorf("scenario %s: expected code %d, got status=%s code=%d (%s)",
			sc.Name, sc.ExpectError, rep.Status, rep.ErrorCode, rep.Error)}
	}
	return runResult{report: rep}
}

// Matches 判断报告是否符合场景预期
func Matches(sc *scenario.Scenario, rep *report.ExecutionReport) bool {
	if sc.ExpectError == 0 {
		return rep.Succeeded()
	}
	return !rep.Succeeded() && rep.ErrorCode == sc.ExpectError
}

func (s *SimService) sink(ctx context.Context, reports []*report.ExecutionReport) error {
	if len(reports) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.svcCtx.Config.TimeConf.SinkTimeout())
	defer cancel()

	var errs []error
	if s.svcCtx.Store != nil {
		for _, rep := range reports {
			if err := s.svcCtx.Store.Save(ctx, rep); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if s.svcCtx.Publisher != nil {
		if err := s.svcCtx.Publisher.Publish(ctx, reports...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
