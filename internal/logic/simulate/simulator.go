package simulate

import (
	"context"
	"fmt"
	"time"

	"arb-router-sol/internal/instructions"
	"arb-router-sol/internal/logic/accountant"
	"arb-router-sol/internal/logic/core"
	"arb-router-sol/internal/logic/extension"
	"arb-router-sol/internal/logic/processor"
	"arb-router-sol/internal/logic/sandbox"
	"arb-router-sol/internal/pkg/logger"
	"arb-router-sol/internal/report"
	"arb-router-sol/internal/scenario"
	"arb-router-sol/internal/types"
	"github.com/blocto/solana-go-sdk/client"
)

// AccountFetcher 批量读取链上账户，*client.Client 满足该接口
type AccountFetcher interface {
	GetMultipleAccounts(ctx context.Context, addrs []string) ([]client.AccountInfo, error)
}

// Simulator 在内存沙箱中执行场景，每次 Run 使用全新账本
type Simulator struct {
	programID types.Pubkey
	fetcher   AccountFetcher
	now       func() time.Time
}

func New(programID types.Pubkey) *Simulator {
	return &Simulator{programID: programID, now: time.Now}
}

// WithFetcher 设置 remote 账户的数据源
func (s *Simulator) WithFetcher(f AccountFetcher) *Simulator {
	s.fetcher = f
	return s
}

// Run 执行场景并生成报告。程序执行失败记录在报告中，只有场景本身无法构建时返回 error。
func (s *Simulator) Run(ctx context.Context, sc *scenario.Scenario) (*report.ExecutionReport, error) {
	programID := s.programID
	if sc.ProgramID != "" {
		id, err := types.TryPubkeyFromBase58(sc.ProgramID)
		if err != nil {
			return nil, fmt.Errorf("scenario %s program_id: %w", sc.Name, err)
		}
		programID = id
	}

	box, err := s.setup(ctx, sc)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	var outcome *processor.Outcome
	box.Register(programID, &processor.Program{
		OnArbSwap: func(o *processor.Outcome) { outcome = o },
	})

	params, err := sc.ArbSwapParams()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	ix, err := instructions.BuildArbSwap(programID, params)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}

	now := s.now()
	rep := &report.ExecutionReport{
		ID:        fmt.Sprintf("%s-%d", sc.Name, now.UnixNano()),
		Scenario:  sc.Name,
		ProgramID: programID.String(),
		Authority: params.Authority.String(),
		Amount:    sc.Amount,
		Flags:     sc.Flags,
		CreatedAt: now.UnixMilli(),
	}

	execErr := s.provision(box, programID, params.Authority, sc, rep)
	if execErr == nil {
		var logs []string
		logs, execErr = box.Execute(ix, params.Authority)
		rep.Logs = append(rep.Logs, logs...)
	}

	if execErr != nil {
		rep.Status = report.StatusFailed
		rep.ErrorCode = core.ErrorCode(execErr)
		rep.Error = execErr.Error()
		logger.Infof("[simulate:Run] %s", rep.Summary())
	} else {
		rep.Status = report.StatusSuccess
		for _, h := range outcome.Hops {
			rep.Hops = append(rep.Hops, report.HopReport{
				Index:     h.Index,
				Code:      h.Code.String(),
				Venue:     h.Venue,
				AmountIn:  h.AmountIn,
				AmountOut: h.AmountOut,
			})
		}
		rep.Initial = outcome.Profit.Initial
		rep.Final = outcome.Profit.Final
		rep.Profit = outcome.Profit.Profit
		rep.Tip = outcome.Tip
		logger.Infof("[simulate:Run] %s", rep.Summary())
	}

	rep.Balances, rep.Decimals = s.balances(box, sc)
	return rep, nil
}

func (s *Simulator) setup(ctx context.Context, sc *scenario.Scenario) (*sandbox.Sandbox, error) {
	box := sandbox.New()
	ledger, err := sc.Ledger()
	if err != nil {
		return nil, err
	}
	for _, acc := range ledger {
		box.SetAccount(acc)
	}
	if err := s.fetchRemote(ctx, box, sc.RemoteKeys()); err != nil {
		return nil, err
	}
	rates, err := sc.VenueRates()
	if err != nil {
		return nil, err
	}
	for program, rate := range rates {
		box.Register(program, &ConstantRateVenue{Num: rate.RateNum, Den: rate.RateDen})
	}
	return box, nil
}

// fetchRemote 从链上拉取 remote 账户写入账本，不存在的账户视为错误
func (s *Simulator) fetchRemote(ctx context.Context, box *sandbox.Sandbox, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	if s.fetcher == nil {
		return fmt.Errorf("%d remote accounts but no rpc endpoint configured", len(keys))
	}

	start := time.Now()
	infos, err := s.fetcher.GetMultipleAccounts(ctx, keys)
	if err != nil {
		return fmt.Errorf("GetMultipleAccounts failed: %w", err)
	}
	if len(infos) != len(keys) {
		return fmt.Errorf("返回账户数与请求不一致: got=%d want=%d", len(infos), len(keys))
	}
	logger.Infof("[simulate:fetchRemote] GetMultipleAccounts 成功, 账户数: %d, 耗时: %v", len(keys), time.Since(start))

	for i, info := range infos {
		key, err := types.TryPubkeyFromBase58(keys[i])
		if err != nil {
			return err
		}
		if info.Lamports == 0 && len(info.Data) == 0 {
			return fmt.Errorf("remote account %s not found", keys[i])
		}
		box.SetAccount(&core.AccountInfo{
			Key:        key,
			Owner:      types.FromPublicKey(info.Owner),
			Lamports:   info.Lamports,
			Data:       info.Data,
			Executable: info.Executable,
		})
	}
	return nil
}

// provision 依次执行 create_token_account，每条指令独立提交
func (s *Simulator) provision(box *sandbox.Sandbox, programID, payer types.Pubkey, sc *scenario.Scenario, rep *report.ExecutionReport) error {
	for _, ref := range sc.Provision {
		mintKey, err := sc.Key(ref)
		if err != nil {
			return err
		}
		mint, ok := box.Account(mintKey)
		if !ok {
			return fmt.Errorf("provision: mint %s not in ledger", ref)
		}
		ix, newAccount := instructions.BuildCreateTokenAccount(programID, payer, mintKey, mint.Owner)
		logs, err := box.Execute(ix, payer)
		rep.Logs = append(rep.Logs, logs...)
		if err != nil {
			return err
		}
		if rep.Provisioned == nil {
			rep.Provisioned = make(map[string]string)
		}
		rep.Provisioned[ref] = newAccount.String()
	}
	return nil
}

// balances 读取各命名账户的余额：token 账户取 amount（WSOL 取 lamports），其余取 lamports。
// 账本中能找到 mint 的 token 账户和 mint 账户同时给出精度。
func (s *Simulator) balances(box *sandbox.Sandbox, sc *scenario.Scenario) (map[string]uint64, map[string]uint8) {
	amounts := make(map[string]uint64, len(sc.Accounts))
	decimals := make(map[string]uint8)
	for _, a := range sc.Accounts {
		key, err := sc.Key(a.Name)
		if err != nil {
			continue
		}
		acc, ok := box.Account(key)
		if !ok {
			continue
		}
		switch a.Kind {
		case scenario.KindMint:
			if d, err := extension.DecimalsOf(acc.Data); err == nil {
				decimals[a.Name] = d
			}
		case scenario.KindToken:
			if mintKey, ok := types.PubkeyFromBytes(acc.Data); ok {
				if mint, ok := box.Account(mintKey); ok {
					if d, err := extension.DecimalsOf(mint.Data); err == nil {
						decimals[a.Name] = d
					}
				}
			}
			if snap, err := accountant.TakeSnapshot(acc); err == nil {
				amounts[a.Name] = snap.Amount
				continue
			}
		}
		amounts[a.Name] = acc.Lamports
	}
	return amounts, decimals
}
