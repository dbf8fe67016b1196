package processor

import (
	"fmt"

	"arb-router-sol/internal/consts"
	"arb-router-sol/internal/logic/accountant"
	"arb-router-sol/internal/logic/core"
	"arb-router-sol/internal/logic/dispatcher"
	"arb-router-sol/internal/logic/hop"
	"github.com/blocto/solana-go-sdk/program/system"
)

// HopOutcome 单个 hop 的执行记录
type HopOutcome struct {
	Index     int
	Code      hop.Code
	Venue     string
	AmountIn  uint64
	AmountOut uint64
}

// Outcome 是一次成功 arb_swap 的结果
type Outcome struct {
	Hops   []HopOutcome
	Profit accountant.ProfitResult
	Tip    uint64
}

// ArbSwap 执行多跳套利：快照 -> 逐 hop 路由 -> 再次快照 -> 利润校验 -> 付小费。
// 任一步失败立即返回，状态回滚由宿主负责。
func ArbSwap(host core.Host, accounts []*core.AccountInfo, args ArbSwapArgs) (*Outcome, error) {
	if len(accounts) < arbSwapFixedAccounts+arbSwapTailAccounts {
		return nil, core.ErrInvalidInstructionData.With("arb_swap needs at least %d accounts, got %d", arbSwapFixedAccounts+arbSwapTailAccounts, len(accounts))
	}
	authority, source := accounts[0], accounts[1]
	systemProgram := accounts[len(accounts)-2]
	tipRecipient := accounts[len(accounts)-1]
	if !authority.IsSigner {
		return nil, core.ErrInvalidAccountState.With("authority %s must sign", authority.Key)
	}
	if systemProgram.Key != consts.SystemProgram {
		return nil, core.ErrInvalidInstructionData.With("settlement program %s", systemProgram.Key)
	}

	initial, err := accountant.TakeSnapshot(source)
	if err != nil {
		return nil, err
	}

	d := dispatcher.New(host, accounts[arbSwapFixedAccounts:len(accounts)-arbSwapTailAccounts])
	out := &Outcome{Hops: make([]HopOutcome, 0, len(args.Hops))}
	cursor := 0
	amount := args.Amount
	for i, code := range args.Hops {
		res, err := d.Route(cursor, code, amount)
		if err != nil {
			return nil, err
		}
		out.Hops = append(out.Hops, HopOutcome{Index: i, Code: code, Venue: res.Venue, AmountIn: amount, AmountOut: res.AmountOut})
		host.Log(fmt.Sprintf("hop: %d amount: %d", i, res.AmountOut))
		cursor = res.Next
		amount = res.AmountOut
	}
	if cursor != d.Len() {
		return nil, core.ErrInvalidHopConfig.With("%d hop accounts left unconsumed", d.Len()-cursor)
	}

	// 重新读取，不使用缓存值
	final, err := accountant.TakeSnapshot(source)
	if err != nil {
		return nil, err
	}
	profit, err := accountant.CheckProfit(initial.Amount, final.Amount, args.MinProfit())
	if err != nil {
		return nil, err
	}
	tip, err := accountant.DefaultTipPolicy(args.TipRate()).ComputeTip(profit.Profit)
	if err != nil {
		return nil, err
	}

	ix := system.Transfer(system.TransferParam{
		From:   authority.Key.ToPublicKey(),
		To:     tipRecipient.Key.ToPublicKey(),
		Amount: tip,
	})
	if err := host.Invoke(ix, []*core.AccountInfo{authority, tipRecipient, systemProgram}); err != nil {
		return nil, err
	}
	host.Log(fmt.Sprintf("tip amount: %d", tip))

	out.Profit = profit
	out.Tip = tip
	return out, nil
}
