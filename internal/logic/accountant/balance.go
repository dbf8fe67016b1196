package accountant

import (
	"encoding/binary"

	"arb-router-sol/internal/consts"
	"arb-router-sol/internal/logic/core"
	"arb-router-sol/internal/types"
	"github.com/holiman/uint256"
)

// Snapshot 是被跟踪账户某一时刻的余额
type Snapshot struct {
	IsNative bool
	Amount   uint64
}

// ProfitResult 终态利润
type ProfitResult struct {
	Initial uint64
	Final   uint64
	Profit  uint64
}

// TipPolicy 小费策略：tip = max(profit * rate / 100, floor)
type TipPolicy struct {
	RateNumerator uint8
	Floor         uint64
}

func DefaultTipPolicy(rate uint8) TipPolicy {
	return TipPolicy{RateNumerator: rate, Floor: consts.MinTipLamports}
}

// TakeSnapshot 读取账户余额。data[0:32] 声明的 mint 为 WSOL 时读 lamports，
// 否则按 spl token 布局读取 amount（u64 LE @64）。
func TakeSnapshot(acc *core.AccountInfo) (Snapshot, error) {
	mint, ok := types.PubkeyFromBytes(acc.Data)
	if !ok {
		return Snapshot{}, core.ErrInvalidAccountState.With("account %s data len %d", acc.Key, len(acc.Data))
	}
	if mint == consts.WSOLMint {
		return Snapshot{IsNative: true, Amount: acc.Lamports}, nil
	}
	amount, err := TokenAmount(acc.Data)
	if err != nil {
		return Snapshot{}, core.ErrInvalidAccountState.With("account %s data len %d", acc.Key, len(acc.Data))
	}
	return Snapshot{Amount: amount}, nil
}

// TokenAmount 读取 spl token account 的 amount 字段
func TokenAmount(data []byte) (uint64, error) {
	if len(data) < consts.TokenAmountEnd {
		return 0, core.ErrInvalidAccountState.With("token data len %d", len(data))
	}
	return binary.LittleEndian.Uint64(data[consts.TokenAmountOffset:consts.TokenAmountEnd]), nil
}

// CheckProfit 要求 final > initial 且 final >= initial + min（加法饱和）
func CheckProfit(initial, final, minProfit uint64) (ProfitResult, error) {
	threshold := initial + minProfit
	if threshold < initial {
		threshold = ^uint64(0)
	}
	if final <= initial || final < threshold {
		return ProfitResult{}, core.ErrNotProfitable.With("initial=%d final=%d min=%d", initial, final, minProfit)
	}
	return ProfitResult{Initial: initial, Final: final, Profit: final - initial}, nil
}

// ComputeTip 在 256 位宽度下计算 profit*rate/100，向下取整后与下限取大
func (p TipPolicy) ComputeTip(profit uint64) (uint64, error) {
	tip := new(uint256.Int).Mul(uint256.NewInt(profit), uint256.NewInt(uint64(p.RateNumerator)))
	tip.Div(tip, uint256.NewInt(consts.TipRateDenominator))
	if !tip.IsUint64() {
		return 0, core.ErrCalculationError.With("tip overflow: profit=%d rate=%d", profit, p.RateNumerator)
	}
	return max(tip.Uint64(), p.Floor), nil
}
