package dispatcher

import (
	"arb-router-sol/internal/consts"
	"arb-router-sol/internal/logic/accountant"
	"arb-router-sol/internal/logic/core"
	"arb-router-sol/internal/logic/extension"
	"arb-router-sol/internal/logic/hop"
	"arb-router-sol/internal/logic/venue"
	"arb-router-sol/internal/pkg/logger"
	"arb-router-sol/internal/types"
)

// Result 单个 hop 的执行结果
type Result struct {
	Venue     string
	Next      int    // 下一个 hop 的账户游标
	AmountOut uint64 // 本 hop 输出（用户输出账户余额增量）
}

// Dispatcher 在扁平的 hop 账户区上按游标逐个执行 hop
type Dispatcher struct {
	host     core.Host
	accounts []*core.AccountInfo
}

func New(host core.Host, hopAccounts []*core.AccountInfo) *Dispatcher {
	return &Dispatcher{host: host, accounts: hopAccounts}
}

// Len 返回 hop 账户区长度
func (d *Dispatcher) Len() int {
	return len(d.accounts)
}

// Route 执行游标处的一个 hop：查表、（可选）校验 mint 扩展、发起一次外部调用，
// 返回推进后的游标。未知场地不会发起任何调用。
func (d *Dispatcher) Route(cursor int, code hop.Code, amountIn uint64) (Result, error) {
	step, ok := code.Step()
	if !ok {
		return Result{}, core.ErrInvalidHopConfig.With("code %s is not atomic", code)
	}
	if cursor < 0 || cursor >= len(d.accounts) {
		return Result{}, core.ErrCalculationError.With("cursor %d out of %d hop accounts", cursor, len(d.accounts))
	}

	identity := d.accounts[cursor].Key
	entry, ok := venue.Lookup(identity)
	if !ok {
		return Result{}, core.ErrInvalidInstructionData.With("unknown venue program %s", identity)
	}
	arity, err := entry.Profile.Arity(step)
	if err != nil {
		return Result{}, err
	}
	if cursor+arity > len(d.accounts) {
		return Result{}, core.ErrCalculationError.With("%s needs %d accounts at %d, have %d", entry.Label, arity, cursor, len(d.accounts))
	}

	consumed, out, err := d.execute(entry, d.accounts[cursor:], arity, step, amountIn)
	if err != nil {
		return Result{}, err
	}

	logger.Debugf("[dispatcher:Route] venue=%s cursor=%d arity=%d in=%d out=%d", entry.Label, cursor, arity, amountIn, out)
	return Result{Venue: entry.Label, Next: cursor + consumed, AmountOut: out}, nil
}

// execute 在 region（从当前游标起的剩余账户）上执行一个 hop，返回实际消耗的账户数与输出增量
func (d *Dispatcher) execute(entry *venue.Entry, region []*core.AccountInfo, arity int, step hop.Step, amountIn uint64) (int, uint64, error) {
	ix, consumed, err := entry.BuildInstruction(region, step, amountIn)
	if err != nil {
		return 0, 0, err
	}
	if consumed != arity {
		return 0, 0, core.ErrInvalidHopConfig.With("%s consumed %d accounts, arity %d", entry.Label, consumed, arity)
	}
	hopAccounts := region[:consumed]

	_, outIdx := entry.Profile.UserAccounts(step.Direction)
	userOut := hopAccounts[1+outIdx]

	if step.Hooked {
		mint := hopAccounts[consumed-2]
		hookProgram := hopAccounts[consumed-1]
		if err := checkHookedMint(mint, hookProgram.Key, userOut); err != nil {
			return 0, 0, err
		}
	}

	before, err := accountant.TakeSnapshot(userOut)
	if err != nil {
		return 0, 0, err
	}
	if err := d.host.Invoke(ix, hopAccounts); err != nil {
		return 0, 0, err
	}

	after, err := accountant.TakeSnapshot(userOut)
	if err != nil {
		return 0, 0, err
	}
	if after.Amount < before.Amount {
		return 0, 0, core.ErrCalculationError.With("%s output balance decreased %d -> %d", entry.Label, before.Amount, after.Amount)
	}
	return consumed, after.Amount - before.Amount, nil
}

// checkHookedMint 校验带 transfer hook 的输出 mint：hook program 与传入账户一致，
// 且输出账户确实属于该 mint；不接受 permanent delegate mint。
func checkHookedMint(mint *core.AccountInfo, hookProgram types.Pubkey, userOut *core.AccountInfo) error {
	m, err := extension.UnpackMint(mint.Data)
	if err != nil {
		return err
	}
	if m.Has(consts.ExtPermanentDelegate) {
		return core.ErrTokenConstraintViolation.With("mint %s has permanent delegate", mint.Key)
	}
	hook, ok := extension.FindTransferHook(mint.Data)
	if !ok {
		return core.ErrTokenConstraintViolation.With("mint %s has no transfer hook", mint.Key)
	}
	if hook != hookProgram {
		return core.ErrTokenConstraintViolation.With("mint %s hook %s, got %s", mint.Key, hook, hookProgram)
	}
	if outMint, ok := types.PubkeyFromBytes(userOut.Data); !ok || outMint != mint.Key {
		return core.ErrTokenConstraintViolation.With("output account %s is not a %s account", userOut.Key, mint.Key)
	}
	return nil
}
