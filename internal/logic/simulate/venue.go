package simulate

import (
	"encoding/binary"
	"fmt"

	"arb-router-sol/internal/consts"
	"arb-router-sol/internal/logic/accountant"
	"arb-router-sol/internal/logic/core"
	"arb-router-sol/internal/logic/venue"
	"arb-router-sol/internal/types"
	"github.com/holiman/uint256"
)

// ConstantRateVenue 是场地程序的固定汇率替身：
// 从用户输入账户扣 amount，向用户输出账户记 amount*Num/Den。
// 原生 SOL（WSOL mint）账户按 lamports 记账，其余按 token amount 记账。
type ConstantRateVenue struct {
	Num uint64
	Den uint64
}

var _ core.Program = (*ConstantRateVenue)(nil)

func (v *ConstantRateVenue) Process(_ core.Host, programID types.Pubkey, accounts []*core.AccountInfo, data []byte) error {
	entry, ok := venue.Lookup(programID)
	if !ok {
		return fmt.Errorf("venue %s not in table", programID)
	}
	args, err := entry.DecodeSwap(data)
	if err != nil {
		return fmt.Errorf("%s: %w", entry.Label, err)
	}
	inIdx, outIdx := entry.Profile.UserAccounts(args.Direction)
	if inIdx >= len(accounts) || outIdx >= len(accounts) {
		return fmt.Errorf("%s: account list too short", entry.Label)
	}
	userIn, userOut := accounts[inIdx], accounts[outIdx]
	if !userIn.IsWritable || !userOut.IsWritable {
		return fmt.Errorf("%s: user accounts must be writable", entry.Label)
	}

	if v.Den == 0 {
		return fmt.Errorf("%s: zero rate denominator", entry.Label)
	}
	out := new(uint256.Int).Mul(uint256.NewInt(args.Amount), uint256.NewInt(v.Num))
	out.Div(out, uint256.NewInt(v.Den))
	if !out.IsUint64() {
		return fmt.Errorf("%s: output overflow", entry.Label)
	}

	if err := debit(userIn, args.Amount); err != nil {
		return fmt.Errorf("%s: %w", entry.Label, err)
	}
	return credit(userOut, out.Uint64())
}

func isNative(acc *core.AccountInfo) bool {
	mint, ok := types.PubkeyFromBytes(acc.Data)
	return ok && mint == consts.WSOLMint
}

func debit(acc *core.AccountInfo, amount uint64) error {
	if isNative(acc) {
		if acc.Lamports < amount {
			return fmt.Errorf("insufficient lamports in %s: %d < %d", acc.Key, acc.Lamports, amount)
		}
		acc.Lamports -= amount
		return nil
	}
	bal, err := accountant.TokenAmount(acc.Data)
	if err != nil {
		return err
	}
	if bal < amount {
		return fmt.Errorf("insufficient tokens in %s: %d < %d", acc.Key, bal, amount)
	}
	binary.LittleEndian.PutUint64(acc.Data[consts.TokenAmountOffset:], bal-amount)
	return nil
}

func credit(acc *core.AccountInfo, amount uint64) error {
	if isNative(acc) {
		acc.Lamports += amount
		return nil
	}
	bal, err := accountant.TokenAmount(acc.Data)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(acc.Data[consts.TokenAmountOffset:], bal+amount)
	return nil
}
