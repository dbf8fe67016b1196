package processor

import (
	"arb-router-sol/internal/logic/core"
	"arb-router-sol/internal/logic/provision"
	"arb-router-sol/internal/pkg/logger"
	"arb-router-sol/internal/types"
)

// Program 是套利程序入口，实现 core.Program
type Program struct {
	// OnArbSwap 在 arb_swap 成功后回调（模拟器用于收集结果），可为空
	OnArbSwap func(*Outcome)
}

var _ core.Program = (*Program)(nil)

func (p *Program) Process(host core.Host, programID types.Pubkey, accounts []*core.AccountInfo, data []byte) error {
	if len(data) < 1 {
		return core.ErrInvalidInstructionData.With("empty instruction data")
	}
	switch data[0] {
	case TagArbSwap:
		args, err := ParseArbSwap(data[1:])
		if err != nil {
			return err
		}
		out, err := ArbSwap(host, accounts, args)
		if err != nil {
			logger.Debugf("[processor:Process] arb_swap failed: program=%s err=%v", programID, err)
			return err
		}
		if p.OnArbSwap != nil {
			p.OnArbSwap(out)
		}
		return nil
	case TagCreateTokenAccount:
		if len(accounts) < createAccountCount {
			return core.ErrInvalidInstructionData.With("create_token_account needs %d accounts, got %d", createAccountCount, len(accounts))
		}
		return provision.CreateTokenAccount(host, provision.Accounts{
			Payer:         accounts[0],
			NewAccount:    accounts[1],
			Mint:          accounts[2],
			TokenProgram:  accounts[3],
			SystemProgram: accounts[4],
		})
	default:
		return core.ErrInvalidInstructionData.With("unknown instruction tag 0x%02x", data[0])
	}
}
