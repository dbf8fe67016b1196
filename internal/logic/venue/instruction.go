package venue

import (
	"arb-router-sol/internal/logic/core"
	"arb-router-sol/internal/logic/hop"
	sdktypes "github.com/blocto/solana-go-sdk/types"
)

// BuildInstruction 按静态角色布局组装外部调用指令，返回本 hop 实际使用的账户数。
// hopAccounts 从本 hop 的 program 账户开始：[program, roles..., extras..., (mint, hook program)]，
// 之后的账户属于后续 hop，不会被读取。权限只取自布局，不从账户内容推导。
func (e *Entry) BuildInstruction(hopAccounts []*core.AccountInfo, step hop.Step, amount uint64) (sdktypes.Instruction, int, error) {
	p := e.Profile
	arity, err := p.Arity(step)
	if err != nil {
		return sdktypes.Instruction{}, 0, err
	}
	if len(hopAccounts) < arity {
		return sdktypes.Instruction{}, 0, core.ErrInvalidHopConfig.With("%s: have %d accounts, arity %d", e.Label, len(hopAccounts), arity)
	}

	metas := make([]sdktypes.AccountMeta, 0, arity-1)
	idx := 1
	for _, role := range p.Roles {
		metas = append(metas, sdktypes.AccountMeta{
			PubKey:     hopAccounts[idx].Key.ToPublicKey(),
			IsSigner:   role.Signer(),
			IsWritable: role.Writable(),
		})
		idx++
	}
	for i := 0; i < int(step.Extra); i++ {
		metas = append(metas, sdktypes.AccountMeta{PubKey: hopAccounts[idx].Key.ToPublicKey(), IsWritable: true})
		idx++
	}
	if step.Hooked {
		// mint 仅用于校验，hook program 需出现在调用账户集中
		metas = append(metas, sdktypes.AccountMeta{PubKey: hopAccounts[idx+1].Key.ToPublicKey()})
		idx += 2
	}

	data, err := p.Codec.Encode(SwapArgs{Direction: step.Direction, Amount: amount})
	if err != nil {
		return sdktypes.Instruction{}, 0, core.ErrCalculationError.With("%s payload: %v", e.Label, err)
	}
	return sdktypes.Instruction{
		ProgramID: e.Identity.ToPublicKey(),
		Accounts:  metas,
		Data:      data,
	}, idx, nil
}

// DecodeSwap 解析场地指令数据（模拟器中的场地程序使用）
func (e *Entry) DecodeSwap(data []byte) (SwapArgs, error) {
	return e.Profile.Codec.Decode(data)
}
