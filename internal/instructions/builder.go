package instructions

import (
	"fmt"

	"arb-router-sol/internal/consts"
	"arb-router-sol/internal/logic/hop"
	"arb-router-sol/internal/logic/processor"
	"arb-router-sol/internal/logic/provision"
	"arb-router-sol/internal/logic/venue"
	"arb-router-sol/internal/types"
	sdktypes "github.com/blocto/solana-go-sdk/types"
)

// Leg 是一个原子 hop 在账户区中的全部账户
type Leg struct {
	Venue       types.Pubkey
	Accounts    []types.Pubkey // 按场地角色布局排列
	Extra       []types.Pubkey // bin array 等附加账户
	Mint        types.Pubkey   // 仅 hooked hop
	HookProgram types.Pubkey   // 仅 hooked hop
}

// Hop 是一个 nibble 码及其展开后各原子 hop 的账户
type Hop struct {
	Code hop.Code
	Legs []Leg
}

type ArbSwapParams struct {
	Authority    types.Pubkey
	Source       types.Pubkey
	Destination  types.Pubkey
	TipRecipient types.Pubkey
	Amount       uint64
	Flags        uint16
	Hops         []Hop
}

// BuildArbSwap 组装 arb_swap 指令：指令数据 + 扁平账户列表
func BuildArbSwap(programID types.Pubkey, p ArbSwapParams) (sdktypes.Instruction, error) {
	codes := make([]hop.Code, 0, len(p.Hops))
	metas := []sdktypes.AccountMeta{
		{PubKey: p.Authority.ToPublicKey(), IsSigner: true, IsWritable: true},
		{PubKey: p.Source.ToPublicKey(), IsWritable: true},
		{PubKey: p.Destination.ToPublicKey(), IsWritable: true},
	}

	for i, h := range p.Hops {
		atomics, err := hop.Expand([]hop.Code{h.Code})
		if err != nil {
			return sdktypes.Instruction{}, fmt.Errorf("hop %d: %w", i, err)
		}
		if len(atomics) != len(h.Legs) {
			return sdktypes.Instruction{}, fmt.Errorf("hop %d: code %s expands to %d legs, got %d", i, h.Code, len(atomics), len(h.Legs))
		}
		for j, leg := range h.Legs {
			step, _ := atomics[j].Step()
			legMetas, err := legAccountMetas(leg, step)
			if err != nil {
				return sdktypes.Instruction{}, fmt.Errorf("hop %d leg %d: %w", i, j, err)
			}
			metas = append(metas, legMetas...)
		}
		codes = append(codes, h.Code)
	}

	metas = append(metas,
		sdktypes.AccountMeta{PubKey: consts.SystemProgram.ToPublicKey()},
		sdktypes.AccountMeta{PubKey: p.TipRecipient.ToPublicKey(), IsWritable: true},
	)

	data, err := processor.EncodeArbSwap(p.Amount, p.Flags, codes)
	if err != nil {
		return sdktypes.Instruction{}, err
	}
	return sdktypes.Instruction{ProgramID: programID.ToPublicKey(), Accounts: metas, Data: data}, nil
}

func legAccountMetas(leg Leg, step hop.Step) ([]sdktypes.AccountMeta, error) {
	entry, ok := venue.Lookup(leg.Venue)
	if !ok {
		return nil, fmt.Errorf("unknown venue %s", leg.Venue)
	}
	roles := entry.Profile.Roles
	if len(leg.Accounts) != len(roles) {
		return nil, fmt.Errorf("%s expects %d accounts, got %d", entry.Label, len(roles), len(leg.Accounts))
	}
	if len(leg.Extra) != int(step.Extra) {
		return nil, fmt.Errorf("%s: code wants %d extra accounts, got %d", entry.Label, step.Extra, len(leg.Extra))
	}
	if _, err := entry.Profile.Arity(step); err != nil {
		return nil, err
	}

	metas := make([]sdktypes.AccountMeta, 0, 1+len(roles)+len(leg.Extra)+2)
	metas = append(metas, sdktypes.AccountMeta{PubKey: leg.Venue.ToPublicKey()})
	for i, role := range roles {
		metas = append(metas, sdktypes.AccountMeta{
			PubKey:     leg.Accounts[i].ToPublicKey(),
			IsSigner:   role.Signer(),
			IsWritable: role.Writable(),
		})
	}
	for _, k := range leg.Extra {
		metas = append(metas, sdktypes.AccountMeta{PubKey: k.ToPublicKey(), IsWritable: true})
	}
	if step.Hooked {
		if leg.Mint.IsZero() || leg.HookProgram.IsZero() {
			return nil, fmt.Errorf("%s: hooked hop needs mint and hook program", entry.Label)
		}
		metas = append(metas,
			sdktypes.AccountMeta{PubKey: leg.Mint.ToPublicKey()},
			sdktypes.AccountMeta{PubKey: leg.HookProgram.ToPublicKey()},
		)
	}
	return metas, nil
}

// BuildCreateTokenAccount 组装 create_token_account 指令，返回派生出的新账户地址
func BuildCreateTokenAccount(programID, payer, mint, tokenProgram types.Pubkey) (sdktypes.Instruction, types.Pubkey) {
	newAccount := provision.DeriveAddress(payer, mint, tokenProgram)
	return sdktypes.Instruction{
		ProgramID: programID.ToPublicKey(),
		Accounts: []sdktypes.AccountMeta{
			{PubKey: payer.ToPublicKey(), IsSigner: true, IsWritable: true},
			{PubKey: newAccount.ToPublicKey(), IsWritable: true},
			{PubKey: mint.ToPublicKey()},
			{PubKey: tokenProgram.ToPublicKey()},
			{PubKey: consts.SystemProgram.ToPublicKey()},
		},
		Data: []byte{processor.TagCreateTokenAccount},
	}, newAccount
}
