package provision

import (
	"errors"
	"testing"

	"arb-router-sol/internal/consts"
	"arb-router-sol/internal/logic/core"
	"arb-router-sol/internal/logic/sandbox"
	"arb-router-sol/internal/types"
	sdktypes "github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	payer  = types.Pubkey{0x01, 0x02}
	caller = types.Pubkey{0x0C}
)

func TestSeed(t *testing.T) {
	seed := Seed(consts.USDCMint)
	assert.Len(t, seed, 32)
	assert.Equal(t, "d0d111751db9b1d3bca30e29cc16c47a", seed)
	assert.NotEqual(t, seed, Seed(consts.WSOLMint))
}

func mintAccount(key, owner types.Pubkey) *core.AccountInfo {
	data := make([]byte, consts.MintBaseLen)
	data[consts.MintDecimalsOffset] = 6
	data[consts.MintInitializedFlag] = 1
	return &core.AccountInfo{Key: key, Owner: owner, Lamports: 1_461_600, Data: data}
}

func setup(t *testing.T, tokenProgram types.Pubkey) (*sandbox.Sandbox, sdktypes.Instruction, types.Pubkey) {
	s := sandbox.New()
	s.SetAccount(&core.AccountInfo{Key: payer, Owner: consts.SystemProgram, Lamports: 10_000_000})
	s.SetAccount(mintAccount(consts.USDCMint, tokenProgram))
	s.Register(caller, core.ProgramFunc(func(host core.Host, _ types.Pubkey, accounts []*core.AccountInfo, _ []byte) error {
		return CreateTokenAccount(host, Accounts{
			Payer:         accounts[0],
			NewAccount:    accounts[1],
			Mint:          accounts[2],
			TokenProgram:  accounts[3],
			SystemProgram: accounts[4],
		})
	}))

	newAccount := DeriveAddress(payer, consts.USDCMint, tokenProgram)
	ix := sdktypes.Instruction{
		ProgramID: caller.ToPublicKey(),
		Accounts: []sdktypes.AccountMeta{
			{PubKey: payer.ToPublicKey(), IsSigner: true, IsWritable: true},
			{PubKey: newAccount.ToPublicKey(), IsWritable: true},
			{PubKey: consts.USDCMint.ToPublicKey()},
			{PubKey: tokenProgram.ToPublicKey()},
			{PubKey: consts.SystemProgram.ToPublicKey()},
		},
	}
	return s, ix, newAccount
}

func TestCreateTokenAccount(t *testing.T) {
	for _, tokenProgram := range []types.Pubkey{consts.TokenProgram, consts.TokenProgram2022} {
		s, ix, newAccount := setup(t, tokenProgram)
		_, err := s.Execute(ix, payer)
		require.NoError(t, err)

		acc, ok := s.Account(newAccount)
		require.True(t, ok)
		assert.Equal(t, tokenProgram, acc.Owner)
		assert.Equal(t, uint64(2039280), acc.Lamports)
		require.Len(t, acc.Data, consts.TokenAccountLen)
		assert.Equal(t, consts.USDCMint[:], acc.Data[0:32])
		assert.Equal(t, payer[:], acc.Data[32:64])

		p, _ := s.Account(payer)
		assert.Equal(t, uint64(10_000_000-2039280), p.Lamports)

		// 再次创建：账户已存在
		_, err = s.Execute(ix, payer)
		assert.ErrorIs(t, err, sandbox.ErrAccountAlreadyInUse)
	}
}

func TestCreateTokenAccountWrongAddress(t *testing.T) {
	s, ix, _ := setup(t, consts.TokenProgram)
	ix.Accounts[1].PubKey = types.Pubkey{0x77}.ToPublicKey()
	_, err := s.Execute(ix, payer)
	assert.True(t, errors.Is(err, core.ErrInvalidAccountState))

	// 地址按 token-2022 派生，但传入的是 token program
	s, ix, _ = setup(t, consts.TokenProgram)
	ix.Accounts[1].PubKey = DeriveAddress(payer, consts.USDCMint, consts.TokenProgram2022).ToPublicKey()
	_, err = s.Execute(ix, payer)
	assert.True(t, errors.Is(err, core.ErrInvalidAccountState))

	s, ix, _ = setup(t, consts.TokenProgram)
	ix.Accounts[4].PubKey = consts.TokenProgram.ToPublicKey()
	_, err = s.Execute(ix, payer)
	assert.True(t, errors.Is(err, core.ErrInvalidAccountState))
}
