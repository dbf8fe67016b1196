package sandbox

import (
	"errors"
	"testing"

	"arb-router-sol/internal/consts"
	"arb-router-sol/internal/logic/core"
	"arb-router-sol/internal/types"
	"github.com/blocto/solana-go-sdk/program/system"
	sdktypes "github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = types.Pubkey{0xA1}
	bob   = types.Pubkey{0xB0}
	prog  = types.Pubkey{0xCC}
)

func wallet(key types.Pubkey, lamports uint64) *core.AccountInfo {
	return &core.AccountInfo{Key: key, Owner: consts.SystemProgram, Lamports: lamports}
}

func lamportsOf(t *testing.T, s *Sandbox, key types.Pubkey) uint64 {
	acc, ok := s.Account(key)
	require.True(t, ok)
	return acc.Lamports
}

func TestMinimumBalance(t *testing.T) {
	assert.Equal(t, uint64(2039280), MinimumBalance(165))
	assert.Equal(t, uint64(890880), MinimumBalance(0))
}

func TestExecuteTransferCommits(t *testing.T) {
	s := New()
	s.SetAccount(wallet(alice, 10_000))

	ix := system.Transfer(system.TransferParam{From: alice.ToPublicKey(), To: bob.ToPublicKey(), Amount: 4000})
	_, err := s.Execute(ix, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(6000), lamportsOf(t, s, alice))
	assert.Equal(t, uint64(4000), lamportsOf(t, s, bob))

	// 未签名
	_, err = s.Execute(ix)
	assert.ErrorIs(t, err, ErrPrivilegeEscalation)

	// 余额不足：不提交任何修改
	ix = system.Transfer(system.TransferParam{From: alice.ToPublicKey(), To: bob.ToPublicKey(), Amount: 1_000_000})
	_, err = s.Execute(ix, alice)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, uint64(6000), lamportsOf(t, s, alice))
}

// 先转账再失败的程序：整笔回滚
func TestExecuteRollsBackOnFailure(t *testing.T) {
	s := New()
	s.SetAccount(wallet(alice, 10_000))
	boom := errors.New("boom")
	s.Register(prog, core.ProgramFunc(func(host core.Host, _ types.Pubkey, accounts []*core.AccountInfo, _ []byte) error {
		ix := system.Transfer(system.TransferParam{From: accounts[0].Key.ToPublicKey(), To: accounts[1].Key.ToPublicKey(), Amount: 500})
		if err := host.Invoke(ix, accounts); err != nil {
			return err
		}
		host.Log("transferred")
		if len(accounts[1].Data) == 0 && accounts[1].Lamports == 500 {
			return boom
		}
		return nil
	}))

	ix := sdktypes.Instruction{
		ProgramID: prog.ToPublicKey(),
		Accounts: []sdktypes.AccountMeta{
			{PubKey: alice.ToPublicKey(), IsSigner: true, IsWritable: true},
			{PubKey: bob.ToPublicKey(), IsWritable: true},
			{PubKey: consts.SystemProgram.ToPublicKey()},
		},
	}
	logs, err := s.Execute(ix, alice)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, logs, "Program log: transferred")
	assert.Equal(t, uint64(10_000), lamportsOf(t, s, alice))
	_, ok := s.Account(bob)
	assert.False(t, ok)
}

func TestInvokePrivilegeChecks(t *testing.T) {
	s := New()
	s.SetAccount(wallet(alice, 10_000))
	s.SetAccount(wallet(bob, 0))

	// 调用方只以只读方式拿到 alice，却试图让被调用方写入
	s.Register(prog, core.ProgramFunc(func(host core.Host, _ types.Pubkey, accounts []*core.AccountInfo, _ []byte) error {
		ix := system.Transfer(system.TransferParam{From: alice.ToPublicKey(), To: bob.ToPublicKey(), Amount: 1})
		return host.Invoke(ix, accounts)
	}))
	ix := sdktypes.Instruction{
		ProgramID: prog.ToPublicKey(),
		Accounts: []sdktypes.AccountMeta{
			{PubKey: alice.ToPublicKey(), IsSigner: true},
			{PubKey: bob.ToPublicKey(), IsWritable: true},
			{PubKey: consts.SystemProgram.ToPublicKey()},
		},
	}
	_, err := s.Execute(ix, alice)
	assert.ErrorIs(t, err, ErrPrivilegeEscalation)

	// 程序账户未传入
	ix.Accounts = ix.Accounts[:2]
	ix.Accounts[0].IsWritable = true
	_, err = s.Execute(ix, alice)
	assert.ErrorIs(t, err, ErrMissingAccount)

	_, err = s.Execute(sdktypes.Instruction{ProgramID: types.Pubkey{0x99}.ToPublicKey()})
	assert.ErrorIs(t, err, ErrProgramNotFound)
}

func TestInvokeReadonlyModified(t *testing.T) {
	s := New()
	s.SetAccount(&core.AccountInfo{Key: bob, Owner: prog, Data: []byte{1, 2, 3}})
	evil := types.Pubkey{0xEE}
	s.Register(evil, core.ProgramFunc(func(_ core.Host, _ types.Pubkey, accounts []*core.AccountInfo, _ []byte) error {
		accounts[0].Data[0] = 9
		return nil
	}))
	s.Register(prog, core.ProgramFunc(func(host core.Host, _ types.Pubkey, accounts []*core.AccountInfo, _ []byte) error {
		return host.Invoke(sdktypes.Instruction{
			ProgramID: evil.ToPublicKey(),
			Accounts:  []sdktypes.AccountMeta{{PubKey: bob.ToPublicKey()}},
		}, accounts)
	}))

	_, err := s.Execute(sdktypes.Instruction{
		ProgramID: prog.ToPublicKey(),
		Accounts: []sdktypes.AccountMeta{
			{PubKey: bob.ToPublicKey(), IsWritable: true},
			{PubKey: evil.ToPublicKey()},
		},
	})
	assert.ErrorIs(t, err, ErrReadonlyModified)
	acc, _ := s.Account(bob)
	assert.Equal(t, []byte{1, 2, 3}, acc.Data)
}

func TestInvokeDepthLimit(t *testing.T) {
	s := New()
	s.Register(prog, core.ProgramFunc(func(host core.Host, self types.Pubkey, accounts []*core.AccountInfo, _ []byte) error {
		return host.Invoke(sdktypes.Instruction{
			ProgramID: self.ToPublicKey(),
			Accounts:  []sdktypes.AccountMeta{{PubKey: self.ToPublicKey()}},
		}, accounts)
	}))
	_, err := s.Execute(sdktypes.Instruction{
		ProgramID: prog.ToPublicKey(),
		Accounts:  []sdktypes.AccountMeta{{PubKey: prog.ToPublicKey()}},
	})
	assert.ErrorIs(t, err, ErrInvokeDepth)
}
