package processor

import (
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"arb-router-sol/internal/consts"
	"arb-router-sol/internal/logic/core"
	"arb-router-sol/internal/logic/hop"
	"arb-router-sol/internal/logic/sandbox"
	"arb-router-sol/internal/logic/venue"
	"arb-router-sol/internal/types"
	sdktypes "github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	arbProgram = types.Pubkey{0xA0}
	authority  = types.Pubkey{0xA1}
	tipper     = types.Pubkey{0xA2}
	accountX   = types.Pubkey{0xA3}
	accountY   = types.Pubkey{0xA4}
	otherMint  = types.Pubkey{0xA5}
)

func TestParseArbSwap(t *testing.T) {
	data, err := EncodeArbSwap(123_456, 0x0A32, []hop.Code{0x9, 0x1})
	require.NoError(t, err)
	assert.Equal(t, TagArbSwap, data[0])
	assert.Equal(t, []byte{0x19}, data[12:])

	args, err := ParseArbSwap(data[1:])
	require.NoError(t, err)
	assert.Equal(t, uint8(2), args.NumHops)
	assert.Equal(t, uint64(123_456), args.Amount)
	assert.Equal(t, uint8(0x32), args.TipRate())
	assert.Equal(t, uint64(0x0A32), args.MinProfit())
	assert.Equal(t, []hop.Code{0x0, 0x1, 0x1}, args.Hops)

	_, err = ParseArbSwap(data[1:5])
	assert.True(t, errors.Is(err, core.ErrInvalidInstructionData))

	// 声明 2 个 hop 但缺少 nibble 字节
	_, err = ParseArbSwap(data[1:12])
	assert.Error(t, err)
}

func TestProcessRejectsBadTag(t *testing.T) {
	p := &Program{}
	err := p.Process(nil, arbProgram, nil, nil)
	assert.True(t, errors.Is(err, core.ErrInvalidInstructionData))

	err = p.Process(nil, arbProgram, nil, []byte{0x01})
	assert.True(t, errors.Is(err, core.ErrInvalidInstructionData))

	err = p.Process(nil, arbProgram, nil, []byte{TagCreateTokenAccount})
	assert.True(t, errors.Is(err, core.ErrInvalidInstructionData))
}

func tokenAccount(key, mint types.Pubkey, amount uint64) *core.AccountInfo {
	data := make([]byte, consts.TokenAccountLen)
	copy(data, mint[:])
	binary.LittleEndian.PutUint64(data[consts.TokenAmountOffset:], amount)
	return &core.AccountInfo{Key: key, Owner: consts.TokenProgram, Lamports: 2_039_280, Data: data}
}

func tokenBalance(t *testing.T, box *sandbox.Sandbox, key types.Pubkey) uint64 {
	acc, ok := box.Account(key)
	require.True(t, ok)
	return binary.LittleEndian.Uint64(acc.Data[consts.TokenAmountOffset:])
}

// doubler 是输出为输入两倍的场地程序
func doubler(_ core.Host, programID types.Pubkey, accounts []*core.AccountInfo, data []byte) error {
	entry, ok := venue.Lookup(programID)
	if !ok {
		return errors.New("not a venue")
	}
	args, err := entry.DecodeSwap(data)
	if err != nil {
		return err
	}
	in, out := entry.Profile.UserAccounts(args.Direction)
	inBal := binary.LittleEndian.Uint64(accounts[in].Data[consts.TokenAmountOffset:])
	if inBal < args.Amount {
		return errors.New("insufficient")
	}
	outBal := binary.LittleEndian.Uint64(accounts[out].Data[consts.TokenAmountOffset:])
	binary.LittleEndian.PutUint64(accounts[in].Data[consts.TokenAmountOffset:], inBal-args.Amount)
	binary.LittleEndian.PutUint64(accounts[out].Data[consts.TokenAmountOffset:], outBal+2*args.Amount)
	return nil
}

// cpmmLeg 按 Raydium CPMM 角色布局生成一个 hop 的账户
func cpmmLeg(in, out types.Pubkey, salt byte) []sdktypes.AccountMeta {
	metas := []sdktypes.AccountMeta{{PubKey: consts.RaydiumCPMMProgram.ToPublicKey()}}
	entry, _ := venue.Lookup(consts.RaydiumCPMMProgram)
	for i, role := range entry.Profile.Roles {
		key := types.Pubkey{0xF0, salt, byte(i)}
		switch i {
		case 0:
			key = authority
		case entry.Profile.UserA:
			key = in
		case entry.Profile.UserB:
			key = out
		}
		metas = append(metas, sdktypes.AccountMeta{PubKey: key.ToPublicKey(), IsSigner: role.Signer(), IsWritable: role.Writable()})
	}
	return metas
}

func setupBox() *sandbox.Sandbox {
	box := sandbox.New()
	box.SetAccount(&core.AccountInfo{Key: authority, Owner: consts.SystemProgram, Lamports: 1_000_000})
	box.SetAccount(tokenAccount(accountX, consts.USDCMint, 1_000))
	box.SetAccount(tokenAccount(accountY, otherMint, 0))
	box.Register(consts.RaydiumCPMMProgram, core.ProgramFunc(doubler))
	return box
}

func arbSwapIx(t *testing.T, amount uint64, flags uint16, extra ...sdktypes.AccountMeta) sdktypes.Instruction {
	data, err := EncodeArbSwap(amount, flags, []hop.Code{0x9})
	require.NoError(t, err)
	metas := []sdktypes.AccountMeta{
		{PubKey: authority.ToPublicKey(), IsSigner: true, IsWritable: true},
		{PubKey: accountX.ToPublicKey(), IsWritable: true},
		{PubKey: accountX.ToPublicKey(), IsWritable: true},
	}
	metas = append(metas, cpmmLeg(accountX, accountY, 1)...)
	metas = append(metas, cpmmLeg(accountY, accountX, 2)...)
	metas = append(metas, extra...)
	metas = append(metas,
		sdktypes.AccountMeta{PubKey: consts.SystemProgram.ToPublicKey()},
		sdktypes.AccountMeta{PubKey: tipper.ToPublicKey(), IsWritable: true},
	)
	return sdktypes.Instruction{ProgramID: arbProgram.ToPublicKey(), Accounts: metas, Data: data}
}

func TestArbSwapInSandbox(t *testing.T) {
	box := setupBox()
	var got *Outcome
	box.Register(arbProgram, &Program{OnArbSwap: func(o *Outcome) { got = o }})

	// X 100 -> Y 200 -> X 400：利润 300，10% 小费 30 低于下限取 1000
	logs, err := box.Execute(arbSwapIx(t, 100, 0x0A), authority)
	require.NoError(t, err)
	require.NotNil(t, got)

	require.Len(t, got.Hops, 2)
	assert.Equal(t, uint64(200), got.Hops[0].AmountOut)
	assert.Equal(t, uint64(400), got.Hops[1].AmountOut)
	assert.Equal(t, uint64(300), got.Profit.Profit)
	assert.Equal(t, uint64(1000), got.Tip)

	assert.Equal(t, uint64(1_300), tokenBalance(t, box, accountX))
	assert.Equal(t, uint64(0), tokenBalance(t, box, accountY))
	acc, _ := box.Account(tipper)
	assert.Equal(t, uint64(1000), acc.Lamports)
	acc, _ = box.Account(authority)
	assert.Equal(t, uint64(999_000), acc.Lamports)

	joined := strings.Join(logs, "\n")
	assert.Contains(t, joined, "Program log: hop: 0 amount: 200")
	assert.Contains(t, joined, "Program log: hop: 1 amount: 400")
	assert.Contains(t, joined, "Program log: tip amount: 1000")
}

func TestArbSwapMinProfitRollsBack(t *testing.T) {
	box := setupBox()
	box.Register(arbProgram, &Program{})

	// 利润 300 < flags 0x0200
	_, err := box.Execute(arbSwapIx(t, 100, 0x0200), authority)
	assert.True(t, errors.Is(err, core.ErrNotProfitable))
	assert.Equal(t, uint64(1_000), tokenBalance(t, box, accountX))
	acc, _ := box.Account(authority)
	assert.Equal(t, uint64(1_000_000), acc.Lamports)
}

func TestArbSwapLeftoverAccounts(t *testing.T) {
	box := setupBox()
	box.Register(arbProgram, &Program{})

	stray := sdktypes.AccountMeta{PubKey: types.Pubkey{0xEE}.ToPublicKey()}
	_, err := box.Execute(arbSwapIx(t, 100, 0, stray), authority)
	assert.True(t, errors.Is(err, core.ErrInvalidHopConfig))
	assert.Contains(t, err.Error(), "1 hop accounts left unconsumed")
	assert.Equal(t, uint64(1_000), tokenBalance(t, box, accountX))
}

func TestArbSwapAccountChecks(t *testing.T) {
	args := ArbSwapArgs{NumHops: 0, Amount: 1}
	signer := &core.AccountInfo{Key: authority, IsSigner: true, IsWritable: true}
	src := tokenAccount(accountX, consts.USDCMint, 1)
	sys := &core.AccountInfo{Key: consts.SystemProgram}
	tip := &core.AccountInfo{Key: tipper, IsWritable: true}

	_, err := ArbSwap(nil, []*core.AccountInfo{signer, src, src, sys}, args)
	assert.True(t, errors.Is(err, core.ErrInvalidInstructionData))

	unsigned := &core.AccountInfo{Key: authority, IsWritable: true}
	_, err = ArbSwap(nil, []*core.AccountInfo{unsigned, src, src, sys, tip}, args)
	assert.True(t, errors.Is(err, core.ErrInvalidAccountState))

	notSystem := &core.AccountInfo{Key: consts.TokenProgram}
	_, err = ArbSwap(nil, []*core.AccountInfo{signer, src, src, notSystem, tip}, args)
	assert.True(t, errors.Is(err, core.ErrInvalidInstructionData))
}
