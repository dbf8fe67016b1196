package scenario

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"arb-router-sol/internal/consts"
	"arb-router-sol/internal/logic/extension"
	"arb-router-sol/internal/logic/hop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hookedYAML = `
name: hooked
authority: trader
source: wsol_acct
destination: wsol_acct
tip_recipient: tipper
amount: 5000
flags: 0x0105
expect_error: 6001
accounts:
  - {name: trader, kind: wallet, lamports: 1000000}
  - {name: wsol_acct, kind: token, mint: wsol, lamports: 10000000}
  - {name: hooked_mint, kind: mint, decimals: 6, supply: 1000, transfer_hook: hook_prog}
  - {name: hooked_acct, kind: token, mint: hooked_mint, amount: 7, token_2022: true}
venues:
  - {program: orca whirlpool, rate_num: 1, rate_den: 1}
hops:
  - code: 0x6
    legs:
      - venue: Orca Whirlpool
        accounts: [token, trader, pool, wsol_acct, va, hooked_acct, vb, t0, t1, t2, oracle]
        mint: hooked_mint
        hook_program: hook_prog
`

func TestParseAndLedger(t *testing.T) {
	sc, err := Parse([]byte(hookedYAML))
	require.NoError(t, err)
	assert.Equal(t, "hooked", sc.Name)
	assert.Equal(t, uint16(0x0105), sc.Flags)
	assert.Equal(t, uint32(6001), sc.ExpectError)

	ledger, err := sc.Ledger()
	require.NoError(t, err)
	require.Len(t, ledger, 4)

	trader, _ := sc.Key("trader")
	assert.Equal(t, DeriveKey("trader"), trader)
	assert.Equal(t, consts.SystemProgram, ledger[0].Owner)

	wsol := ledger[1]
	assert.Equal(t, consts.TokenProgram, wsol.Owner)
	assert.Equal(t, consts.WSOLMint[:], wsol.Data[:32])
	assert.Equal(t, trader[:], wsol.Data[consts.TokenOwnerOffset:consts.TokenAmountOffset])
	assert.Equal(t, byte(1), wsol.Data[consts.TokenStateOffset])

	mint := ledger[2]
	assert.Equal(t, consts.TokenProgram2022, mint.Owner)
	hook, ok := extension.FindTransferHook(mint.Data)
	require.True(t, ok)
	assert.Equal(t, DeriveKey("hook_prog"), hook)

	acct := ledger[3]
	assert.Equal(t, consts.TokenProgram2022, acct.Owner)
	assert.Equal(t, mint.Key[:], acct.Data[:32])
	assert.Equal(t, uint64(7), binary.LittleEndian.Uint64(acct.Data[consts.TokenAmountOffset:]))
}

func TestKeyResolution(t *testing.T) {
	sc := &Scenario{Accounts: []Account{
		{Name: "pinned", Key: consts.USDCMintStr},
		{Name: "bad", Key: "0OIl"},
	}}

	k, err := sc.Key("pinned")
	require.NoError(t, err)
	assert.Equal(t, consts.USDCMint, k)

	k, err = sc.Key("Token2022")
	require.NoError(t, err)
	assert.Equal(t, consts.TokenProgram2022, k)

	k, err = sc.Key(consts.RaydiumV4ProgramStr)
	require.NoError(t, err)
	assert.Equal(t, consts.RaydiumV4Program, k)

	k, err = sc.Key("pool_vault")
	require.NoError(t, err)
	assert.Equal(t, DeriveKey("pool_vault"), k)

	_, err = sc.Key("bad")
	assert.Error(t, err)
	_, err = sc.Key("")
	assert.Error(t, err)
}

func TestResolveVenue(t *testing.T) {
	k, err := ResolveVenue("raydium cpmm")
	require.NoError(t, err)
	assert.Equal(t, consts.RaydiumCPMMProgram, k)

	k, err = ResolveVenue(consts.SaberProgramStr)
	require.NoError(t, err)
	assert.Equal(t, consts.SaberProgram, k)

	_, err = ResolveVenue(consts.TokenProgramStr)
	assert.Error(t, err)
	_, err = ResolveVenue("uniswap")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	_, err := Parse([]byte(`name: ""`))
	require.Error(t, err)
	// 错误按字段声明顺序输出，结果稳定
	assert.Equal(t, []string{
		"name is required",
		"authority is required",
		"source is required",
		"destination is required",
		"tip_recipient is required",
		"amount must be positive",
		"at least one hop is required",
	}, strings.Split(err.Error(), "\n"))

	_, err = Parse([]byte(`
name: x
authority: a
source: s
destination: s
tip_recipient: t
amount: 1
accounts:
  - {name: a, kind: wallet}
  - {name: a, kind: wallet}
  - {name: b, kind: token}
  - {name: c, kind: vault}
venues:
  - {program: nowhere, rate_num: 1, rate_den: 0}
hops:
  - {code: 0x10}
  - {code: 0x9, legs: [{venue: cpmm}]}
`))
	require.Error(t, err)
	for _, want := range []string{"duplicate name", "token account needs mint", "unknown kind", "unknown venue", "rate_den", "not nibble-encodable", "hops[1]: code 0x9 needs 2 legs, got 1"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestArbSwapParams(t *testing.T) {
	sc, err := Parse([]byte(hookedYAML))
	require.NoError(t, err)

	p, err := sc.ArbSwapParams()
	require.NoError(t, err)
	assert.Equal(t, DeriveKey("trader"), p.Authority)
	assert.Equal(t, p.Source, p.Destination)
	require.Len(t, p.Hops, 1)
	assert.Equal(t, hop.Code(0x6), p.Hops[0].Code)

	leg := p.Hops[0].Legs[0]
	assert.Equal(t, consts.OrcaWhirlpoolProgram, leg.Venue)
	assert.Len(t, leg.Accounts, 11)
	assert.Equal(t, consts.TokenProgram, leg.Accounts[0])
	assert.Equal(t, DeriveKey("hook_prog"), leg.HookProgram)

	rates, err := sc.VenueRates()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), rates[consts.OrcaWhirlpoolProgram].RateDen)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(hookedYAML), 0o644))
	sc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "hooked", sc.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
