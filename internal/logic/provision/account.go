package provision

import (
	"crypto/sha256"
	"encoding/hex"

	"arb-router-sol/internal/consts"
	"arb-router-sol/internal/logic/core"
	"arb-router-sol/internal/pkg/logger"
	"arb-router-sol/internal/types"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/system"
	sdktoken "github.com/blocto/solana-go-sdk/program/token"
)

// Accounts 是 create_token_account 的账户集合
type Accounts struct {
	Payer         *core.AccountInfo
	NewAccount    *core.AccountInfo
	Mint          *core.AccountInfo
	TokenProgram  *core.AccountInfo
	SystemProgram *core.AccountInfo
}

// Seed 由 mint 派生：hex(sha256(mint)[:16])，共 32 个字符
func Seed(mint types.Pubkey) string {
	sum := sha256.Sum256(mint[:])
	return hex.EncodeToString(sum[:consts.SeedHashBytes])
}

// DeriveAddress 计算 payer 以 mint seed 派生、归属 tokenProgram 的地址
func DeriveAddress(payer, mint, tokenProgram types.Pubkey) types.Pubkey {
	return types.FromPublicKey(common.CreateWithSeed(payer.ToPublicKey(), Seed(mint), tokenProgram.ToPublicKey()))
}

// CreateTokenAccount 以确定性 seed 创建 165 字节 token account 并初始化：
// 一次 create_account_with_seed + 一次 initialize_account3。
func CreateTokenAccount(host core.Host, accs Accounts) error {
	if accs.SystemProgram.Key != consts.SystemProgram {
		return core.ErrInvalidAccountState.With("system program %s", accs.SystemProgram.Key)
	}
	tokenProgram := accs.TokenProgram.Key
	if tokenProgram != consts.TokenProgram && tokenProgram != consts.TokenProgram2022 {
		return core.ErrInvalidAccountState.With("token program %s", tokenProgram)
	}

	seed := Seed(accs.Mint.Key)
	if expect := DeriveAddress(accs.Payer.Key, accs.Mint.Key, tokenProgram); expect != accs.NewAccount.Key {
		return core.ErrInvalidAccountState.With("new account %s, derived %s", accs.NewAccount.Key, expect)
	}

	lamports := host.MinimumBalance(consts.TokenAccountLen)
	create := system.CreateAccountWithSeed(system.CreateAccountWithSeedParam{
		From:     accs.Payer.Key.ToPublicKey(),
		New:      accs.NewAccount.Key.ToPublicKey(),
		Base:     accs.Payer.Key.ToPublicKey(),
		Owner:    tokenProgram.ToPublicKey(),
		Seed:     seed,
		Lamports: lamports,
		Space:    consts.TokenAccountLen,
	})
	if err := host.Invoke(create, []*core.AccountInfo{accs.Payer, accs.NewAccount, accs.SystemProgram}); err != nil {
		return err
	}

	initIx := sdktoken.InitializeAccount3(sdktoken.InitializeAccount3Param{
		Account: accs.NewAccount.Key.ToPublicKey(),
		Mint:    accs.Mint.Key.ToPublicKey(),
		Owner:   accs.Payer.Key.ToPublicKey(),
	})
	initIx.ProgramID = tokenProgram.ToPublicKey()
	if err := host.Invoke(initIx, []*core.AccountInfo{accs.NewAccount, accs.Mint, accs.TokenProgram}); err != nil {
		return err
	}

	logger.Infof("[provision:CreateTokenAccount] created %s for mint %s seed=%s rent=%d", accs.NewAccount.Key, accs.Mint.Key, seed, lamports)
	return nil
}
