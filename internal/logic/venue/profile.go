package venue

import (
	"arb-router-sol/internal/consts"
	"arb-router-sol/internal/logic/core"
	"arb-router-sol/internal/logic/hop"
	"arb-router-sol/internal/types"
)

// Role 账户在外部调用中的权限
type Role uint8

const (
	Readonly Role = iota
	Mutable
	Signer // signer + writable
)

func (r Role) Writable() bool { return r != Readonly }
func (r Role) Signer() bool   { return r == Signer }

// Profile 描述一族场地共享的调用形态：账户角色布局、payload 编码、
// 以及用户输入/输出 token 账户在布局中的位置。
type Profile struct {
	Family int
	Roles  []Role

	// Variable 为 true 时允许 hop 追加 extra 个 Mutable 账户（bin array / tick array）
	Variable bool

	// UserA / UserB 是用户 A、B 两侧 token 账户在 Roles 中的下标。
	// 非方向性场地（source/destination 布局）的 A 固定为输入、B 固定为输出。
	UserA       int
	UserB       int
	Directional bool

	Codec Codec
}

func (p *Profile) Name() string {
	return consts.DexName(p.Family)
}

// UserAccounts 返回给定方向下用户输入、输出账户在 Roles 中的下标
func (p *Profile) UserAccounts(d hop.Direction) (in, out int) {
	if !p.Directional || d == hop.AToB {
		return p.UserA, p.UserB
	}
	return p.UserB, p.UserA
}

// Arity 返回 hop 占用的账户数：program + roles + extra (+ mint, hook program)
func (p *Profile) Arity(step hop.Step) (int, error) {
	if step.Extra > 0 && !p.Variable {
		return 0, core.ErrInvalidHopConfig.With("%s takes no extra accounts, got %d", p.Name(), step.Extra)
	}
	n := 1 + len(p.Roles) + int(step.Extra)
	if step.Hooked {
		n += 2
	}
	return n, nil
}

// Entry 是场地表中的一行
type Entry struct {
	Identity types.Pubkey
	Label    string
	Profile  *Profile
}

// Lookup 按顺序线性扫描，首个匹配生效
func Lookup(identity types.Pubkey) (*Entry, bool) {
	for i := range table {
		if table[i].Identity == identity {
			return &table[i], true
		}
	}
	return nil, false
}

// Entries 返回场地表副本（按优先级顺序）
func Entries() []Entry {
	out := make([]Entry, len(table))
	copy(out, table)
	return out
}

var (
	meteoraDLMM = &Profile{
		Family: consts.DexMeteoraDLMM,
		// lb_pair, bitmap_ext, reserve_x, reserve_y, user_in, user_out, mint_x, mint_y,
		// oracle, host_fee_in, user, token_x_program, token_y_program, memo, event_authority, program
		Roles: []Role{
			Mutable, Readonly, Mutable, Mutable, Mutable, Mutable, Readonly, Readonly,
			Mutable, Readonly, Signer, Readonly, Readonly, Readonly, Readonly, Readonly,
		},
		Variable: true,
		UserA:    4,
		UserB:    5,
		Codec:    dlmmCodec,
	}

	tokenSwap = &Profile{
		Family: consts.DexTokenSwap,
		// swap, authority, user_transfer_authority, source, pool_source, pool_destination,
		// destination, pool_mint, fee_account, token_program
		Roles: []Role{
			Readonly, Readonly, Signer, Mutable, Mutable, Mutable,
			Mutable, Mutable, Mutable, Readonly,
		},
		UserA: 3,
		UserB: 6,
		Codec: tokenSwapCodec,
	}

	orcaWhirlpool = &Profile{
		Family: consts.DexOrcaWhirlpool,
		// token_program, token_authority, whirlpool, owner_a, vault_a, owner_b, vault_b,
		// tick_array_0, tick_array_1, tick_array_2, oracle
		Roles: []Role{
			Readonly, Signer, Mutable, Mutable, Mutable, Mutable, Mutable,
			Mutable, Mutable, Mutable, Mutable,
		},
		UserA:       3,
		UserB:       5,
		Directional: true,
		Codec:       whirlpoolCodec,
	}

	raydiumCLMM = &Profile{
		Family: consts.DexRaydiumCLMM,
		// payer, amm_config, pool_state, input_token_account, output_token_account,
		// input_vault, output_vault, observation_state, token_program, token_program_2022,
		// memo_program, input_vault_mint, output_vault_mint
		Roles: []Role{
			Signer, Readonly, Mutable, Mutable, Mutable, Mutable, Mutable,
			Mutable, Readonly, Readonly, Readonly, Readonly, Readonly,
		},
		UserA: 3,
		UserB: 4,
		Codec: clmmV2Codec,
	}

	raydiumV4 = &Profile{
		Family: consts.DexRaydiumV4,
		// token_program, amm, amm_authority, open_orders, target_orders, pool_coin, pool_pc,
		// serum_program, serum_market, bids, asks, event_queue, serum_coin_vault,
		// serum_pc_vault, serum_vault_signer, user_source, user_destination, user_owner
		Roles: []Role{
			Readonly, Mutable, Readonly, Mutable, Mutable, Mutable, Mutable,
			Readonly, Mutable, Mutable, Mutable, Mutable, Mutable,
			Mutable, Readonly, Mutable, Mutable, Signer,
		},
		UserA: 15,
		UserB: 16,
		Codec: raydiumV4Codec,
	}

	raydiumCPMM = &Profile{
		Family: consts.DexRaydiumCPMM,
		// payer, authority, amm_config, pool_state, input_token_account, output_token_account,
		// input_vault, output_vault, input_token_program, output_token_program,
		// input_token_mint, output_token_mint, observation_state
		Roles: []Role{
			Signer, Readonly, Readonly, Mutable, Mutable, Mutable, Mutable,
			Mutable, Readonly, Readonly, Readonly, Readonly, Mutable,
		},
		UserA: 4,
		UserB: 5,
		Codec: cpmmCodec,
	}

	pumpfunAMM = &Profile{
		Family: consts.DexPumpfunAMM,
		// pool, user, global_config, base_mint, quote_mint, user_base, user_quote,
		// pool_base, pool_quote, fee_recipient, fee_recipient_ata, base_token_program,
		// quote_token_program, system_program, associated_token_program, event_authority, program
		Roles: []Role{
			Readonly, Signer, Readonly, Readonly, Readonly, Mutable, Mutable,
			Mutable, Mutable, Readonly, Mutable, Readonly,
			Readonly, Readonly, Readonly, Readonly, Readonly,
		},
		UserA:       5,
		UserB:       6,
		Directional: true,
		Codec:       pumpSwapCodec,
	}

	pancakeCLMM = &Profile{
		Family: consts.DexPancakeCLMM,
		Roles:  raydiumCLMM.Roles,
		UserA:  3,
		UserB:  4,
		Codec:  clmmV2Codec,
	}

	byrealCLMM = &Profile{
		Family: consts.DexByrealCLMM,
		// payer, amm_config, pool_state, input_token_account, output_token_account,
		// input_vault, output_vault, observation_state, token_program, tick_array x3
		Roles: []Role{
			Signer, Readonly, Mutable, Mutable, Mutable, Mutable,
			Mutable, Mutable, Readonly, Mutable, Mutable, Mutable,
		},
		UserA: 3,
		UserB: 4,
		Codec: clmmV1Codec,
	}

	futarchy = &Profile{
		Family: consts.DexFutarchy,
		// user, dao, amm, user_base, user_quote, amm_base_vault, amm_quote_vault,
		// base_mint, quote_mint, token_program, token_program_2022,
		// associated_token_program, system_program, event_authority, program
		Roles: []Role{
			Signer, Mutable, Mutable, Mutable, Mutable, Mutable, Mutable,
			Readonly, Readonly, Readonly, Readonly,
			Readonly, Readonly, Readonly, Readonly,
		},
		UserA:       3,
		UserB:       4,
		Directional: true,
		Codec:       futarchyCodec,
	}

	fusion = &Profile{
		Family: consts.DexFusion,
		// token_program_a, token_program_b, memo_program, token_authority, fusion_pool,
		// mint_a, mint_b, owner_a, vault_a, owner_b, vault_b, tick_array x3, oracle
		Roles: []Role{
			Readonly, Readonly, Readonly, Signer, Mutable,
			Readonly, Readonly, Mutable, Mutable, Mutable, Mutable,
			Mutable, Mutable, Mutable, Mutable,
		},
		UserA:       7,
		UserB:       9,
		Directional: true,
		Codec:       whirlpoolCodec,
	}

	meteoraAMM = &Profile{
		Family: consts.DexMeteoraAMM,
		// pool, user_source, user_destination, a_vault, b_vault, a_token_vault, b_token_vault,
		// a_vault_lp_mint, b_vault_lp_mint, a_vault_lp, b_vault_lp, protocol_token_fee,
		// user, vault_program, token_program
		Roles: []Role{
			Mutable, Mutable, Mutable, Mutable, Mutable, Mutable, Mutable,
			Mutable, Mutable, Mutable, Mutable, Mutable,
			Signer, Readonly, Readonly,
		},
		UserA: 1,
		UserB: 2,
		Codec: meteoraAMMCodec,
	}
)

// table 按优先级排列，编译期固定
var table = []Entry{
	{Identity: consts.MeteoraDLMMProgram, Label: "Meteora DLMM", Profile: meteoraDLMM},
	{Identity: consts.OrcaTokenSwapV2Program, Label: "Orca Token Swap V2", Profile: tokenSwap},
	{Identity: consts.FluxbeamProgram, Label: "Fluxbeam", Profile: tokenSwap},
	{Identity: consts.SaberProgram, Label: "Saber", Profile: tokenSwap},
	{Identity: consts.SarosProgram, Label: "Saros", Profile: tokenSwap},
	{Identity: consts.StepNProgram, Label: "StepN", Profile: tokenSwap},
	{Identity: consts.PenguinProgram, Label: "Penguin", Profile: tokenSwap},
	{Identity: consts.OrcaWhirlpoolProgram, Label: "Orca Whirlpool", Profile: orcaWhirlpool},
	{Identity: consts.OrcaWhirlpoolLegacyProgram, Label: "Orca Whirlpool (legacy)", Profile: orcaWhirlpool},
	{Identity: consts.RaydiumCLMMProgram, Label: "Raydium CLMM", Profile: raydiumCLMM},
	{Identity: consts.RaydiumCLMMOpenbookProgram, Label: "Raydium CLMM (openbook)", Profile: raydiumCLMM},
	{Identity: consts.RaydiumCLMM2wT8Program, Label: "Raydium CLMM (2wT8)", Profile: raydiumCLMM},
	{Identity: consts.RaydiumV4Program, Label: "Raydium AMM V4", Profile: raydiumV4},
	{Identity: consts.RaydiumCPMMProgram, Label: "Raydium CPMM", Profile: raydiumCPMM},
	{Identity: consts.RaydiumCPAMMProgram, Label: "Raydium CP-AMM", Profile: raydiumCPMM},
	{Identity: consts.PumpFunAMMProgram, Label: "Pump.fun AMM", Profile: pumpfunAMM},
	{Identity: consts.PancakeSwapProgram, Label: "PancakeSwap", Profile: pancakeCLMM},
	{Identity: consts.ByrealProgram, Label: "Byreal CLMM", Profile: byrealCLMM},
	{Identity: consts.FutarchyProgram, Label: "Futarchy AMM", Profile: futarchy},
	{Identity: consts.FusionProgram, Label: "Fusion AMM", Profile: fusion},
	{Identity: consts.MeteoraAMMProgram, Label: "Meteora Dynamic AMM", Profile: meteoraAMM},
}
