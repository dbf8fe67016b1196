package consts

// SPL token / mint 账户布局
const (
	TokenAccountLen     = 165 // spl token account 固定长度
	TokenAmountOffset   = 64  // account.amount (u64 LE) 偏移
	TokenAmountEnd      = TokenAmountOffset + 8
	TokenOwnerOffset    = 32
	TokenStateOffset    = 108 // 0 未初始化 / 1 已初始化 / 2 冻结
	MintBaseLen         = 82  // mint 基础布局长度，之后为 Token-2022 扩展 TLV 区
	MintDecimalsOffset  = 44
	MintInitializedFlag = 45
)

// Token-2022 扩展类型
const (
	ExtPermanentDelegate = 12
	ExtTransferHook      = 13
	TransferHookMinLen   = 64 // authority(32) + program id(32)
)

// 利润与小费
const (
	MinTipLamports     uint64 = 1000 // 小费下限
	TipRateDenominator        = 100
)

// create_token_account 派生参数
const (
	SeedHashBytes = 16 // sha256(mint) 截取字节数，hex 后为 32 字符 seed
)

// 租金：(128 + len) * lamports_per_byte_year * exemption_years
const (
	RentAccountStorageOverhead  = 128
	RentLamportsPerByteYear     = 3480
	RentExemptionThresholdYears = 2
)
