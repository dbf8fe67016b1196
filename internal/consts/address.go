package consts

import "arb-router-sol/internal/types"

// Base58 地址常量（可读性高，适合配置与日志使用）
const (
	//  Programs
	SystemProgramStr          = "11111111111111111111111111111111"
	TokenProgramStr           = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	TokenProgram2022Str       = "TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb"
	AssociatedTokenProgramStr = "ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL"
	MemoProgramStr            = "MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr"

	// 原生 SOL 的 SPL 包装 mint
	WSOLMintStr = "So11111111111111111111111111111111111111112"
	USDCMintStr = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"

	// DEX: Meteora
	MeteoraDLMMProgramStr = "LBUZKhRxPF3XUpBCjp4YzTKgLccjZhTSDM9YuVaPwxo"
	MeteoraAMMProgramStr  = "Eo7WjKq67rjJQSZxS6z3YkapzY3eMj6Xy8X5EQVn5UaB"

	// DEX: spl token-swap 系（共用同一套账户布局）
	OrcaTokenSwapV2ProgramStr = "9W959DqEETiGZocYWCQPaJ6sBmUzgfxXfqGeTEdp3aQP"
	FluxbeamProgramStr        = "FLUXubRmkEi2q6K3Y9kBPg9248ggaZVsoSFhtJHSrm1X"
	SaberProgramStr           = "SSwapUtytfBdBn1b9NUGG6foMVPtcWgpRU32HToDUZr"
	SarosProgramStr           = "SSwpkEEcbUqx4vtoEByFjSkhKdCT862DNVb52nZg1UZ"
	StepNProgramStr           = "Dooar9JkhdZ7J3LHN3A7YCuoGRUggXhQaG4kijfLGU2j"
	PenguinProgramStr         = "PSwapMdSai8tjrEXcxFeQth87xC4rRsa4VA5mhGhXkP"

	// DEX: Orca
	OrcaWhirlpoolProgramStr       = "whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc"
	OrcaWhirlpoolLegacyProgramStr = "DjVE6JNiYqPL2QXyCUUh8rNjHrbz9hXHNYt99MQ59qw1"

	// DEX: Raydium
	RaydiumCLMMProgramStr         = "CAMMCzo5YL8w4VFF8KVHrK22GGUsp5VTaW7grrKgrWqK"
	RaydiumCLMMOpenbookProgramStr = "T1pyyaTNZsKv2WcRAB8oVnk93mLJw2XzjtVYqCsaHqt"
	RaydiumCLMM2wT8ProgramStr     = "2wT8Yq49kHgDzXuPxZSaeLaH1qbmGXtEyPy64bL7aD3c"
	RaydiumV4ProgramStr           = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"
	RaydiumCPMMProgramStr         = "CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C"
	RaydiumCPAMMProgramStr        = "cpamdpZCGKUy5JxQXB4dcpGPiikHawvSWAd6mEn1sGG"

	// DEX: PumpFun
	PumpFunAMMProgramStr = "pAMMBay6oceH9fJKBRHGP5D4bD4sWpmSwMn52FMfXEA"

	// DEX: 其他
	PancakeSwapProgramStr = "HpNfyc2Saw7RKkQd8nEL4khUcuPhQ7WwY1B2qjx8jxFq"
	ByrealProgramStr      = "REALQqNEomY6cQGZJUGwywTBD2UmDT32rZcNnfxQ5N2"
	FutarchyProgramStr    = "FUTARELBfJfQ8RDGhg1wdhddq1odMAJUePHFuBYfUxKq"
	FusionProgramStr      = "fUSioN9YKKSa3CUC2YUc4tPkHJ5Y6XW1yz8y6F7qWz9"
)

var (
	// Programs
	SystemProgram          = types.PubkeyFromBase58(SystemProgramStr)
	TokenProgram           = types.PubkeyFromBase58(TokenProgramStr)
	TokenProgram2022       = types.PubkeyFromBase58(TokenProgram2022Str)
	AssociatedTokenProgram = types.PubkeyFromBase58(AssociatedTokenProgramStr)
	MemoProgram            = types.PubkeyFromBase58(MemoProgramStr)

	WSOLMint = types.PubkeyFromBase58(WSOLMintStr)
	USDCMint = types.PubkeyFromBase58(USDCMintStr)

	// DEX Program
	MeteoraDLMMProgram         = types.PubkeyFromBase58(MeteoraDLMMProgramStr)
	MeteoraAMMProgram          = types.PubkeyFromBase58(MeteoraAMMProgramStr)
	OrcaTokenSwapV2Program     = types.PubkeyFromBase58(OrcaTokenSwapV2ProgramStr)
	FluxbeamProgram            = types.PubkeyFromBase58(FluxbeamProgramStr)
	SaberProgram               = types.PubkeyFromBase58(SaberProgramStr)
	SarosProgram               = types.PubkeyFromBase58(SarosProgramStr)
	StepNProgram               = types.PubkeyFromBase58(StepNProgramStr)
	PenguinProgram             = types.PubkeyFromBase58(PenguinProgramStr)
	OrcaWhirlpoolProgram       = types.PubkeyFromBase58(OrcaWhirlpoolProgramStr)
	OrcaWhirlpoolLegacyProgram = types.PubkeyFromBase58(OrcaWhirlpoolLegacyProgramStr)
	RaydiumCLMMProgram         = types.PubkeyFromBase58(RaydiumCLMMProgramStr)
	RaydiumCLMMOpenbookProgram = types.PubkeyFromBase58(RaydiumCLMMOpenbookProgramStr)
	RaydiumCLMM2wT8Program     = types.PubkeyFromBase58(RaydiumCLMM2wT8ProgramStr)
	RaydiumV4Program           = types.PubkeyFromBase58(RaydiumV4ProgramStr)
	RaydiumCPMMProgram         = types.PubkeyFromBase58(RaydiumCPMMProgramStr)
	RaydiumCPAMMProgram        = types.PubkeyFromBase58(RaydiumCPAMMProgramStr)
	PumpFunAMMProgram          = types.PubkeyFromBase58(PumpFunAMMProgramStr)
	PancakeSwapProgram         = types.PubkeyFromBase58(PancakeSwapProgramStr)
	ByrealProgram              = types.PubkeyFromBase58(ByrealProgramStr)
	FutarchyProgram            = types.PubkeyFromBase58(FutarchyProgramStr)
	FusionProgram              = types.PubkeyFromBase58(FusionProgramStr)
)
