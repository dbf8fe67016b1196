package consts

// 场地（venue）协议族：同一族内的 program 共享账户布局与 payload 编码
const (
	DexMeteoraDLMM   = iota + 1 // 1
	DexTokenSwap                // 2
	DexOrcaWhirlpool            // 3
	DexRaydiumCLMM              // 4
	DexRaydiumV4                // 5
	DexRaydiumCPMM              // 6
	DexPumpfunAMM               // 7
	DexPancakeCLMM              // 8
	DexByrealCLMM               // 9
	DexFutarchy                 // 10
	DexFusion                   // 11
	DexMeteoraAMM               // 12
)

var DexNames = []string{
	"Unknown",       // 0 (保留)
	"MeteoraDLMM",   // 1
	"TokenSwap",     // 2
	"OrcaWhirlpool", // 3
	"RaydiumCLMM",   // 4
	"RaydiumV4",     // 5
	"RaydiumCPMM",   // 6
	"PumpfunAMM",    // 7
	"PancakeCLMM",   // 8
	"ByrealCLMM",    // 9
	"Futarchy",      // 10
	"Fusion",        // 11
	"MeteoraAMM",    // 12
}

func DexName(dex int) string {
	if dex >= 1 && dex < len(DexNames) {
		return DexNames[dex]
	}
	return DexNames[0] // Unknown
}
