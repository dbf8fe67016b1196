package processor

import (
	"encoding/binary"

	"arb-router-sol/internal/logic/core"
	"arb-router-sol/internal/logic/hop"
)

// 指令 tag（首字节）
const (
	TagArbSwap            byte = 0x00
	TagCreateTokenAccount byte = 0x02
)

// arb_swap 固定头：[hop_count:1][amount:8 LE][flags:2 LE]
const arbSwapHeaderLen = 1 + 8 + 2

// 账户约定
const (
	arbSwapFixedAccounts = 3 // authority, source, destination
	arbSwapTailAccounts  = 2 // system program, tip recipient
	createAccountCount   = 5
)

// ArbSwapArgs 是解码后的 arb_swap 参数
type ArbSwapArgs struct {
	NumHops uint8
	Amount  uint64
	Flags   uint16
	Hops    []hop.Code // 展开后的原子码
}

// TipRate flags 低字节：小费比例分子（/100）
func (a ArbSwapArgs) TipRate() uint8 {
	return uint8(a.Flags & 0xFF)
}

// MinProfit 利润阈值，取整个 flags
func (a ArbSwapArgs) MinProfit() uint64 {
	return uint64(a.Flags)
}

// ParseArbSwap 解析 tag 之后的 arb_swap 载荷
func ParseArbSwap(payload []byte) (ArbSwapArgs, error) {
	if len(payload) < arbSwapHeaderLen {
		return ArbSwapArgs{}, core.ErrInvalidInstructionData.With("arb_swap payload len %d", len(payload))
	}
	args := ArbSwapArgs{
		NumHops: payload[0],
		Amount:  binary.LittleEndian.Uint64(payload[1:9]),
		Flags:   binary.LittleEndian.Uint16(payload[9:11]),
	}
	codes, err := hop.Decode(int(args.NumHops), payload[arbSwapHeaderLen:])
	if err != nil {
		return ArbSwapArgs{}, err
	}
	args.Hops = codes
	return args, nil
}

// EncodeArbSwap 生成完整指令数据（含 tag），hops 为 nibble 码
func EncodeArbSwap(amount uint64, flags uint16, hops []hop.Code) ([]byte, error) {
	packed, err := hop.Pack(hops)
	if err != nil {
		return nil, err
	}
	data := make([]byte, 1+arbSwapHeaderLen, 1+arbSwapHeaderLen+len(packed))
	data[0] = TagArbSwap
	data[1] = uint8(len(hops))
	binary.LittleEndian.PutUint64(data[2:10], amount)
	binary.LittleEndian.PutUint16(data[10:12], flags)
	return append(data, packed...), nil
}
