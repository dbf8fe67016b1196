package hop

import (
	"arb-router-sol/internal/logic/core"
)

// PackedLen 返回 numHops 个 nibble 所需字节数
func PackedLen(numHops int) int {
	return (numHops + 1) / 2
}

// Decode 把 numHops 个 nibble（低半字节在前）解码并展开为原子码序列。
// 结果长度 >= numHops，上界 2*numHops。
func Decode(numHops int, packed []byte) ([]Code, error) {
	if numHops <= 0 {
		return nil, core.ErrInvalidHopConfig.With("num_hops=%d", numHops)
	}
	if need := PackedLen(numHops); len(packed) < need {
		return nil, core.ErrInvalidInstructionData.With("hop bytes: have %d, need %d", len(packed), need)
	}

	out := make([]Code, 0, 2*numHops)
	for i := 0; i < numHops; i++ {
		b := packed[i/2]
		var c Code
		if i%2 == 0 {
			c = Code(b & 0x0F)
		} else {
			c = Code(b >> 4)
		}
		out = appendExpanded(out, c)
	}
	return out, nil
}

// Expand 展开显式给出的码序列（文本/场景输入），越界码返回 InvalidHopConfig
func Expand(codes []Code) ([]Code, error) {
	if len(codes) == 0 {
		return nil, core.ErrInvalidHopConfig.With("empty hop list")
	}
	out := make([]Code, 0, 2*len(codes))
	for i, c := range codes {
		if !c.Valid() {
			return nil, core.ErrInvalidHopConfig.With("hop %d: code 0x%02x out of range", i, uint8(c))
		}
		out = appendExpanded(out, c)
	}
	return out, nil
}

func appendExpanded(out []Code, c Code) []Code {
	if pair, ok := compounds[c]; ok {
		return append(out, pair[0], pair[1])
	}
	return append(out, c)
}

// Pack 是 Decode 的逆操作：把 nibble 码打包成字节，低半字节在前。
// 只有 0x0~0xF 可以打包。
func Pack(codes []Code) ([]byte, error) {
	if len(codes) == 0 || len(codes) > 0xFF {
		return nil, core.ErrInvalidHopConfig.With("hop count %d", len(codes))
	}
	out := make([]byte, PackedLen(len(codes)))
	for i, c := range codes {
		if c > MaxNibbleCode {
			return nil, core.ErrInvalidHopConfig.With("hop %d: code 0x%02x not nibble-encodable", i, uint8(c))
		}
		if i%2 == 0 {
			out[i/2] |= byte(c)
		} else {
			out[i/2] |= byte(c) << 4
		}
	}
	return out, nil
}
