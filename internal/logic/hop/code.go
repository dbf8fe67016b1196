package hop

import "fmt"

// Direction 交换方向：AToB 表示用池子的 A 侧代币换 B 侧
type Direction uint8

const (
	AToB Direction = iota
	BToA
)

func (d Direction) String() string {
	if d == AToB {
		return "a_to_b"
	}
	return "b_to_a"
}

// Code 是单个 hop 的编码。0x0~0xF 可直接写进一个 nibble，
// 0x10~0x1A 只能由复合码展开得到。
type Code uint8

const (
	MaxNibbleCode Code = 0x0F
	MaxCode       Code = 0x1A
	// 第一个复合码，0x9~0xF 均为复合码
	firstCompound Code = 0x09
)

// Step 是原子码携带的 hop 元数据
type Step struct {
	Direction Direction
	Extra     uint8 // 额外账户数（DLMM bin array）
	Hooked    bool  // 输出 mint 带 transfer hook，需追加 [mint, hook program] 两个账户
}

var atomics = map[Code]Step{
	0x00: {Direction: AToB},
	0x01: {Direction: BToA},
	0x02: {Direction: AToB, Extra: 1},
	0x03: {Direction: BToA, Extra: 1},
	0x04: {Direction: AToB, Extra: 2},
	0x05: {Direction: BToA, Extra: 2},
	0x06: {Direction: AToB, Hooked: true},
	0x07: {Direction: BToA, Hooked: true},
	0x08: {Direction: AToB, Extra: 3},

	0x10: {Direction: BToA, Extra: 3},
	0x11: {Direction: AToB, Extra: 4},
	0x12: {Direction: BToA, Extra: 4},
	0x13: {Direction: AToB, Extra: 1, Hooked: true},
	0x14: {Direction: BToA, Extra: 1, Hooked: true},
	0x15: {Direction: AToB, Extra: 2, Hooked: true},
	0x16: {Direction: BToA, Extra: 2, Hooked: true},
	0x17: {Direction: AToB, Extra: 3, Hooked: true},
	0x18: {Direction: BToA, Extra: 3, Hooked: true},
	0x19: {Direction: AToB, Extra: 4, Hooked: true},
	0x1A: {Direction: BToA, Extra: 4, Hooked: true},
}

// 复合码固定展开为两个原子码，不递归
var compounds = map[Code][2]Code{
	0x09: {0x00, 0x01},
	0x0A: {0x01, 0x00},
	0x0B: {0x02, 0x01},
	0x0C: {0x01, 0x02},
	0x0D: {0x06, 0x01},
	0x0E: {0x10, 0x00},
	0x0F: {0x11, 0x12},
}

func (c Code) Valid() bool {
	return c <= MaxCode
}

func (c Code) IsCompound() bool {
	_, ok := compounds[c]
	return ok
}

// Step 返回原子码的元数据；复合码或越界码返回 false
func (c Code) Step() (Step, bool) {
	s, ok := atomics[c]
	return s, ok
}

func (c Code) String() string {
	if s, ok := atomics[c]; ok {
		suffix := ""
		if s.Hooked {
			suffix = "+hook"
		}
		return fmt.Sprintf("0x%02x(%s,extra=%d%s)", uint8(c), s.Direction, s.Extra, suffix)
	}
	if pair, ok := compounds[c]; ok {
		return fmt.Sprintf("0x%02x[%s %s]", uint8(c), pair[0], pair[1])
	}
	return fmt.Sprintf("0x%02x(invalid)", uint8(c))
}
