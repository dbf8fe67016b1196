package venue

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"arb-router-sol/internal/logic/hop"
	"github.com/near/borsh-go"
)

// Anchor 方法 ID（sha256("global:<name>")[:8]，按大端 uint64 书写）
const (
	Swap          uint64 = 0xf8c69e91e17587c8
	SwapV2        uint64 = 0x2b04ed0b1ac91e62
	Swap2         uint64 = 0x414b3f4ceb5b5b88
	SwapBaseInput uint64 = 0x8fbe5adac41e33de
	Buy           uint64 = 0x66063d1201daebea
	Sell          uint64 = 0x33e685a4017f83ad
)

// 非 Anchor 程序的单字节指令号
const (
	TokenSwapIxSwap   uint8 = 1
	RaydiumV4SwapBase uint8 = 9
)

var (
	minSqrtPrice    = big.NewInt(4295048016)
	maxSqrtPrice, _ = new(big.Int).SetString("79226673515401279992447579055", 10)
)

// SwapArgs 是 payload 中程序关心的两个量：方向与输入数量。
// 最小输出恒为 0，利润只在所有 hop 结束后统一校验。
type SwapArgs struct {
	Direction hop.Direction
	Amount    uint64
}

// Codec 把 SwapArgs 编码为场地指令数据，Decode 为其逆操作
type Codec struct {
	Encode func(args SwapArgs) ([]byte, error)
	Decode func(data []byte) (SwapArgs, error)
}

func disc(id uint64) [8]byte {
	var d [8]byte
	binary.BigEndian.PutUint64(d[:], id)
	return d
}

func checkDisc(got [8]byte, want uint64) error {
	if binary.BigEndian.Uint64(got[:]) != want {
		return fmt.Errorf("unexpected discriminator 0x%x, want 0x%x", got, want)
	}
	return nil
}

func decodeInto(data []byte, v interface{}) error {
	if err := borsh.Deserialize(v, data); err != nil {
		return fmt.Errorf("borsh decode: %w", err)
	}
	return nil
}

type remainingAccountsSlice struct {
	AccountsType uint8
	Length       uint8
}

type dlmmSwap2 struct {
	Disc                  [8]byte
	AmountIn              uint64
	MinAmountOut          uint64
	RemainingAccountsInfo []remainingAccountsSlice
}

var dlmmCodec = Codec{
	Encode: func(a SwapArgs) ([]byte, error) {
		return borsh.Serialize(dlmmSwap2{Disc: disc(Swap2), AmountIn: a.Amount, RemainingAccountsInfo: []remainingAccountsSlice{}})
	},
	Decode: func(data []byte) (SwapArgs, error) {
		var ix dlmmSwap2
		if err := decodeInto(data, &ix); err != nil {
			return SwapArgs{}, err
		}
		return SwapArgs{Amount: ix.AmountIn}, checkDisc(ix.Disc, Swap2)
	},
}

type splSwap struct {
	Tag          uint8
	AmountIn     uint64
	MinAmountOut uint64
}

func splCodec(tag uint8) Codec {
	return Codec{
		Encode: func(a SwapArgs) ([]byte, error) {
			return borsh.Serialize(splSwap{Tag: tag, AmountIn: a.Amount})
		},
		Decode: func(data []byte) (SwapArgs, error) {
			var ix splSwap
			if err := decodeInto(data, &ix); err != nil {
				return SwapArgs{}, err
			}
			if ix.Tag != tag {
				return SwapArgs{}, fmt.Errorf("unexpected instruction tag %d, want %d", ix.Tag, tag)
			}
			return SwapArgs{Amount: ix.AmountIn}, nil
		},
	}
}

var (
	tokenSwapCodec = splCodec(TokenSwapIxSwap)
	raydiumV4Codec = splCodec(RaydiumV4SwapBase)
)

type whirlpoolSwap struct {
	Disc                   [8]byte
	Amount                 uint64
	OtherAmountThreshold   uint64
	SqrtPriceLimit         big.Int
	AmountSpecifiedIsInput bool
	AToB                   bool
}

var whirlpoolCodec = Codec{
	Encode: func(a SwapArgs) ([]byte, error) {
		limit := maxSqrtPrice
		if a.Direction == hop.AToB {
			limit = minSqrtPrice
		}
		return borsh.Serialize(whirlpoolSwap{
			Disc:                   disc(Swap),
			Amount:                 a.Amount,
			SqrtPriceLimit:         *limit,
			AmountSpecifiedIsInput: true,
			AToB:                   a.Direction == hop.AToB,
		})
	},
	Decode: func(data []byte) (SwapArgs, error) {
		var ix whirlpoolSwap
		if err := decodeInto(data, &ix); err != nil {
			return SwapArgs{}, err
		}
		dir := hop.BToA
		if ix.AToB {
			dir = hop.AToB
		}
		return SwapArgs{Direction: dir, Amount: ix.Amount}, checkDisc(ix.Disc, Swap)
	},
}

type clmmSwap struct {
	Disc                 [8]byte
	Amount               uint64
	OtherAmountThreshold uint64
	SqrtPriceLimitX64    big.Int
	IsBaseInput          bool
}

func clmmCodec(id uint64) Codec {
	return Codec{
		Encode: func(a SwapArgs) ([]byte, error) {
			return borsh.Serialize(clmmSwap{Disc: disc(id), Amount: a.Amount, IsBaseInput: true})
		},
		Decode: func(data []byte) (SwapArgs, error) {
			var ix clmmSwap
			if err := decodeInto(data, &ix); err != nil {
				return SwapArgs{}, err
			}
			return SwapArgs{Amount: ix.Amount}, checkDisc(ix.Disc, id)
		},
	}
}

var (
	clmmV1Codec = clmmCodec(Swap)
	clmmV2Codec = clmmCodec(SwapV2)
)

type exactInSwap struct {
	Disc         [8]byte
	AmountIn     uint64
	MinAmountOut uint64
}

func exactInCodec(id uint64) Codec {
	return Codec{
		Encode: func(a SwapArgs) ([]byte, error) {
			return borsh.Serialize(exactInSwap{Disc: disc(id), AmountIn: a.Amount})
		},
		Decode: func(data []byte) (SwapArgs, error) {
			var ix exactInSwap
			if err := decodeInto(data, &ix); err != nil {
				return SwapArgs{}, err
			}
			return SwapArgs{Amount: ix.AmountIn}, checkDisc(ix.Disc, id)
		},
	}
}

var (
	cpmmCodec       = exactInCodec(SwapBaseInput)
	meteoraAMMCodec = exactInCodec(Swap)
)

// pumpSwap: sell = (base_amount_in, min_quote_amount_out)，
// buy 走报价币输入 = (base_amount_out 下限 0, max_quote_amount_in)
type pumpSwap struct {
	Disc   [8]byte
	First  uint64
	Second uint64
}

var pumpSwapCodec = Codec{
	Encode: func(a SwapArgs) ([]byte, error) {
		if a.Direction == hop.AToB {
			return borsh.Serialize(pumpSwap{Disc: disc(Sell), First: a.Amount})
		}
		return borsh.Serialize(pumpSwap{Disc: disc(Buy), Second: a.Amount})
	},
	Decode: func(data []byte) (SwapArgs, error) {
		var ix pumpSwap
		if err := decodeInto(data, &ix); err != nil {
			return SwapArgs{}, err
		}
		switch binary.BigEndian.Uint64(ix.Disc[:]) {
		case Sell:
			return SwapArgs{Direction: hop.AToB, Amount: ix.First}, nil
		case Buy:
			return SwapArgs{Direction: hop.BToA, Amount: ix.Second}, nil
		default:
			return SwapArgs{}, fmt.Errorf("unexpected pump swap discriminator 0x%x", ix.Disc)
		}
	},
}

const (
	futarchyBuy  uint8 = 0
	futarchySell uint8 = 1
)

type futarchySwap struct {
	Disc            [8]byte
	SwapType        uint8
	InputAmount     uint64
	OutputAmountMin uint64
}

var futarchyCodec = Codec{
	Encode: func(a SwapArgs) ([]byte, error) {
		swapType := futarchyBuy
		if a.Direction == hop.AToB {
			swapType = futarchySell
		}
		return borsh.Serialize(futarchySwap{Disc: disc(Swap), SwapType: swapType, InputAmount: a.Amount})
	},
	Decode: func(data []byte) (SwapArgs, error) {
		var ix futarchySwap
		if err := decodeInto(data, &ix); err != nil {
			return SwapArgs{}, err
		}
		dir := hop.BToA
		if ix.SwapType == futarchySell {
			dir = hop.AToB
		}
		return SwapArgs{Direction: dir, Amount: ix.InputAmount}, checkDisc(ix.Disc, Swap)
	},
}
