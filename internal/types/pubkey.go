package types

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/mr-tron/base58"
)

// Pubkey 是 32 字节账户地址，账户表、场地表、报告都以它作为主键
type Pubkey [32]byte

func (p Pubkey) String() string {
	return base58.Encode(p[:])
}

// IsZero 全零地址（例如 transfer hook 扩展中未设置的 program id）
func (p Pubkey) IsZero() bool {
	return p == Pubkey{}
}

// ToPublicKey 转换为 SDK 的 PublicKey，用于构造外部调用指令
func (p Pubkey) ToPublicKey() common.PublicKey {
	return common.PublicKey(p)
}

func FromPublicKey(k common.PublicKey) Pubkey {
	return Pubkey(k)
}

// PubkeyFromBytes 从切片前 32 字节构造 Pubkey，长度不足时返回 false
func PubkeyFromBytes(b []byte) (Pubkey, bool) {
	var p Pubkey
	if len(b) < 32 {
		return p, false
	}
	copy(p[:], b[:32])
	return p, true
}

// MarshalText 使报告/场景文件中的地址以 base58 文本形式出现
func (p Pubkey) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Pubkey) UnmarshalText(text []byte) error {
	k, err := TryPubkeyFromBase58(string(text))
	if err != nil {
		return err
	}
	*p = k
	return nil
}

// TryPubkeyFromBase58 解析 base58 字符串为 Pubkey，失败时返回 error（用于不信任输入路径）
func TryPubkeyFromBase58(s string) (Pubkey, error) {
	data, err := base58.Decode(s)
	if err != nil {
		return Pubkey{}, fmt.Errorf("failed to decode base58 pubkey %q: %w", s, err)
	}
	if len(data) != 32 {
		return Pubkey{}, fmt.Errorf("invalid pubkey length: got %d, want 32, input=%q", len(data), s)
	}
	var p Pubkey
	copy(p[:], data)
	return p, nil
}

func PubkeyFromBase58(s string) Pubkey {
	p, err := TryPubkeyFromBase58(s)
	if err != nil {
		panic(err)
	}
	return p
}
