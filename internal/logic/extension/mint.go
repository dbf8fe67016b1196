package extension

import (
	"encoding/binary"

	"arb-router-sol/internal/consts"
	"arb-router-sol/internal/logic/core"
	"arb-router-sol/internal/types"
)

// Record 是 mint 扩展区的一条 TLV 记录
type Record struct {
	Type    uint16
	Length  uint16
	Payload []byte
}

// Mint 是 mint 账户基础布局中程序关心的字段
type Mint struct {
	Supply        uint64
	Decimals      uint8
	IsInitialized bool
	Extensions    []Record
}

// FindTransferHook 扫描 mint 扩展区，返回第一个非零 transfer hook program。
// 只读，容忍截断的尾部：剩余不足 4 字节即停止，长度越界的记录直接结束扫描。
func FindTransferHook(mint []byte) (types.Pubkey, bool) {
	if len(mint) <= consts.MintBaseLen {
		return types.Pubkey{}, false
	}
	offset := consts.MintBaseLen
	for len(mint)-offset >= 4 {
		extType := binary.LittleEndian.Uint16(mint[offset:])
		extLen := int(binary.LittleEndian.Uint16(mint[offset+2:]))
		offset += 4
		if offset+extLen > len(mint) {
			break
		}
		if extType == consts.ExtTransferHook && extLen >= consts.TransferHookMinLen {
			hook, _ := types.PubkeyFromBytes(mint[offset+32 : offset+64])
			if !hook.IsZero() {
				return hook, true
			}
		}
		offset += extLen
	}
	return types.Pubkey{}, false
}

// UnpackMint 严格解析：基础布局不足 82 字节返回 MintUnpackError，
// 扩展区记录被截断返回 MintExtensionError。
func UnpackMint(data []byte) (*Mint, error) {
	if len(data) < consts.MintBaseLen {
		return nil, core.ErrMintUnpackError.With("mint data len %d", len(data))
	}
	m := &Mint{
		Supply:        binary.LittleEndian.Uint64(data[36:44]),
		Decimals:      data[consts.MintDecimalsOffset],
		IsInitialized: data[consts.MintInitializedFlag] != 0,
	}
	exts, err := ParseExtensions(data)
	if err != nil {
		return nil, err
	}
	m.Extensions = exts
	return m, nil
}

// ParseExtensions 解析 82 字节之后的全部 TLV 记录
func ParseExtensions(data []byte) ([]Record, error) {
	if len(data) < consts.MintBaseLen {
		return nil, core.ErrMintUnpackError.With("mint data len %d", len(data))
	}
	var out []Record
	offset := consts.MintBaseLen
	for offset < len(data) {
		if len(data)-offset < 4 {
			return nil, core.ErrMintExtensionError.With("truncated TLV header at %d", offset)
		}
		extType := binary.LittleEndian.Uint16(data[offset:])
		extLen := binary.LittleEndian.Uint16(data[offset+2:])
		offset += 4
		if offset+int(extLen) > len(data) {
			return nil, core.ErrMintExtensionError.With("extension %d len %d exceeds data at %d", extType, extLen, offset)
		}
		out = append(out, Record{Type: extType, Length: extLen, Payload: data[offset : offset+int(extLen)]})
		offset += int(extLen)
	}
	return out, nil
}

// Has 判断是否包含某类扩展
func (m *Mint) Has(extType uint16) bool {
	for _, r := range m.Extensions {
		if r.Type == extType {
			return true
		}
	}
	return false
}

// DecimalsOf 读取 mint 精度
func DecimalsOf(data []byte) (uint8, error) {
	if len(data) < consts.MintBaseLen {
		return 0, core.ErrMintUnpackError.With("mint data len %d", len(data))
	}
	return data[consts.MintDecimalsOffset], nil
}

// Encode 按 82 字节基础布局 + TLV 扩展区序列化 mint
func (m *Mint) Encode() []byte {
	n := consts.MintBaseLen
	for _, r := range m.Extensions {
		n += 4 + len(r.Payload)
	}
	data := make([]byte, consts.MintBaseLen, n)
	binary.LittleEndian.PutUint64(data[36:44], m.Supply)
	data[consts.MintDecimalsOffset] = m.Decimals
	if m.IsInitialized {
		data[consts.MintInitializedFlag] = 1
	}
	for _, r := range m.Extensions {
		var hdr [4]byte
		binary.LittleEndian.PutUint16(hdr[:], r.Type)
		binary.LittleEndian.PutUint16(hdr[2:], uint16(len(r.Payload)))
		data = append(data, hdr[:]...)
		data = append(data, r.Payload...)
	}
	return data
}

// TransferHookRecord 构造 transfer hook 扩展记录（authority 置零）
func TransferHookRecord(program types.Pubkey) Record {
	payload := make([]byte, consts.TransferHookMinLen)
	copy(payload[32:], program[:])
	return Record{Type: consts.ExtTransferHook, Length: consts.TransferHookMinLen, Payload: payload}
}
