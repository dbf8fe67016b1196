package core

import (
	"arb-router-sol/internal/types"
)

// AccountInfo 是传入程序的账户视图。Data / Lamports 可被外部调用修改，
// 因此余额每次都要重新读取，不做缓存。
type AccountInfo struct {
	Key        types.Pubkey
	Owner      types.Pubkey
	Lamports   uint64
	Data       []byte
	IsSigner   bool
	IsWritable bool
	Executable bool
}

// Clone 深拷贝（Data 独立），供宿主做事务性执行
func (a *AccountInfo) Clone() *AccountInfo {
	cp := *a
	if a.Data != nil {
		cp.Data = make([]byte, len(a.Data))
		copy(cp.Data, a.Data)
	}
	return &cp
}

// FindAccount 按地址在账户列表中查找
func FindAccount(accounts []*AccountInfo, key types.Pubkey) *AccountInfo {
	for _, acc := range accounts {
		if acc.Key == key {
			return acc
		}
	}
	return nil
}
