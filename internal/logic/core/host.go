package core

import (
	"arb-router-sol/internal/types"
	sdktypes "github.com/blocto/solana-go-sdk/types"
)

// Host 是程序运行所依赖的宿主环境：外部调用（CPI）、租金、日志。
// 账户加载、签名校验、整笔指令的原子提交/回滚都由宿主负责。
type Host interface {
	// Invoke 执行一次外部程序调用。accounts 为调用方可见的账户集合，
	// ix.Accounts 中引用的地址必须都在其中。
	Invoke(ix sdktypes.Instruction, accounts []*AccountInfo) error

	// MinimumBalance 返回 dataLen 字节账户免租所需 lamports
	MinimumBalance(dataLen uint64) uint64

	// Log 写程序日志
	Log(msg string)
}

// Program 是可被宿主调用的链上程序入口
type Program interface {
	Process(host Host, programID types.Pubkey, accounts []*AccountInfo, data []byte) error
}

// ProgramFunc 适配普通函数为 Program
type ProgramFunc func(host Host, programID types.Pubkey, accounts []*AccountInfo, data []byte) error

func (f ProgramFunc) Process(host Host, programID types.Pubkey, accounts []*AccountInfo, data []byte) error {
	return f(host, programID, accounts, data)
}
