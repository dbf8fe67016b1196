package report

import (
	"fmt"
)

// Status 执行结果
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// HopReport 单个原子 hop 的执行记录
type HopReport struct {
	Index     int    `json:"index"`
	Code      string `json:"code"`
	Venue     string `json:"venue"`
	AmountIn  uint64 `json:"amount_in"`
	AmountOut uint64 `json:"amount_out"`
}

// ExecutionReport 是一次 arb_swap 模拟执行的完整结果
type ExecutionReport struct {
	ID        string `json:"id"`
	Scenario  string `json:"scenario"`
	ProgramID string `json:"program_id"`
	Authority string `json:"authority"`
	Amount    uint64 `json:"amount"`
	Flags     uint16 `json:"flags"`

	Status    Status `json:"status"`
	ErrorCode uint32 `json:"error_code,omitempty"` // 程序错误码（60xx），基础设施错误为 0
	Error     string `json:"error,omitempty"`

	Hops    []HopReport `json:"hops,omitempty"`
	Initial uint64      `json:"initial"`
	Final   uint64      `json:"final"`
	Profit  uint64      `json:"profit"`
	Tip     uint64      `json:"tip"`

	Provisioned map[string]string `json:"provisioned,omitempty"` // mint -> 新建 token 账户
	Balances    map[string]uint64 `json:"balances,omitempty"`    // 执行后各命名账户余额
	Decimals    map[string]uint8  `json:"decimals,omitempty"`    // 命名 mint / token 账户的精度
	Logs        []string          `json:"logs"`
	CreatedAt   int64             `json:"created_at"` // unix ms
}

func (r *ExecutionReport) Succeeded() bool {
	return r.Status == StatusSuccess
}

// Summary 单行摘要，用于日志输出
func (r *ExecutionReport) Summary() string {
	if !r.Succeeded() {
		return fmt.Sprintf("scenario=%s status=%s code=%d err=%s", r.Scenario, r.Status, r.ErrorCode, r.Error)
	}
	return fmt.Sprintf("scenario=%s status=%s hops=%d initial=%d final=%d profit=%d tip=%d",
		r.Scenario, r.Status, len(r.Hops), r.Initial, r.Final, r.Profit, r.Tip)
}
