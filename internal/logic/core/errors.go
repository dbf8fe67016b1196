package core

import "fmt"

// ProgramError 是程序终止错误，Code 与链上自定义错误码一致（6000 起）
type ProgramError struct {
	Code   uint32
	Name   string
	Msg    string
	Detail string
}

func (e *ProgramError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (%d): %s: %s", e.Name, e.Code, e.Msg, e.Detail)
	}
	return fmt.Sprintf("%s (%d): %s", e.Name, e.Code, e.Msg)
}

// Is 按错误码比较，带 Detail 的副本仍能与哨兵值匹配
func (e *ProgramError) Is(target error) bool {
	t, ok := target.(*ProgramError)
	return ok && t.Code == e.Code
}

// With 返回附带上下文信息的副本，不修改哨兵值
func (e *ProgramError) With(format string, args ...interface{}) *ProgramError {
	cp := *e
	cp.Detail = fmt.Sprintf(format, args...)
	return &cp
}

var (
	ErrInvalidInstructionData   = &ProgramError{Code: 6000, Name: "InvalidInstructionData", Msg: "invalid instruction data"}
	ErrNotProfitable            = &ProgramError{Code: 6001, Name: "NotProfitable", Msg: "arbitrage not profitable"}
	ErrInvalidHopConfig         = &ProgramError{Code: 6002, Name: "InvalidHopConfig", Msg: "invalid hop configuration"}
	ErrCalculationError         = &ProgramError{Code: 6003, Name: "CalculationError", Msg: "calculation error"}
	ErrInvalidAccountState      = &ProgramError{Code: 6004, Name: "InvalidAccountState", Msg: "invalid account state"}
	ErrMintUnpackError          = &ProgramError{Code: 6005, Name: "MintUnpackError", Msg: "failed to unpack mint"}
	ErrMintExtensionError       = &ProgramError{Code: 6006, Name: "MintExtensionError", Msg: "failed to read mint extension"}
	ErrTokenConstraintViolation = &ProgramError{Code: 6036, Name: "TokenConstraintViolation", Msg: "token constraint violated"}
)

// ErrorCode 提取 ProgramError 的错误码；非程序错误返回 0
func ErrorCode(err error) uint32 {
	for err != nil {
		if pe, ok := err.(*ProgramError); ok {
			return pe.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return 0
		}
		err = u.Unwrap()
	}
	return 0
}
