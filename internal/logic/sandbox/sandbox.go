package sandbox

import (
	"errors"
	"fmt"

	"arb-router-sol/internal/consts"
	"arb-router-sol/internal/logic/core"
	"arb-router-sol/internal/pkg/logger"
	"arb-router-sol/internal/types"
	sdktypes "github.com/blocto/solana-go-sdk/types"
)

const maxInvokeDepth = 4

var (
	ErrProgramNotFound     = errors.New("program not found")
	ErrMissingAccount      = errors.New("missing account")
	ErrPrivilegeEscalation = errors.New("privilege escalation")
	ErrReadonlyModified    = errors.New("readonly account modified")
	ErrInvokeDepth         = errors.New("max invoke depth exceeded")
)

// Sandbox 是内存账本，实现整笔指令的原子执行：
// 执行期间所有修改落在工作集上，成功才提交，失败整体丢弃。
type Sandbox struct {
	accounts map[types.Pubkey]*core.AccountInfo
	programs map[types.Pubkey]core.Program
}

// New 创建沙箱，并注册内置 system / token / token-2022 程序
func New() *Sandbox {
	s := &Sandbox{
		accounts: make(map[types.Pubkey]*core.AccountInfo),
		programs: make(map[types.Pubkey]core.Program),
	}
	s.Register(consts.SystemProgram, core.ProgramFunc(processSystem))
	s.Register(consts.TokenProgram, core.ProgramFunc(processToken))
	s.Register(consts.TokenProgram2022, core.ProgramFunc(processToken))
	return s
}

// Register 注册程序，并写入对应的可执行账户
func (s *Sandbox) Register(id types.Pubkey, p core.Program) {
	s.programs[id] = p
	if _, ok := s.accounts[id]; !ok {
		s.accounts[id] = &core.AccountInfo{Key: id, Lamports: 1, Executable: true}
	}
}

// SetAccount 写入（覆盖）一个账户
func (s *Sandbox) SetAccount(acc *core.AccountInfo) {
	s.accounts[acc.Key] = acc.Clone()
}

// Account 返回账户副本
func (s *Sandbox) Account(key types.Pubkey) (*core.AccountInfo, bool) {
	acc, ok := s.accounts[key]
	if !ok {
		return nil, false
	}
	return acc.Clone(), true
}

// MinimumBalance 免租最低余额：(128 + len) * 3480 * 2
func MinimumBalance(dataLen uint64) uint64 {
	return (consts.RentAccountStorageOverhead + dataLen) * consts.RentLamportsPerByteYear * consts.RentExemptionThresholdYears
}

// Execute 以原子方式执行一条顶层指令，返回程序日志。
// signers 中的地址在顶层视为已签名。
func (s *Sandbox) Execute(ix sdktypes.Instruction, signers ...types.Pubkey) ([]string, error) {
	tx := &txHost{sandbox: s, working: make(map[types.Pubkey]*core.AccountInfo)}
	signed := make(map[types.Pubkey]bool, len(signers))
	for _, k := range signers {
		signed[k] = true
	}

	programID := types.FromPublicKey(ix.ProgramID)
	accounts := make([]*core.AccountInfo, 0, len(ix.Accounts)+1)
	for _, meta := range ix.Accounts {
		key := types.FromPublicKey(meta.PubKey)
		if meta.IsSigner && !signed[key] {
			return nil, fmt.Errorf("%w: %s is not a transaction signer", ErrPrivilegeEscalation, key)
		}
		acc := tx.load(key)
		// 同一账户多次出现时共享同一视图，权限取并集
		acc.IsSigner = acc.IsSigner || meta.IsSigner
		acc.IsWritable = acc.IsWritable || meta.IsWritable
		accounts = append(accounts, acc)
	}

	err := tx.run(programID, accounts, ix.Data)
	if err != nil {
		logger.Warnf("[sandbox:Execute] program=%s failed: %v", programID, err)
		return tx.logs, err
	}
	for key, acc := range tx.working {
		acc.IsSigner, acc.IsWritable = false, false
		s.accounts[key] = acc
	}
	return tx.logs, nil
}

// txHost 是单笔指令执行期间的宿主，实现 core.Host
type txHost struct {
	sandbox *Sandbox
	working map[types.Pubkey]*core.AccountInfo
	logs    []string
	depth   int
}

var _ core.Host = (*txHost)(nil)

func (h *txHost) load(key types.Pubkey) *core.AccountInfo {
	if acc, ok := h.working[key]; ok {
		return acc
	}
	var acc *core.AccountInfo
	if committed, ok := h.sandbox.accounts[key]; ok {
		acc = committed.Clone()
	} else {
		acc = &core.AccountInfo{Key: key, Owner: consts.SystemProgram}
	}
	acc.IsSigner, acc.IsWritable = false, false
	h.working[key] = acc
	return acc
}

func (h *txHost) run(programID types.Pubkey, accounts []*core.AccountInfo, data []byte) error {
	program, ok := h.sandbox.programs[programID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrProgramNotFound, programID)
	}
	if h.depth >= maxInvokeDepth {
		return ErrInvokeDepth
	}
	h.depth++
	defer func() { h.depth-- }()

	h.logs = append(h.logs, fmt.Sprintf("Program %s invoke [%d]", programID, h.depth))
	if err := program.Process(h, programID, accounts, data); err != nil {
		h.logs = append(h.logs, fmt.Sprintf("Program %s failed: %v", programID, err))
		return err
	}
	h.logs = append(h.logs, fmt.Sprintf("Program %s success", programID))
	return nil
}

// Invoke 执行外部调用。被调用方只能得到调用方已有的权限；
// 只读账户在调用后若有变化视为错误。
func (h *txHost) Invoke(ix sdktypes.Instruction, accounts []*core.AccountInfo) error {
	programID := types.FromPublicKey(ix.ProgramID)
	if core.FindAccount(accounts, programID) == nil {
		return fmt.Errorf("%w: program account %s not provided", ErrMissingAccount, programID)
	}

	views := make(map[types.Pubkey]*core.AccountInfo, len(ix.Accounts))
	callee := make([]*core.AccountInfo, 0, len(ix.Accounts))
	for _, meta := range ix.Accounts {
		key := types.FromPublicKey(meta.PubKey)
		caller := core.FindAccount(accounts, key)
		if caller == nil {
			return fmt.Errorf("%w: %s", ErrMissingAccount, key)
		}
		if meta.IsWritable && !caller.IsWritable {
			return fmt.Errorf("%w: %s writable", ErrPrivilegeEscalation, key)
		}
		if meta.IsSigner && !caller.IsSigner {
			return fmt.Errorf("%w: %s signer", ErrPrivilegeEscalation, key)
		}
		view, ok := views[key]
		if !ok {
			view = caller.Clone()
			view.IsSigner, view.IsWritable = false, false
			views[key] = view
		}
		view.IsSigner = view.IsSigner || meta.IsSigner
		view.IsWritable = view.IsWritable || meta.IsWritable
		callee = append(callee, view)
	}

	if err := h.run(programID, callee, ix.Data); err != nil {
		return err
	}

	for key, view := range views {
		target := core.FindAccount(accounts, key)
		if !view.IsWritable {
			if view.Lamports != target.Lamports || view.Owner != target.Owner || string(view.Data) != string(target.Data) {
				return fmt.Errorf("%w: %s", ErrReadonlyModified, key)
			}
			continue
		}
		target.Lamports = view.Lamports
		target.Owner = view.Owner
		target.Data = view.Data
	}
	return nil
}

func (h *txHost) MinimumBalance(dataLen uint64) uint64 {
	return MinimumBalance(dataLen)
}

func (h *txHost) Log(msg string) {
	h.logs = append(h.logs, "Program log: "+msg)
	logger.Debugf("[sandbox:Log] %s", msg)
}
