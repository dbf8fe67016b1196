package sandbox

import (
	"encoding/binary"
	"errors"
	"fmt"

	"arb-router-sol/internal/consts"
	"arb-router-sol/internal/logic/core"
	"arb-router-sol/internal/types"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/system"
	sdktoken "github.com/blocto/solana-go-sdk/program/token"
)

var (
	ErrInvalidInstruction  = errors.New("invalid instruction")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrAccountAlreadyInUse = errors.New("account already in use")
	ErrAddressMismatch     = errors.New("address does not match seed derivation")
	ErrIllegalOwner        = errors.New("illegal owner")
)

func processSystem(_ core.Host, _ types.Pubkey, accounts []*core.AccountInfo, data []byte) error {
	if len(data) < 4 {
		return fmt.Errorf("%w: system data len %d", ErrInvalidInstruction, len(data))
	}
	switch system.Instruction(binary.LittleEndian.Uint32(data)) {
	case system.InstructionTransfer:
		return systemTransfer(accounts, data[4:])
	case system.InstructionCreateAccountWithSeed:
		return systemCreateWithSeed(accounts, data[4:])
	default:
		return fmt.Errorf("%w: unsupported system instruction %d", ErrInvalidInstruction, binary.LittleEndian.Uint32(data))
	}
}

func systemTransfer(accounts []*core.AccountInfo, data []byte) error {
	if len(accounts) < 2 || len(data) < 8 {
		return fmt.Errorf("%w: transfer", ErrInvalidInstruction)
	}
	from, to := accounts[0], accounts[1]
	amount := binary.LittleEndian.Uint64(data)
	if !from.IsSigner || !from.IsWritable || !to.IsWritable {
		return fmt.Errorf("%w: transfer %s -> %s", ErrPrivilegeEscalation, from.Key, to.Key)
	}
	if from.Owner != consts.SystemProgram || len(from.Data) != 0 {
		return fmt.Errorf("%w: transfer source %s", ErrIllegalOwner, from.Key)
	}
	if from.Lamports < amount {
		return fmt.Errorf("%w: %s has %d, need %d", ErrInsufficientFunds, from.Key, from.Lamports, amount)
	}
	from.Lamports -= amount
	to.Lamports += amount
	return nil
}

// create_account_with_seed: base(32) seed(u64 len + bytes) lamports(8) space(8) owner(32)
func systemCreateWithSeed(accounts []*core.AccountInfo, data []byte) error {
	if len(accounts) < 2 || len(data) < 40 {
		return fmt.Errorf("%w: create_account_with_seed", ErrInvalidInstruction)
	}
	base, _ := types.PubkeyFromBytes(data)
	seedLen := binary.LittleEndian.Uint64(data[32:])
	rest := data[40:]
	if seedLen > uint64(len(rest)) || uint64(len(rest))-seedLen < 48 {
		return fmt.Errorf("%w: create_account_with_seed payload", ErrInvalidInstruction)
	}
	seed := string(rest[:seedLen])
	rest = rest[seedLen:]
	lamports := binary.LittleEndian.Uint64(rest)
	space := binary.LittleEndian.Uint64(rest[8:])
	owner, _ := types.PubkeyFromBytes(rest[16:])

	from, to := accounts[0], accounts[1]
	if !from.IsSigner || !from.IsWritable || !to.IsWritable {
		return fmt.Errorf("%w: create_account_with_seed", ErrPrivilegeEscalation)
	}
	baseAcc := core.FindAccount(accounts, base)
	if baseAcc == nil || !baseAcc.IsSigner {
		return fmt.Errorf("%w: base %s must sign", ErrPrivilegeEscalation, base)
	}
	derived := common.CreateWithSeed(base.ToPublicKey(), seed, owner.ToPublicKey())
	if types.FromPublicKey(derived) != to.Key {
		return fmt.Errorf("%w: %s != %s", ErrAddressMismatch, to.Key, types.FromPublicKey(derived))
	}
	if to.Lamports != 0 || len(to.Data) != 0 || to.Owner != consts.SystemProgram {
		return fmt.Errorf("%w: %s", ErrAccountAlreadyInUse, to.Key)
	}
	if from.Lamports < lamports {
		return fmt.Errorf("%w: %s has %d, need %d", ErrInsufficientFunds, from.Key, from.Lamports, lamports)
	}
	from.Lamports -= lamports
	to.Lamports = lamports
	to.Data = make([]byte, space)
	to.Owner = owner
	return nil
}

func processToken(_ core.Host, programID types.Pubkey, accounts []*core.AccountInfo, data []byte) error {
	if len(data) < 1 {
		return fmt.Errorf("%w: token data empty", ErrInvalidInstruction)
	}
	switch data[0] {
	case byte(sdktoken.InstructionInitializeAccount3):
		return tokenInitializeAccount3(programID, accounts, data[1:])
	default:
		return fmt.Errorf("%w: unsupported token instruction %d", ErrInvalidInstruction, data[0])
	}
}

func tokenInitializeAccount3(programID types.Pubkey, accounts []*core.AccountInfo, data []byte) error {
	if len(accounts) < 2 || len(data) < 32 {
		return fmt.Errorf("%w: initialize_account3", ErrInvalidInstruction)
	}
	account, mint := accounts[0], accounts[1]
	if account.Owner != programID {
		return fmt.Errorf("%w: account %s owned by %s", ErrIllegalOwner, account.Key, account.Owner)
	}
	if !account.IsWritable {
		return fmt.Errorf("%w: account %s not writable", ErrPrivilegeEscalation, account.Key)
	}
	if len(account.Data) < consts.TokenAccountLen {
		return fmt.Errorf("%w: account data len %d", ErrInvalidInstruction, len(account.Data))
	}
	if account.Data[consts.TokenStateOffset] != 0 {
		return fmt.Errorf("%w: %s already initialized", ErrAccountAlreadyInUse, account.Key)
	}
	if mint.Owner != programID || len(mint.Data) < consts.MintBaseLen || mint.Data[consts.MintInitializedFlag] == 0 {
		return fmt.Errorf("%w: invalid mint %s", ErrInvalidInstruction, mint.Key)
	}

	copy(account.Data[0:32], mint.Key[:])
	copy(account.Data[consts.TokenOwnerOffset:consts.TokenAmountOffset], data[:32])
	binary.LittleEndian.PutUint64(account.Data[consts.TokenAmountOffset:], 0)
	account.Data[consts.TokenStateOffset] = 1
	return nil
}
