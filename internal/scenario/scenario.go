package scenario

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"strings"

	"arb-router-sol/internal/consts"
	"arb-router-sol/internal/instructions"
	"arb-router-sol/internal/logic/core"
	"arb-router-sol/internal/logic/extension"
	"arb-router-sol/internal/logic/hop"
	"arb-router-sol/internal/logic/venue"
	"arb-router-sol/internal/types"
	"gopkg.in/yaml.v3"
)

// AccountKind 场景账户类型
type AccountKind string

const (
	KindWallet AccountKind = "wallet"
	KindToken  AccountKind = "token"
	KindMint   AccountKind = "mint"
	KindRemote AccountKind = "remote" // 执行前从 RPC 拉取，key 必填
)

// Scenario 描述一次 arb_swap 模拟：初始账本、场地汇率、hop 计划
type Scenario struct {
	Name      string `yaml:"name"`
	ProgramID string `yaml:"program_id"` // 可选，覆盖配置中的程序地址

	Authority    string `yaml:"authority"`
	Source       string `yaml:"source"`
	Destination  string `yaml:"destination"`
	TipRecipient string `yaml:"tip_recipient"`
	Amount       uint64 `yaml:"amount"`
	Flags        uint16 `yaml:"flags"`

	Accounts []Account `yaml:"accounts"`
	Venues   []Venue   `yaml:"venues"`
	Hops     []Hop     `yaml:"hops"`

	// Provision 在 arb_swap 之前由 authority 为这些 mint 创建 seed 派生的 token 账户
	Provision []string `yaml:"provision"`

	// ExpectError 期望的程序错误码，0 表示期望成功
	ExpectError uint32 `yaml:"expect_error"`
}

// Account 是账本中的一个初始账户。
// 未在此声明、只在 leg 中出现的名字按名字派生地址，初始为空的系统账户。
type Account struct {
	Name     string      `yaml:"name"`
	Key      string      `yaml:"key"` // base58，留空由 name 派生
	Kind     AccountKind `yaml:"kind"`
	Lamports uint64      `yaml:"lamports"`

	// token
	Mint      string `yaml:"mint"`
	Amount    uint64 `yaml:"amount"`
	Token2022 bool   `yaml:"token_2022"`

	// mint
	Decimals          uint8  `yaml:"decimals"`
	Supply            uint64 `yaml:"supply"`
	TransferHook      string `yaml:"transfer_hook"`
	PermanentDelegate bool   `yaml:"permanent_delegate"`
}

// Venue 为场地程序注册一个固定汇率：out = in * rate_num / rate_den
type Venue struct {
	Program string `yaml:"program"` // 场地标签（如 "Raydium CPMM"）或 base58
	RateNum uint64 `yaml:"rate_num"`
	RateDen uint64 `yaml:"rate_den"`
}

type Hop struct {
	Code uint8 `yaml:"code"`
	Legs []Leg `yaml:"legs"`
}

type Leg struct {
	Venue       string   `yaml:"venue"`
	Accounts    []string `yaml:"accounts"`
	Extra       []string `yaml:"extra"`
	Mint        string   `yaml:"mint"`
	HookProgram string   `yaml:"hook_program"`
}

// 内置别名
var aliases = map[string]types.Pubkey{
	"system":    consts.SystemProgram,
	"token":     consts.TokenProgram,
	"token2022": consts.TokenProgram2022,
	"wsol":      consts.WSOLMint,
	"usdc":      consts.USDCMint,
}

// Load 读取并校验场景文件
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return s, nil
}

func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate 检查必填字段与引用关系
func (s *Scenario) Validate() error {
	var errs []error
	if s.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	for _, f := range []struct{ name, value string }{
		{"authority", s.Authority},
		{"source", s.Source},
		{"destination", s.Destination},
		{"tip_recipient", s.TipRecipient},
	} {
		if f.value == "" {
			errs = append(errs, fmt.Errorf("%s is required", f.name))
		}
	}
	if s.Amount == 0 {
		errs = append(errs, errors.New("amount must be positive"))
	}
	if len(s.Hops) == 0 {
		errs = append(errs, errors.New("at least one hop is required"))
	}

	seen := make(map[string]bool, len(s.Accounts))
	for i, a := range s.Accounts {
		if a.Name == "" {
			errs = append(errs, fmt.Errorf("accounts[%d]: name is required", i))
			continue
		}
		if seen[a.Name] {
			errs = append(errs, fmt.Errorf("accounts[%d]: duplicate name %q", i, a.Name))
		}
		seen[a.Name] = true
		switch a.Kind {
		case KindWallet, KindMint:
		case KindRemote:
			if a.Key == "" {
				errs = append(errs, fmt.Errorf("accounts[%d] %s: remote account needs key", i, a.Name))
			}
		case KindToken:
			if a.Mint == "" {
				errs = append(errs, fmt.Errorf("accounts[%d] %s: token account needs mint", i, a.Name))
			}
		default:
			errs = append(errs, fmt.Errorf("accounts[%d] %s: unknown kind %q", i, a.Name, a.Kind))
		}
	}

	for i, v := range s.Venues {
		if _, err := ResolveVenue(v.Program); err != nil {
			errs = append(errs, fmt.Errorf("venues[%d]: %w", i, err))
		}
		if v.RateDen == 0 {
			errs = append(errs, fmt.Errorf("venues[%d]: rate_den must be positive", i))
		}
	}
	for i, h := range s.Hops {
		// 扩展码只能经由复合码出现
		code := hop.Code(h.Code)
		if code > hop.MaxNibbleCode {
			errs = append(errs, fmt.Errorf("hops[%d]: code 0x%x is not nibble-encodable", i, h.Code))
			continue
		}
		// 复合码展开为两个原子 hop，每个原子 hop 对应一条 leg
		want := 1
		if code.IsCompound() {
			want = 2
		}
		if len(h.Legs) != want {
			errs = append(errs, fmt.Errorf("hops[%d]: code 0x%x needs %d legs, got %d", i, h.Code, want, len(h.Legs)))
		}
	}
	return errors.Join(errs...)
}

// ResolveVenue 按标签（不区分大小写）或 base58 地址查找场地
func ResolveVenue(ref string) (types.Pubkey, error) {
	for _, e := range venue.Entries() {
		if strings.EqualFold(e.Label, ref) {
			return e.Identity, nil
		}
	}
	key, err := types.TryPubkeyFromBase58(ref)
	if err != nil {
		return types.Pubkey{}, fmt.Errorf("unknown venue %q", ref)
	}
	if _, ok := venue.Lookup(key); !ok {
		return types.Pubkey{}, fmt.Errorf("program %s is not a known venue", key)
	}
	return key, nil
}

// DeriveKey 由名字派生确定性地址
func DeriveKey(name string) types.Pubkey {
	return types.Pubkey(sha256.Sum256([]byte("arbsim:" + name)))
}

func (s *Scenario) account(name string) (*Account, bool) {
	for i := range s.Accounts {
		if s.Accounts[i].Name == name {
			return &s.Accounts[i], true
		}
	}
	return nil, false
}

// Key 解析账户引用：声明的账户 > 内置别名 > base58 > 名字派生
func (s *Scenario) Key(ref string) (types.Pubkey, error) {
	if ref == "" {
		return types.Pubkey{}, errors.New("empty account reference")
	}
	if a, ok := s.account(ref); ok {
		if a.Key != "" {
			return types.TryPubkeyFromBase58(a.Key)
		}
		return DeriveKey(a.Name), nil
	}
	if k, ok := aliases[strings.ToLower(ref)]; ok {
		return k, nil
	}
	if k, err := types.TryPubkeyFromBase58(ref); err == nil {
		return k, nil
	}
	return DeriveKey(ref), nil
}

func (s *Scenario) keys(refs []string) ([]types.Pubkey, error) {
	out := make([]types.Pubkey, 0, len(refs))
	for _, ref := range refs {
		k, err := s.Key(ref)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}

func (s *Scenario) optionalKey(ref string) (types.Pubkey, error) {
	if ref == "" {
		return types.Pubkey{}, nil
	}
	return s.Key(ref)
}

// Ledger 生成初始账本（不含 remote 账户）
func (s *Scenario) Ledger() ([]*core.AccountInfo, error) {
	out := make([]*core.AccountInfo, 0, len(s.Accounts))
	for i := range s.Accounts {
		if s.Accounts[i].Kind == KindRemote {
			continue
		}
		acc, err := s.build(&s.Accounts[i])
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", s.Accounts[i].Name, err)
		}
		out = append(out, acc)
	}
	return out, nil
}

func (s *Scenario) build(a *Account) (*core.AccountInfo, error) {
	key, err := s.Key(a.Name)
	if err != nil {
		return nil, err
	}
	acc := &core.AccountInfo{Key: key, Owner: consts.SystemProgram, Lamports: a.Lamports}
	switch a.Kind {
	case KindToken:
		mint, err := s.Key(a.Mint)
		if err != nil {
			return nil, err
		}
		owner, err := s.Key(s.Authority)
		if err != nil {
			return nil, err
		}
		acc.Owner = consts.TokenProgram
		if a.Token2022 {
			acc.Owner = consts.TokenProgram2022
		}
		acc.Data = make([]byte, consts.TokenAccountLen)
		copy(acc.Data, mint[:])
		copy(acc.Data[consts.TokenOwnerOffset:], owner[:])
		binary.LittleEndian.PutUint64(acc.Data[consts.TokenAmountOffset:], a.Amount)
		acc.Data[consts.TokenStateOffset] = 1
	case KindMint:
		m := &extension.Mint{Supply: a.Supply, Decimals: a.Decimals, IsInitialized: true}
		if a.PermanentDelegate {
			m.Extensions = append(m.Extensions, extension.Record{Type: consts.ExtPermanentDelegate, Length: 32, Payload: make([]byte, 32)})
		}
		if a.TransferHook != "" {
			hook, err := s.Key(a.TransferHook)
			if err != nil {
				return nil, err
			}
			m.Extensions = append(m.Extensions, extension.TransferHookRecord(hook))
		}
		acc.Owner = consts.TokenProgram
		if a.Token2022 || len(m.Extensions) > 0 {
			acc.Owner = consts.TokenProgram2022
		}
		acc.Data = m.Encode()
	}
	return acc, nil
}

// RemoteKeys 返回需要从链上拉取的账户地址（base58）
func (s *Scenario) RemoteKeys() []string {
	var out []string
	for _, a := range s.Accounts {
		if a.Kind == KindRemote {
			out = append(out, a.Key)
		}
	}
	return out
}

// VenueRates 返回场地程序地址到汇率的映射
func (s *Scenario) VenueRates() (map[types.Pubkey]Venue, error) {
	out := make(map[types.Pubkey]Venue, len(s.Venues))
	for _, v := range s.Venues {
		key, err := ResolveVenue(v.Program)
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	return out, nil
}

// ArbSwapParams 解析 hop 计划为指令参数
func (s *Scenario) ArbSwapParams() (instructions.ArbSwapParams, error) {
	p := instructions.ArbSwapParams{Amount: s.Amount, Flags: s.Flags}
	var err error
	if p.Authority, err = s.Key(s.Authority); err != nil {
		return p, err
	}
	if p.Source, err = s.Key(s.Source); err != nil {
		return p, err
	}
	if p.Destination, err = s.Key(s.Destination); err != nil {
		return p, err
	}
	if p.TipRecipient, err = s.Key(s.TipRecipient); err != nil {
		return p, err
	}

	for i, h := range s.Hops {
		out := instructions.Hop{Code: hop.Code(h.Code)}
		for j, l := range h.Legs {
			leg, err := s.leg(l)
			if err != nil {
				return p, fmt.Errorf("hops[%d].legs[%d]: %w", i, j, err)
			}
			out.Legs = append(out.Legs, leg)
		}
		p.Hops = append(p.Hops, out)
	}
	return p, nil
}

func (s *Scenario) leg(l Leg) (instructions.Leg, error) {
	var (
		leg instructions.Leg
		err error
	)
	if leg.Venue, err = ResolveVenue(l.Venue); err != nil {
		return leg, err
	}
	if leg.Accounts, err = s.keys(l.Accounts); err != nil {
		return leg, err
	}
	if leg.Extra, err = s.keys(l.Extra); err != nil {
		return leg, err
	}
	if leg.Mint, err = s.optionalKey(l.Mint); err != nil {
		return leg, err
	}
	if leg.HookProgram, err = s.optionalKey(l.HookProgram); err != nil {
		return leg, err
	}
	return leg, nil
}
