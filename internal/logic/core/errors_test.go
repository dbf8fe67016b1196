package core

import (
	"errors"
	"fmt"
	"testing"

	"arb-router-sol/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestProgramErrorMatchesByCode(t *testing.T) {
	err := ErrInvalidHopConfig.With("consumed=%d arity=%d", 3, 4)
	assert.True(t, errors.Is(err, ErrInvalidHopConfig))
	assert.False(t, errors.Is(err, ErrCalculationError))
	assert.Contains(t, err.Error(), "consumed=3 arity=4")
	assert.Empty(t, ErrInvalidHopConfig.Detail)

	wrapped := fmt.Errorf("arb_swap: %w", err)
	assert.True(t, errors.Is(wrapped, ErrInvalidHopConfig))
	assert.Equal(t, uint32(6002), ErrorCode(wrapped))
	assert.Equal(t, uint32(0), ErrorCode(errors.New("plain")))
	assert.Equal(t, uint32(6036), ErrorCode(ErrTokenConstraintViolation))
}

func TestAccountClone(t *testing.T) {
	a := &AccountInfo{Key: types.Pubkey{1}, Lamports: 5, Data: []byte{1, 2, 3}}
	b := a.Clone()
	b.Key = types.Pubkey{2}
	b.Data[0] = 9
	b.Lamports = 7
	assert.Equal(t, byte(1), a.Data[0])
	assert.Equal(t, uint64(5), a.Lamports)
	assert.Same(t, a, FindAccount([]*AccountInfo{b, a}, a.Key))
	assert.Nil(t, FindAccount([]*AccountInfo{b}, a.Key))
}
