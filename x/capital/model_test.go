package capital

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/capcall"
	"github.com/iov-one/capcall/capcalltest/assert"
	"github.com/iov-one/capcall/errors"
	"github.com/iov-one/capcall/store"
)

func TestEscrowPersistence(t *testing.T) {
	p := newParties()
	want := escrowFixture(p, StatusCapitalCommitted, SettlementMint)
	want.LinkedInstance = p.stranger
	want.RefundTarget = p.stranger

	db := store.MemStore()
	b := NewEscrowBucket()
	assert.Nil(t, b.Create(db, want.Address, want))
	err := b.Create(db, want.Address, want)
	assert.IsErr(t, errors.ErrDuplicate, err)

	got, err := b.Load(db, want.Address)
	assert.Nil(t, err)
	assert.Equal(t, want, got)

	_, err = b.Load(db, p.dist)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestEscrowValidate(t *testing.T) {
	p := newParties()

	cases := map[string]struct {
		mutate  func(e *Escrow)
		wantErr *errors.Error
	}{
		"valid": {
			mutate: func(e *Escrow) {},
		},
		"missing metadata": {
			mutate:  func(e *Escrow) { e.Metadata = nil },
			wantErr: errors.ErrEmpty,
		},
		"invalid status": {
			mutate:  func(e *Escrow) { e.Status = StatusInvalid },
			wantErr: errors.ErrModel,
		},
		"missing provider": {
			mutate:  func(e *Escrow) { e.CapitalProvider = nil },
			wantErr: errors.ErrInput,
		},
		"zero capital": {
			mutate:  func(e *Escrow) { e.Capital.Amount = 0 },
			wantErr: errors.ErrAmount,
		},
		"settlement without mode": {
			mutate: func(e *Escrow) {
				e.SettlementMode = SettlementNone
			},
			wantErr: errors.ErrInput,
		},
		"mode without settlement": {
			mutate:  func(e *Escrow) { e.Settlement = nil },
			wantErr: errors.ErrEmpty,
		},
		"unknown mode": {
			mutate:  func(e *Escrow) { e.SettlementMode = 42 },
			wantErr: errors.ErrInput,
		},
		"memo too long": {
			mutate: func(e *Escrow) {
				e.DistributionMemo = string(make([]byte, maxMemoSize+1))
			},
			wantErr: errors.ErrInput,
		},
		"missing refund target": {
			mutate:  func(e *Escrow) { e.RefundTarget = nil },
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			e := escrowFixture(p, StatusPendingCapital, SettlementCustody)
			tc.mutate(e)
			if tc.wantErr == nil {
				assert.Nil(t, e.Validate())
				return
			}
			assert.IsErr(t, tc.wantErr, e.Validate())
		})
	}
}

func TestEscrowCopyIsDeep(t *testing.T) {
	p := newParties()
	e := escrowFixture(p, StatusCapitalCommitted, SettlementMint)
	cpy := e.Copy()
	assert.Equal(t, e, cpy)

	cpy.Capital.Amount++
	cpy.Settlement.Denom = "other"
	cpy.CapitalProvider[0]++
	cpy.Metadata.Schema++
	assert.Equal(t, escrowFixture(p, StatusCapitalCommitted, SettlementMint), e)
}

func TestTermsValidate(t *testing.T) {
	p := newParties()
	valid := func() *Terms {
		return escrowFixture(p, StatusPendingCapital, SettlementMint).Terms()
	}
	assert.Nil(t, valid().Validate())

	t1 := valid()
	t1.CapitalUser = nil
	assert.IsErr(t, errors.ErrInput, t1.Validate())

	t2 := valid()
	t2.CapitalDenom = "x"
	assert.IsErr(t, errors.ErrCurrency, t2.Validate())

	t3 := valid()
	t3.MinCapital = t3.MaxCapital + 1
	assert.IsErr(t, errors.ErrInput, t3.Validate())
}

func TestSettlementModeJSON(t *testing.T) {
	var m struct {
		Mode SettlementMode `json:"mode"`
	}
	assert.Nil(t, json.Unmarshal([]byte(`{"mode": "ESCROWED"}`), &m))
	assert.Equal(t, SettlementEscrowed, m.Mode)

	raw, err := json.Marshal(m)
	assert.Nil(t, err)
	assert.Equal(t, `{"mode":"ESCROWED"}`, string(raw))

	err = json.Unmarshal([]byte(`{"mode": "SHARES"}`), &m)
	assert.IsErr(t, errors.ErrInput, err)
	err = json.Unmarshal([]byte(`{"mode": 1}`), &m)
	assert.IsErr(t, errors.ErrInput, err)
}

func TestStatusNames(t *testing.T) {
	assert.Equal(t, "CapitalCommitted", StatusCapitalCommitted.String())
	assert.Equal(t, "Status(9)", Status(9).String())
	assert.Equal(t, true, StatusCancelled.IsTerminal())
	assert.Equal(t, false, StatusPendingCapital.IsTerminal())

	var _ capcall.Persistent = (*StatusResponse)(nil)
}
