package capital

import (
	"fmt"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/capcall"
	"github.com/iov-one/capcall/coin"
	"github.com/iov-one/capcall/errors"
	"github.com/iov-one/capcall/orm"
)

// Status is the lifecycle stage of an instance.
type Status int32

const (
	StatusInvalid          Status = 0
	StatusPendingCapital   Status = 1
	StatusCapitalCommitted Status = 2
	StatusCapitalCalled    Status = 3
	StatusCancelled        Status = 4
)

var statusNames = map[Status]string{
	StatusInvalid:          "Invalid",
	StatusPendingCapital:   "PendingCapital",
	StatusCapitalCommitted: "CapitalCommitted",
	StatusCapitalCalled:    "CapitalCalled",
	StatusCancelled:        "Cancelled",
}

func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Status(%d)", int32(s))
}

// IsTerminal returns true if no transition leaves this status.
func (s Status) IsTerminal() bool {
	return s == StatusCapitalCalled || s == StatusCancelled
}

// SettlementMode declares, at creation time, what is given to the capital
// provider in exchange for the called capital.
type SettlementMode int32

const (
	// SettlementNone moves the capital only.
	SettlementNone SettlementMode = 0
	// SettlementMint issues new supply of the settlement asset and
	// withdraws it from custody to the provider.
	SettlementMint SettlementMode = 1
	// SettlementDeposit requires the caller to attach the settlement
	// asset when calling the capital.
	SettlementDeposit SettlementMode = 2
	// SettlementCustody withdraws a pre-held settlement asset from its
	// custody account.
	SettlementCustody SettlementMode = 3
	// SettlementEscrowed requires the settlement asset to be deposited
	// into the instance at creation.
	SettlementEscrowed SettlementMode = 4
)

var settlementModeNames = map[SettlementMode]string{
	SettlementNone:     "NONE",
	SettlementMint:     "MINT",
	SettlementDeposit:  "DEPOSIT",
	SettlementCustody:  "CUSTODY",
	SettlementEscrowed: "ESCROWED",
}

func (m SettlementMode) String() string {
	if n, ok := settlementModeNames[m]; ok {
		return n
	}
	return fmt.Sprintf("SettlementMode(%d)", int32(m))
}

// ParseSettlementMode returns the mode of given name.
func ParseSettlementMode(name string) (SettlementMode, error) {
	for m, n := range settlementModeNames {
		if n == name {
			return m, nil
		}
	}
	return 0, errors.Wrapf(errors.ErrInput, "unknown settlement mode %q", name)
}

// Validate returns an error if this is not a known mode.
func (m SettlementMode) Validate() error {
	if _, ok := settlementModeNames[m]; !ok {
		return errors.Wrapf(errors.ErrInput, "settlement mode %d", m)
	}
	return nil
}

// MarshalJSON encodes the mode by name.
func (m SettlementMode) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", m.String())), nil
}

// UnmarshalJSON accepts the mode name, for example "MINT".
func (m *SettlementMode) UnmarshalJSON(raw []byte) error {
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return errors.Wrap(errors.ErrInput, "settlement mode must be a string")
	}
	mode, err := ParseSettlementMode(string(raw[1 : len(raw)-1]))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// Escrow is the state of a single capital call instance. It is created
// once and every later change is done by the Engine.
type Escrow struct {
	Metadata         *capcall.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Address          capcall.Address   `protobuf:"bytes,2,opt,name=address,proto3,casttype=github.com/iov-one/capcall.Address" json:"address"`
	Status           Status            `protobuf:"varint,3,opt,name=status,proto3" json:"status"`
	CapitalProvider  capcall.Address   `protobuf:"bytes,4,opt,name=capital_provider,json=capitalProvider,proto3,casttype=github.com/iov-one/capcall.Address" json:"capital_provider"`
	CapitalUser      capcall.Address   `protobuf:"bytes,5,opt,name=capital_user,json=capitalUser,proto3,casttype=github.com/iov-one/capcall.Address" json:"capital_user"`
	Admin            capcall.Address   `protobuf:"bytes,6,opt,name=admin,proto3,casttype=github.com/iov-one/capcall.Address" json:"admin,omitempty"`
	Capital          *coin.Coin        `protobuf:"bytes,7,opt,name=capital,proto3" json:"capital"`
	Settlement       *coin.Coin        `protobuf:"bytes,8,opt,name=settlement,proto3" json:"settlement,omitempty"`
	SettlementMode   SettlementMode    `protobuf:"varint,9,opt,name=settlement_mode,json=settlementMode,proto3" json:"settlement_mode"`
	Distribution     capcall.Address   `protobuf:"bytes,10,opt,name=distribution,proto3,casttype=github.com/iov-one/capcall.Address" json:"distribution,omitempty"`
	DistributionMemo string            `protobuf:"bytes,11,opt,name=distribution_memo,json=distributionMemo,proto3" json:"distribution_memo,omitempty"`
	LinkedInstance   capcall.Address   `protobuf:"bytes,12,opt,name=linked_instance,json=linkedInstance,proto3,casttype=github.com/iov-one/capcall.Address" json:"linked_instance,omitempty"`
	RefundTarget     capcall.Address   `protobuf:"bytes,13,opt,name=refund_target,json=refundTarget,proto3,casttype=github.com/iov-one/capcall.Address" json:"refund_target"`
	DueDate          capcall.UnixTime  `protobuf:"varint,14,opt,name=due_date,json=dueDate,proto3,casttype=github.com/iov-one/capcall.UnixTime" json:"due_date,omitempty"`
}

var _ orm.Model = (*Escrow)(nil)

func (m *Escrow) Reset()         { *m = Escrow{} }
func (m *Escrow) String() string { return proto.CompactTextString(m) }
func (*Escrow) ProtoMessage()    {}

// Validate ensures the escrow is complete and consistent.
func (m *Escrow) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := m.Address.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	if _, ok := statusNames[m.Status]; !ok || m.Status == StatusInvalid {
		return errors.Wrapf(errors.ErrModel, "status %d", m.Status)
	}
	if err := m.CapitalProvider.Validate(); err != nil {
		return errors.Wrap(err, "capital provider")
	}
	if err := m.CapitalUser.Validate(); err != nil {
		return errors.Wrap(err, "capital user")
	}
	if err := validateOptionalAddress(m.Admin); err != nil {
		return errors.Wrap(err, "admin")
	}
	if err := validateAsset(m.Capital); err != nil {
		return errors.Wrap(err, "capital")
	}
	if err := m.SettlementMode.Validate(); err != nil {
		return err
	}
	if err := validateSettlement(m.SettlementMode, m.Settlement); err != nil {
		return err
	}
	if err := validateOptionalAddress(m.Distribution); err != nil {
		return errors.Wrap(err, "distribution")
	}
	if len(m.DistributionMemo) > maxMemoSize {
		return errors.Wrapf(errors.ErrInput, "memo longer than %d", maxMemoSize)
	}
	if err := validateOptionalAddress(m.LinkedInstance); err != nil {
		return errors.Wrap(err, "linked instance")
	}
	if err := m.RefundTarget.Validate(); err != nil {
		return errors.Wrap(err, "refund target")
	}
	if err := m.DueDate.Validate(); err != nil {
		return errors.Wrap(err, "due date")
	}
	return nil
}

// Copy returns a deep copy of this escrow.
func (m *Escrow) Copy() *Escrow {
	return &Escrow{
		Metadata:         m.Metadata.Copy(),
		Address:          m.Address.Clone(),
		Status:           m.Status,
		CapitalProvider:  m.CapitalProvider.Clone(),
		CapitalUser:      m.CapitalUser.Clone(),
		Admin:            m.Admin.Clone(),
		Capital:          m.Capital.Clone(),
		Settlement:       m.Settlement.Clone(),
		SettlementMode:   m.SettlementMode,
		Distribution:     m.Distribution.Clone(),
		DistributionMemo: m.DistributionMemo,
		LinkedInstance:   m.LinkedInstance.Clone(),
		RefundTarget:     m.RefundTarget.Clone(),
		DueDate:          m.DueDate,
	}
}

// Terms returns the terms this instance exposes to other instances.
func (m *Escrow) Terms() *Terms {
	t := &Terms{
		CapitalProvider: m.CapitalProvider.Clone(),
		CapitalUser:     m.CapitalUser.Clone(),
		Settlement:      m.Settlement.Clone(),
	}
	if m.Capital != nil {
		t.CapitalDenom = m.Capital.Denom
		t.MinCapital = m.Capital.Amount
		t.MaxCapital = m.Capital.Amount
	}
	return t
}

// Terms is the answer to a terms query sent to an instance. A linked
// instance is configured from the terms of the instance it links to.
type Terms struct {
	CapitalProvider capcall.Address `protobuf:"bytes,1,opt,name=capital_provider,json=capitalProvider,proto3,casttype=github.com/iov-one/capcall.Address" json:"capital_provider"`
	CapitalUser     capcall.Address `protobuf:"bytes,2,opt,name=capital_user,json=capitalUser,proto3,casttype=github.com/iov-one/capcall.Address" json:"capital_user"`
	CapitalDenom    string          `protobuf:"bytes,3,opt,name=capital_denom,json=capitalDenom,proto3" json:"capital_denom"`
	MinCapital      uint64          `protobuf:"varint,4,opt,name=min_capital,json=minCapital,proto3" json:"min_capital"`
	MaxCapital      uint64          `protobuf:"varint,5,opt,name=max_capital,json=maxCapital,proto3" json:"max_capital"`
	Settlement      *coin.Coin      `protobuf:"bytes,6,opt,name=settlement,proto3" json:"settlement,omitempty"`
}

func (m *Terms) Reset()         { *m = Terms{} }
func (m *Terms) String() string { return proto.CompactTextString(m) }
func (*Terms) ProtoMessage()    {}

// Validate returns an error if the terms cannot be interpreted.
func (m *Terms) Validate() error {
	if err := validateOptionalAddress(m.CapitalProvider); err != nil {
		return errors.Wrap(err, "capital provider")
	}
	if err := m.CapitalUser.Validate(); err != nil {
		return errors.Wrap(err, "capital user")
	}
	if !coin.IsDenom(m.CapitalDenom) {
		return errors.Wrapf(errors.ErrCurrency, "capital denom %q", m.CapitalDenom)
	}
	if m.MinCapital > m.MaxCapital {
		return errors.Wrapf(errors.ErrInput, "capital bounds [%d, %d]", m.MinCapital, m.MaxCapital)
	}
	if m.Settlement != nil {
		if err := validateAsset(m.Settlement); err != nil {
			return errors.Wrap(err, "settlement")
		}
	}
	return nil
}

// StatusResponse is the answer to a status query.
type StatusResponse struct {
	Status Status `protobuf:"varint,1,opt,name=status,proto3" json:"status"`
}

func (m *StatusResponse) Reset()         { *m = StatusResponse{} }
func (m *StatusResponse) String() string { return proto.CompactTextString(m) }
func (*StatusResponse) ProtoMessage()    {}

func validateOptionalAddress(a capcall.Address) error {
	if len(a) == 0 {
		return nil
	}
	return a.Validate()
}

func validateAsset(c *coin.Coin) error {
	if c == nil {
		return errors.Wrap(errors.ErrEmpty, "asset")
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if !c.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "must be positive")
	}
	return nil
}

func validateSettlement(mode SettlementMode, settlement *coin.Coin) error {
	if mode == SettlementNone {
		if settlement != nil {
			return errors.Wrap(errors.ErrInput, "settlement asset without a settlement mode")
		}
		return nil
	}
	if err := validateAsset(settlement); err != nil {
		return errors.Wrapf(err, "settlement asset for %s mode", mode)
	}
	return nil
}

// EscrowBucket stores one escrow per instance, under the instance
// address.
type EscrowBucket struct {
	orm.Bucket
	seq orm.Sequence
}

// NewEscrowBucket returns a bucket for capital call instances.
func NewEscrowBucket() EscrowBucket {
	b := orm.NewBucket("capital")
	return EscrowBucket{
		Bucket: b,
		seq:    b.Sequence(orm.IDSequence),
	}
}

// NextAddress reserves the address of a new instance.
func (b EscrowBucket) NextAddress(db capcall.KVStore) (capcall.Address, error) {
	id, err := b.seq.Next(db)
	if err != nil {
		return nil, errors.Wrap(err, "cannot acquire instance id")
	}
	return InstanceAddress(id), nil
}

// Load returns the escrow of given instance.
func (b EscrowBucket) Load(db capcall.ReadOnlyKVStore, instance capcall.Address) (*Escrow, error) {
	var e Escrow
	if err := b.One(db, instance, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// InstanceAddress returns the address of the instance with given
// sequence id.
func InstanceAddress(id []byte) capcall.Address {
	return capcall.NewCondition("capital", "seq", id).Address()
}
