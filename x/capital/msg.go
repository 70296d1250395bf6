package capital

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/capcall"
	"github.com/iov-one/capcall/coin"
	"github.com/iov-one/capcall/errors"
)

const (
	pathInstantiateMsg = "capital/instantiate"
	pathCommitMsg      = "capital/commit"
	pathRecallMsg      = "capital/recall"
	pathCallMsg        = "capital/call"
	pathCloseMsg       = "capital/close"
	pathCancelMsg      = "capital/cancel"

	maxMemoSize int = 128
)

var _ capcall.Msg = (*InstantiateMsg)(nil)
var _ capcall.Msg = (*CommitMsg)(nil)
var _ capcall.Msg = (*RecallMsg)(nil)
var _ capcall.Msg = (*CallMsg)(nil)
var _ capcall.Msg = (*CloseMsg)(nil)
var _ capcall.Msg = (*CancelMsg)(nil)

// InstantiateMsg creates a new instance. Every party may be left empty
// when a linked instance provides it. An empty capital user defaults to
// the sender.
type InstantiateMsg struct {
	Metadata         *capcall.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	CapitalProvider  capcall.Address   `protobuf:"bytes,2,opt,name=capital_provider,json=capitalProvider,proto3,casttype=github.com/iov-one/capcall.Address" json:"capital_provider,omitempty"`
	CapitalUser      capcall.Address   `protobuf:"bytes,3,opt,name=capital_user,json=capitalUser,proto3,casttype=github.com/iov-one/capcall.Address" json:"capital_user,omitempty"`
	Admin            capcall.Address   `protobuf:"bytes,4,opt,name=admin,proto3,casttype=github.com/iov-one/capcall.Address" json:"admin,omitempty"`
	Capital          *coin.Coin        `protobuf:"bytes,5,opt,name=capital,proto3" json:"capital"`
	Settlement       *coin.Coin        `protobuf:"bytes,6,opt,name=settlement,proto3" json:"settlement,omitempty"`
	SettlementMode   SettlementMode    `protobuf:"varint,7,opt,name=settlement_mode,json=settlementMode,proto3" json:"settlement_mode,omitempty"`
	Distribution     capcall.Address   `protobuf:"bytes,8,opt,name=distribution,proto3,casttype=github.com/iov-one/capcall.Address" json:"distribution,omitempty"`
	DistributionMemo string            `protobuf:"bytes,9,opt,name=distribution_memo,json=distributionMemo,proto3" json:"distribution_memo,omitempty"`
	DueDate          string            `protobuf:"bytes,10,opt,name=due_date,json=dueDate,proto3" json:"due_date,omitempty"`
	LinkedInstance   capcall.Address   `protobuf:"bytes,11,opt,name=linked_instance,json=linkedInstance,proto3,casttype=github.com/iov-one/capcall.Address" json:"linked_instance,omitempty"`
}

func (m *InstantiateMsg) Reset()         { *m = InstantiateMsg{} }
func (m *InstantiateMsg) String() string { return proto.CompactTextString(m) }
func (*InstantiateMsg) ProtoMessage()    {}

// Path fulfills capcall.Msg interface to allow routing
func (InstantiateMsg) Path() string {
	return pathInstantiateMsg
}

// Validate checks the message is well formed. Checks that require the
// block time or a linked instance are done by the Engine.
func (m *InstantiateMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := validateOptionalAddress(m.CapitalProvider); err != nil {
		return errors.Wrap(err, "capital provider")
	}
	if err := validateOptionalAddress(m.CapitalUser); err != nil {
		return errors.Wrap(err, "capital user")
	}
	if err := validateOptionalAddress(m.Admin); err != nil {
		return errors.Wrap(err, "admin")
	}
	if err := validateOptionalAddress(m.Distribution); err != nil {
		return errors.Wrap(err, "distribution")
	}
	if err := validateOptionalAddress(m.LinkedInstance); err != nil {
		return errors.Wrap(err, "linked instance")
	}
	if len(m.LinkedInstance) == 0 && len(m.CapitalProvider) == 0 {
		return errors.Wrap(errors.ErrEmpty, "capital provider")
	}
	if m.Capital == nil {
		return errors.Wrap(errors.ErrEmpty, "capital")
	}
	if !m.Capital.IsPositive() {
		return errors.Wrap(errors.ErrInput, "capital amount must be positive")
	}
	// The denomination may be provided by the linked instance.
	if m.Capital.Denom != "" || len(m.LinkedInstance) == 0 {
		if err := m.Capital.Validate(); err != nil {
			return errors.Wrap(err, "capital")
		}
	}
	if err := m.SettlementMode.Validate(); err != nil {
		return err
	}
	if err := validateSettlement(m.SettlementMode, m.Settlement); err != nil {
		return err
	}
	if len(m.DistributionMemo) > maxMemoSize {
		return errors.Wrapf(errors.ErrInput, "memo longer than %d", maxMemoSize)
	}
	return nil
}

// CommitMsg deposits the capital into the instance.
type CommitMsg struct {
	Metadata *capcall.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
}

func (m *CommitMsg) Reset()         { *m = CommitMsg{} }
func (m *CommitMsg) String() string { return proto.CompactTextString(m) }
func (*CommitMsg) ProtoMessage()    {}

// Path fulfills capcall.Msg interface to allow routing
func (CommitMsg) Path() string {
	return pathCommitMsg
}

func (m *CommitMsg) Validate() error {
	return errors.Wrap(m.Metadata.Validate(), "metadata")
}

// RecallMsg returns the committed capital to the provider.
type RecallMsg struct {
	Metadata *capcall.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
}

func (m *RecallMsg) Reset()         { *m = RecallMsg{} }
func (m *RecallMsg) String() string { return proto.CompactTextString(m) }
func (*RecallMsg) ProtoMessage()    {}

// Path fulfills capcall.Msg interface to allow routing
func (RecallMsg) Path() string {
	return pathRecallMsg
}

func (m *RecallMsg) Validate() error {
	return errors.Wrap(m.Metadata.Validate(), "metadata")
}

// CallMsg settles the committed capital.
type CallMsg struct {
	Metadata *capcall.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
}

func (m *CallMsg) Reset()         { *m = CallMsg{} }
func (m *CallMsg) String() string { return proto.CompactTextString(m) }
func (*CallMsg) ProtoMessage()    {}

// Path fulfills capcall.Msg interface to allow routing
func (CallMsg) Path() string {
	return pathCallMsg
}

func (m *CallMsg) Validate() error {
	return errors.Wrap(m.Metadata.Validate(), "metadata")
}

// CloseMsg settles the committed capital. It is processed exactly as
// CallMsg.
type CloseMsg struct {
	Metadata *capcall.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
}

func (m *CloseMsg) Reset()         { *m = CloseMsg{} }
func (m *CloseMsg) String() string { return proto.CompactTextString(m) }
func (*CloseMsg) ProtoMessage()    {}

// Path fulfills capcall.Msg interface to allow routing
func (CloseMsg) Path() string {
	return pathCloseMsg
}

func (m *CloseMsg) Validate() error {
	return errors.Wrap(m.Metadata.Validate(), "metadata")
}

// CancelMsg terminates an instance that was not called.
type CancelMsg struct {
	Metadata *capcall.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
}

func (m *CancelMsg) Reset()         { *m = CancelMsg{} }
func (m *CancelMsg) String() string { return proto.CompactTextString(m) }
func (*CancelMsg) ProtoMessage()    {}

// Path fulfills capcall.Msg interface to allow routing
func (CancelMsg) Path() string {
	return pathCancelMsg
}

func (m *CancelMsg) Validate() error {
	return errors.Wrap(m.Metadata.Validate(), "metadata")
}
