package capcall

import (
	"github.com/iov-one/capcall/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
)

// DeliverResult is the outcome of a successfully delivered message.
// Failures are always reported as errors.
type DeliverResult struct {
	// Data is returned to the client as is. Instantiation returns the
	// address of the new instance here.
	Data []byte
	// Log is a human readable summary.
	Log string
	// Instance is the instance that processed the message.
	Instance Address
	// Transition is the status change of Instance caused by the message.
	Transition Transition
	// Instructions are the ledger movements requested by the handler. A
	// decorator executes them, in order, before the result reaches the
	// client.
	Instructions []*Instruction
	// Tags index the transaction in the tendermint history.
	Tags []common.KVPair
}

// Transition records the status of an instance before and after a
// message. From is empty for a newly created instance.
type Transition struct {
	From string
	To   string
}

// Changed is true when the message moved the instance to another status.
func (t Transition) Changed() bool {
	return t.To != "" && t.From != t.To
}

func (t Transition) String() string {
	if !t.Changed() {
		return t.To
	}
	from := t.From
	if from == "" {
		from = "New"
	}
	return from + " -> " + t.To
}

// ToABCI returns the tendermint response. Instructions are not part of
// it, their outcome is visible in the ledger and the tags.
func (d DeliverResult) ToABCI() abci.ResponseDeliverTx {
	return abci.ResponseDeliverTx{Data: d.Data, Log: d.Log, Tags: d.Tags}
}

// CheckResult is the outcome of a message accepted into the mempool.
type CheckResult struct {
	Data []byte
	Log  string
}

func (c CheckResult) ToABCI() abci.ResponseCheckTx {
	return abci.ResponseCheckTx{Data: c.Data, Log: c.Log}
}

// DeliverOrError returns the response for result, or for err if set.
func DeliverOrError(result *DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		return DeliverTxError(err, debug)
	}
	return result.ToABCI()
}

// CheckOrError returns the response for result, or for err if set.
func CheckOrError(result *CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		return CheckTxError(err, debug)
	}
	return result.ToABCI()
}

// DeliverTxError returns the response of a failed delivery. Errors that
// are not registered are redacted unless debug is set.
func DeliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	code, log := failure("deliver", err, debug)
	return abci.ResponseDeliverTx{Code: code, Log: log}
}

// CheckTxError returns the response of a failed check. Errors that are
// not registered are redacted unless debug is set.
func CheckTxError(err error, debug bool) abci.ResponseCheckTx {
	code, log := failure("check", err, debug)
	return abci.ResponseCheckTx{Code: code, Log: log}
}

func failure(stage string, err error, debug bool) (uint32, string) {
	code, log := errors.ABCIInfo(err, debug)
	if code == errors.SuccessABCICode {
		return code, log
	}
	return code, "cannot " + stage + " tx: " + log
}
