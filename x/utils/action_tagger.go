package utils

import (
	"github.com/iov-one/capcall"
	"github.com/tendermint/tendermint/libs/common"
)

// Tag keys added by ActionTagger. Clients subscribe with queries such
// as "action='capital/call'" or "instance='<hex address>'".
const (
	ActionKey   = "action"
	InstanceKey = "instance"
	StatusKey   = "status"
)

// ActionTagger tags every delivered transaction with the message path,
// the instance it addressed and the status the instance moved to.
type ActionTagger struct{}

var _ capcall.Decorator = ActionTagger{}

func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

func (ActionTagger) Check(ctx capcall.Context, db capcall.KVStore, tx capcall.Tx, next capcall.Checker) (*capcall.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver tags a successful result. Failed transactions are not indexed.
func (ActionTagger) Deliver(ctx capcall.Context, db capcall.KVStore, tx capcall.Tx, next capcall.Deliverer) (*capcall.DeliverResult, error) {
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, tag(ActionKey, tx.GetPath()))
	if len(res.Instance) != 0 {
		res.Tags = append(res.Tags, tag(InstanceKey, res.Instance.String()))
	}
	if res.Transition.Changed() {
		res.Tags = append(res.Tags, tag(StatusKey, res.Transition.To))
	}
	return res, nil
}

func tag(key, value string) common.KVPair {
	return common.KVPair{Key: []byte(key), Value: []byte(value)}
}
