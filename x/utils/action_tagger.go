package utils

import (
	"github.com/iov-one/supersig/weave"
	"github.com/tendermint/tendermint/libs/common"
)

// ActionTagger will inspect the message being executed and
// add a tag `message.action = msg.Path()`. This should be applied as
// a decorator so clients have a standard way to search / subscribe
// to eg. treasury creation.
type ActionTagger struct{}

var _ weave.Decorator = ActionTagger{}

// ActionKey is used by ActionTagger as the attribute key of the event it
// appends.
const ActionKey = "action"

// NewActionTagger creates a ActionTagger decorator
func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

// Check just passes the request along
func (ActionTagger) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver appends an action event on the result if there is a success.
func (ActionTagger) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	// if we error in reporting, let's do so early before dispatching
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}

	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.Events = append(res.Events, Action{Path: msg.Path()})
	return res, nil
}

// Action is the event describing which message was processed.
type Action struct {
	Path string
}

var _ weave.Event = Action{}

func (Action) EventType() string { return "message" }

func (a Action) EventAttributes() []common.KVPair {
	return []common.KVPair{{Key: []byte(ActionKey), Value: []byte(a.Path)}}
}
