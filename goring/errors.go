package goring

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrCorruptConfig    = errors.New("corrupt configuration")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrBadExpr          = errors.New("bad expression")
	ErrPrefNotFound     = errors.New("preference not found")
	ErrReadOnly         = errors.New("store is read-only")
	ErrStoreClosed      = errors.New("store is closed")
	ErrBadStoreParam    = errors.New("bad store param")
	ErrIncompatibleVers = errors.New("store version is incompatible")
)

// IntegrityReason says why a SuccessorGraph walk could not complete.
type IntegrityReason byte

const (
	MissingArc IntegrityReason = iota + 1
	ArcOutOfRange
	NodeRevisited
	CycleTooShort
	WalkUnterminated
	SizeMismatch
)

var kReasonStrs = [...]string{
	"",
	"node has no successor",
	"successor out of range",
	"node revisited",
	"cycle returns to start too early",
	"walk did not terminate",
	"graph size does not match ring size",
}

func (r IntegrityReason) String() string {
	if int(r) < len(kReasonStrs) {
		return kReasonStrs[r]
	}
	return "unknown"
}

// IntegrityError reports the node at which a SuccessorGraph failed to resolve.
// It unwraps to ErrCorruptConfig.
type IntegrityError struct {
	Node   ChoiceID
	Reason IntegrityReason
}

func (err *IntegrityError) Error() string {
	return fmt.Sprintf("%v: node %d: %v", ErrCorruptConfig, err.Node, err.Reason)
}

func (err *IntegrityError) Unwrap() error {
	return ErrCorruptConfig
}
