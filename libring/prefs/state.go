package prefs

import (
	"github.com/fine-structures/ringorder/goring"
	"github.com/gogo/protobuf/proto"
	"github.com/pkg/errors"
)

// storeState is the format record kept at gStoreStateKey
type storeState struct {
	MajorVers uint64
	MinorVers uint64
}

func (state *storeState) Marshal() []byte {
	buf := proto.EncodeVarint(state.MajorVers)
	return append(buf, proto.EncodeVarint(state.MinorVers)...)
}

func (state *storeState) Unmarshal(buf []byte) error {
	major, n := proto.DecodeVarint(buf)
	if n == 0 {
		return errors.Wrap(goring.ErrCorruptConfig, "bad store state")
	}
	minor, m := proto.DecodeVarint(buf[n:])
	if m == 0 {
		return errors.Wrap(goring.ErrCorruptConfig, "bad store state")
	}
	state.MajorVers = major
	state.MinorVers = minor
	return nil
}
