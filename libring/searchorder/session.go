package searchorder

import (
	"github.com/fine-structures/ringorder/goring"
)

// Session is an in-progress edit of the search order, as shown in a reorderable list.
// A Session is not safe for concurrent use.
type Session struct {
	pref    *Pref
	order   goring.Order
	row     int // current row or -1 when nothing is selected
	changed bool
}

// NewSession starts editing the stored search order.
func (pref *Pref) NewSession() *Session {
	return &Session{
		pref:  pref,
		order: pref.LoadOrDefault(),
		row:   -1,
	}
}

// Order returns a copy of the displayed order.
func (sess *Session) Order() goring.Order {
	return sess.order.Clone()
}

// Labels returns the label of each displayed row.
func (sess *Session) Labels() []string {
	return Labels(sess.order)
}

func (sess *Session) Row() int {
	return sess.row
}

// Changed returns true if the displayed order differs from what was last loaded or committed.
func (sess *Session) Changed() bool {
	return sess.changed
}

// Select makes the given row current.  Returns false if row is out of range.
func (sess *Session) Select(row int) bool {
	if row < 0 || row >= len(sess.order) {
		return false
	}
	sess.row = row
	return true
}

func (sess *Session) MoveUp() bool {
	return sess.move(goring.Up)
}

func (sess *Session) MoveDown() bool {
	return sess.move(goring.Down)
}

// move shifts the current row; the selection follows the moved choice.
func (sess *Session) move(dir goring.Direction) bool {
	moved, ok := Ring.Move(sess.order, sess.row, dir)
	if !ok {
		return false
	}
	sess.order = moved
	sess.row += int(dir)
	sess.changed = true
	return true
}

// Reset restores the default order in the store and redisplays it.
func (sess *Session) Reset() error {
	order, err := sess.pref.Reset()
	if err != nil {
		return err
	}
	sess.order = order
	sess.row = -1
	sess.changed = true
	return nil
}

// Commit stores the displayed order if it changed.
func (sess *Session) Commit() error {
	if !sess.changed {
		return nil
	}
	if err := sess.pref.Commit(sess.order); err != nil {
		return err
	}
	sess.changed = false
	return nil
}
