package searchorder_test

import (
	"errors"
	"testing"

	"github.com/fine-structures/ringorder/goring"
	"github.com/fine-structures/ringorder/libring/prefs"
	"github.com/fine-structures/ringorder/libring/searchorder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPref(t *testing.T) (*searchorder.Pref, goring.PrefsStore) {
	t.Helper()
	st, err := prefs.OpenStore(nil, goring.StoreOpts{})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	pref, err := searchorder.NewPref(st)
	require.NoError(t, err)
	return pref, st
}

func TestChoices(t *testing.T) {
	choices := searchorder.Choices()
	require.Len(t, choices, searchorder.NumChoices)
	for i, ch := range choices {
		assert.Equal(t, goring.ChoiceID(i+1), ch.ID)
		assert.NotEmpty(t, ch.Label)
		assert.NotEmpty(t, ch.IconState)
	}

	_, ok := searchorder.LookupChoice(0)
	assert.False(t, ok)
	_, ok = searchorder.LookupChoice(5)
	assert.False(t, ok)

	ch, ok := searchorder.LookupChoice(searchorder.NotContaining)
	require.True(t, ok)
	assert.Equal(t, "mark_minus", ch.IconState)
}

func TestLoadDefault(t *testing.T) {
	pref, st := newPref(t)

	order, err := pref.Load()
	require.NoError(t, err)
	assert.Equal(t, goring.Order{1, 2, 3, 4}, order)

	var pg goring.PersistedGraph
	require.NoError(t, st.GetDefault(searchorder.PrefKey, &pg))
	assert.Equal(t, goring.PersistedGraph{"0": 1, "1": 2, "2": 3, "3": 4, "4": 0}, pg)
}

func TestCommitAndLoad(t *testing.T) {
	pref, st := newPref(t)

	require.NoError(t, pref.Commit(goring.Order{1, 2, 4, 3}))

	var pg goring.PersistedGraph
	require.NoError(t, st.Get(searchorder.PrefKey, &pg))
	assert.Equal(t, goring.PersistedGraph{"0": 1, "1": 2, "2": 4, "4": 3, "3": 0}, pg)

	order, err := pref.Load()
	require.NoError(t, err)
	assert.Equal(t, goring.Order{1, 2, 4, 3}, order)

	err = pref.Commit(goring.Order{1, 2, 3})
	assert.True(t, errors.Is(err, goring.ErrInvalidArgument))

	order, err = pref.Reset()
	require.NoError(t, err)
	assert.Equal(t, searchorder.DefaultOrder, order)
	order, err = pref.Load()
	require.NoError(t, err)
	assert.Equal(t, searchorder.DefaultOrder, order)
}

func TestCorruptStoredGraph(t *testing.T) {
	pref, st := newPref(t)

	require.NoError(t, st.Set(searchorder.PrefKey, goring.PersistedGraph{"0": 1, "1": 2, "2": 0}))

	_, err := pref.Load()
	require.True(t, errors.Is(err, goring.ErrCorruptConfig), "%v", err)
	var ie *goring.IntegrityError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, goring.ChoiceID(2), ie.Node)

	assert.Equal(t, searchorder.DefaultOrder, pref.LoadOrDefault())

	_, err = pref.NextState(0)
	assert.True(t, errors.Is(err, goring.ErrCorruptConfig))

	require.NoError(t, st.Set(searchorder.PrefKey, "not a graph"))
	_, err = pref.Load()
	assert.True(t, errors.Is(err, goring.ErrCorruptConfig), "%v", err)
}

func TestNextState(t *testing.T) {
	pref, _ := newPref(t)
	require.NoError(t, pref.Commit(goring.Order{2, 1, 4, 3}))

	var cycle []goring.ChoiceID
	state := goring.StartNode
	for i := 0; i <= searchorder.NumChoices; i++ {
		next, err := pref.NextState(state)
		require.NoError(t, err)
		cycle = append(cycle, next)
		state = next
	}
	assert.Equal(t, []goring.ChoiceID{2, 1, 4, 3, 0}, cycle)

	_, err := pref.NextState(9)
	assert.True(t, errors.Is(err, goring.ErrInvalidArgument))
}

func TestSession(t *testing.T) {
	pref, _ := newPref(t)
	sess := pref.NewSession()

	assert.Equal(t, -1, sess.Row())
	assert.False(t, sess.MoveUp())
	assert.False(t, sess.MoveDown())
	assert.False(t, sess.Changed())

	require.True(t, sess.Select(2))
	require.True(t, sess.MoveDown())
	assert.Equal(t, 3, sess.Row())
	assert.Equal(t, goring.Order{1, 2, 4, 3}, sess.Order())
	assert.False(t, sess.MoveDown())
	assert.True(t, sess.Changed())

	labels := sess.Labels()
	assert.Equal(t, "Search for books not containing the current item or its children", labels[2])

	require.NoError(t, sess.Commit())
	assert.False(t, sess.Changed())
	order, err := pref.Load()
	require.NoError(t, err)
	assert.Equal(t, goring.Order{1, 2, 4, 3}, order)

	// a fresh session sees the committed order
	sess = pref.NewSession()
	assert.Equal(t, goring.Order{1, 2, 4, 3}, sess.Order())
	require.True(t, sess.Select(0))
	assert.False(t, sess.MoveUp())
	assert.False(t, sess.Select(4))

	require.NoError(t, sess.Reset())
	assert.Equal(t, searchorder.DefaultOrder, sess.Order())
	order, err = pref.Load()
	require.NoError(t, err)
	assert.Equal(t, searchorder.DefaultOrder, order)
}
