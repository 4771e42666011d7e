package libring_test

import (
	"errors"
	"testing"

	"github.com/fine-structures/ringorder/goring"
	"github.com/fine-structures/ringorder/libring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGraphExpr(t *testing.T) {
	exprs := []string{
		"{0:1, 1:2, 2:4, 4:3, 3:0}",
		"0:1,1:2,2:4,4:3,3:0",
		"{3:0, 0:1, 4:3, 1:2, 2:4}",
		`{"0": 1, "1": 2, "2": 4, "4": 3, "3": 0}`,
	}
	for _, expr := range exprs {
		g, err := libring.ParseGraphExpr(expr, 0)
		require.NoError(t, err, expr)
		assert.Equal(t, goring.SuccessorGraph{1, 2, 4, 0, 3}, g, expr)
		assert.Equal(t, "{0:1, 1:2, 2:4, 4:3, 3:0}", g.String())
	}
}

func TestParseGraphExprSized(t *testing.T) {
	// inferred size makes a short cycle look valid
	g, err := libring.ParseGraphExpr("{0:1, 1:2, 2:0}", 0)
	require.NoError(t, err)
	order, err := libring.MustNewRing(libring.NaturalOrder(g.Size())).Decode(g)
	require.NoError(t, err)
	assert.Equal(t, goring.Order{1, 2}, order)

	// declared size exposes it
	g, err = libring.ParseGraphExpr("{0:1, 1:2, 2:0}", 4)
	require.NoError(t, err)
	_, err = gRing4.Decode(g)
	assert.True(t, errors.Is(err, goring.ErrCorruptConfig))

	g, err = libring.ParseGraphExpr(`{"0": 1, "1": 2, "2": 0}`, 4)
	require.NoError(t, err)
	assert.Len(t, g, 5)
}

func TestParseGraphExprErrors(t *testing.T) {
	for _, expr := range []string{
		"{0:1, 0:2}",
		"{0:1, 1:x}",
		"{0:300}",
		"{0:-1}",
	} {
		_, err := libring.ParseGraphExpr(expr, 0)
		assert.True(t, errors.Is(err, goring.ErrBadExpr), "%q: %v", expr, err)
	}

	_, err := libring.ParseGraphExpr("{0:1, 1:5, 5:0}", 4)
	assert.True(t, errors.Is(err, goring.ErrCorruptConfig), "%v", err)

	_, err = libring.ParseGraphExpr(`{"0": 1, "x": 0}`, 4)
	assert.True(t, errors.Is(err, goring.ErrCorruptConfig), "%v", err)
}

func TestParseOrderExpr(t *testing.T) {
	for _, expr := range []string{"[1,2,4,3]", "1,2,4,3", "1 2 4 3", " [ 1, 2, 4, 3 ] "} {
		order, err := libring.ParseOrderExpr(expr)
		require.NoError(t, err, expr)
		assert.Equal(t, goring.Order{1, 2, 4, 3}, order, expr)
	}

	for _, expr := range []string{"[1,2,0]", "[1,a]", "[1,2,999]"} {
		_, err := libring.ParseOrderExpr(expr)
		assert.True(t, errors.Is(err, goring.ErrBadExpr), "%q: %v", expr, err)
	}
}
