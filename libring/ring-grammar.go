package libring

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/fine-structures/ringorder/goring"
	"github.com/pkg/errors"
)

// GraphExpr is a successor graph written as node:next arcs, e.g. "{0:1, 1:2, 2:4, 4:3, 3:0}"
type GraphExpr struct {
	Arcs []*ArcExpr `parser:"\"{\"? ( @@ ( \",\" @@ )* )? \"}\"?"`
}

type ArcExpr struct {
	From int64 `parser:"@Int \":\""`
	To   int64 `parser:"@Int"`
}

// OrderExpr is a displayed order written as a list of choice IDs, e.g. "[1,2,4,3]" or "1,2,4,3"
type OrderExpr struct {
	IDs []int64 `parser:"\"[\"? ( @Int ( \",\"? @Int )* )? \"]\"?"`
}

var (
	parseGraphExpr = participle.MustBuild[GraphExpr]()
	parseOrderExpr = participle.MustBuild[OrderExpr]()
)

// ParseGraphExpr reads a SuccessorGraph from a graph expression or from its JSON stored form.
//
// If n <= 0, the ring size is taken to be the largest ID named in the expression.
func ParseGraphExpr(expr string, n int) (goring.SuccessorGraph, error) {
	if strings.ContainsRune(expr, '"') {
		return parseGraphJSON(expr, n)
	}

	Gexpr, err := parseGraphExpr.ParseString("", expr)
	if err != nil {
		return nil, errors.Wrap(goring.ErrBadExpr, err.Error())
	}

	pg := make(goring.PersistedGraph, len(Gexpr.Arcs))
	maxID := int64(0)
	for _, arc := range Gexpr.Arcs {
		if arc.From < 0 || arc.From > goring.MaxRingSize || arc.To < 0 || arc.To > goring.MaxRingSize {
			return nil, errors.Wrapf(goring.ErrBadExpr, "arc %d:%d is out of range", arc.From, arc.To)
		}
		key := formNodeKey(arc.From)
		if _, dupe := pg[key]; dupe {
			return nil, errors.Wrapf(goring.ErrBadExpr, "node %d has more than one arc", arc.From)
		}
		pg[key] = int(arc.To)
		if maxID < arc.From {
			maxID = arc.From
		}
		if maxID < arc.To {
			maxID = arc.To
		}
	}

	if n <= 0 {
		n = int(maxID)
	}
	return GraphFromPersisted(pg, n)
}

func parseGraphJSON(expr string, n int) (goring.SuccessorGraph, error) {
	if n > 0 {
		return UnmarshalGraphJSON([]byte(expr), n)
	}
	g, err := UnmarshalGraphJSON([]byte(expr), goring.MaxRingSize)
	if err != nil {
		return nil, err
	}

	// Trim to the largest node named
	maxID := 0
	for node, next := range g {
		if next != goring.NoArc {
			if maxID < node {
				maxID = node
			}
			if maxID < int(next) {
				maxID = int(next)
			}
		}
	}
	if maxID == 0 {
		return nil, errors.Wrap(goring.ErrBadExpr, "graph names no choices")
	}
	return g[:maxID+1], nil
}

// ParseOrderExpr reads an Order from an order expression.  It does not check that the Order is a permutation.
func ParseOrderExpr(expr string) (goring.Order, error) {
	Oexpr, err := parseOrderExpr.ParseString("", expr)
	if err != nil {
		return nil, errors.Wrap(goring.ErrBadExpr, err.Error())
	}

	order := make(goring.Order, len(Oexpr.IDs))
	for i, id := range Oexpr.IDs {
		if id < 1 || id > goring.MaxRingSize {
			return nil, errors.Wrapf(goring.ErrBadExpr, "choice ID %d is out of range", id)
		}
		order[i] = goring.ChoiceID(id)
	}
	return order, nil
}

func formNodeKey(node int64) string {
	return strconv.FormatInt(node, 10)
}
