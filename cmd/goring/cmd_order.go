package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fine-structures/ringorder/goring"
	"github.com/fine-structures/ringorder/libring"
	"github.com/fine-structures/ringorder/libring/searchorder"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func (a *app) searchOrderPref() (*searchorder.Pref, error) {
	store, err := a.openStore()
	if err != nil {
		return nil, err
	}
	return searchorder.NewPref(store)
}

func printOrder(out io.Writer, order goring.Order) {
	for row, id := range order {
		label := "?"
		if ch, ok := searchorder.LookupChoice(id); ok {
			label = ch.Label
		}
		fmt.Fprintf(out, "%d. [%d] %s\n", row, id, label)
	}
}

func parseDirection(arg string) (goring.Direction, error) {
	switch arg {
	case "up":
		return goring.Up, nil
	case "down":
		return goring.Down, nil
	}
	return 0, errors.Wrapf(goring.ErrInvalidArgument, "direction %q (expected up or down)", arg)
}

func parseRow(arg string) (int, error) {
	row, err := strconv.Atoi(arg)
	if err != nil {
		return 0, errors.Wrapf(goring.ErrInvalidArgument, "row %q", arg)
	}
	return row, nil
}

func newOrderCmd(a *app) *cobra.Command {
	orderCmd := &cobra.Command{
		Use:   "order",
		Short: "Show or edit the tag browser search order",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the search order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pref, err := a.searchOrderPref()
			if err != nil {
				return err
			}
			order, err := pref.Load()
			if err != nil {
				return errors.Wrap(err, "run 'goring order reset' to restore the default")
			}
			printOrder(cmd.OutOrStdout(), order)
			return nil
		},
	}

	graphCmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the stored successor graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pref, err := a.searchOrderPref()
			if err != nil {
				return err
			}
			g, err := pref.Graph()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), g.String())
			return nil
		},
	}

	moveCmd := &cobra.Command{
		Use:   "move <row> <up|down>",
		Short: "Move a row of the search order up or down and save it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, err := parseRow(args[0])
			if err != nil {
				return err
			}
			dir, err := parseDirection(args[1])
			if err != nil {
				return err
			}
			pref, err := a.searchOrderPref()
			if err != nil {
				return err
			}

			sess := pref.NewSession()
			if !sess.Select(row) {
				return errors.Wrapf(goring.ErrInvalidArgument, "row %d is out of range", row)
			}
			var moved bool
			if dir == goring.Up {
				moved = sess.MoveUp()
			} else {
				moved = sess.MoveDown()
			}
			if !moved {
				fmt.Fprintf(cmd.OutOrStdout(), "row %d cannot move %v\n", row, dir)
			}
			if err = sess.Commit(); err != nil {
				return err
			}
			printOrder(cmd.OutOrStdout(), sess.Order())
			return nil
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <order-expr>",
		Short: "Save an explicit search order, e.g. [1,2,4,3]",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := libring.ParseOrderExpr(args[0])
			if err != nil {
				return err
			}
			pref, err := a.searchOrderPref()
			if err != nil {
				return err
			}
			if err = pref.Commit(order); err != nil {
				return err
			}
			printOrder(cmd.OutOrStdout(), order)
			return nil
		},
	}

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore the default search order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pref, err := a.searchOrderPref()
			if err != nil {
				return err
			}
			order, err := pref.Reset()
			if err != nil {
				return err
			}
			printOrder(cmd.OutOrStdout(), order)
			return nil
		},
	}

	nextCmd := &cobra.Command{
		Use:   "next <state>",
		Short: "Print the search mode a click moves to from the given one (0 for none)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := strconv.ParseUint(args[0], 10, 8)
			if err != nil {
				return errors.Wrapf(goring.ErrInvalidArgument, "state %q", args[0])
			}
			pref, err := a.searchOrderPref()
			if err != nil {
				return err
			}
			next, err := pref.NextState(goring.ChoiceID(state))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), next)
			return nil
		},
	}

	orderCmd.AddCommand(showCmd, graphCmd, moveCmd, setCmd, resetCmd, nextCmd)
	return orderCmd
}
