package main

import (
	"fmt"
	"io"

	"github.com/fine-structures/ringorder/goring"
	"github.com/fine-structures/ringorder/libring/fields"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func (a *app) openLayout(name string) (*fields.Layout, error) {
	spec, ok := fields.LookupSpec(name)
	if !ok {
		return nil, errors.Wrapf(goring.ErrInvalidArgument, "unknown layout %q", name)
	}
	store, err := a.openStore()
	if err != nil {
		return nil, err
	}
	return fields.OpenLayout(store, spec)
}

func printLayout(out io.Writer, lay *fields.Layout) {
	for row, f := range lay.Fields() {
		mark := " "
		if f.Visible {
			mark = "x"
		}
		fmt.Fprintf(out, "%d. [%s] %s\n", row, mark, f.Name)
	}
}

// layoutCmd forms a subcommand that edits the named layout then commits and prints it.
func layoutCmd(a *app, use, short string, nargs int, edit func(lay *fields.Layout, args []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			lay, err := a.openLayout(args[0])
			if err != nil {
				return err
			}
			if edit != nil {
				if err = edit(lay, args[1:]); err != nil {
					return err
				}
				if err = lay.Commit(); err != nil {
					return err
				}
			}
			printLayout(cmd.OutOrStdout(), lay)
			return nil
		},
	}
}

func setVisible(visible bool) func(lay *fields.Layout, args []string) error {
	return func(lay *fields.Layout, args []string) error {
		row, err := parseRow(args[0])
		if err != nil {
			return err
		}
		if !lay.SetVisible(row, visible) {
			return errors.Wrapf(goring.ErrInvalidArgument, "row %d is out of range", row)
		}
		return nil
	}
}

func newFieldsCmd(a *app) *cobra.Command {
	fieldsCmd := &cobra.Command{
		Use:   "fields",
		Short: "Show or edit displayed-field layouts",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the known layouts",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range fields.SpecNames() {
				spec, _ := fields.LookupSpec(name)
				fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", name, spec.Key)
			}
		},
	}

	fieldsCmd.AddCommand(
		listCmd,
		layoutCmd(a, "show <layout>", "Print a layout", 1, nil),
		layoutCmd(a, "reset <layout>", "Restore a layout's defaults", 1,
			func(lay *fields.Layout, args []string) error {
				return lay.RestoreDefaults()
			}),
		layoutCmd(a, "move <layout> <row> <up|down>", "Move a field up or down", 3,
			func(lay *fields.Layout, args []string) error {
				row, err := parseRow(args[0])
				if err != nil {
					return err
				}
				dir, err := parseDirection(args[1])
				if err != nil {
					return err
				}
				if _, ok := lay.Move(row, int(dir)); !ok {
					return errors.Wrapf(goring.ErrInvalidArgument, "row %d cannot move %v", row, dir)
				}
				return nil
			}),
		layoutCmd(a, "show-field <layout> <row>", "Mark a field visible", 2, setVisible(true)),
		layoutCmd(a, "hide-field <layout> <row>", "Mark a field hidden", 2, setVisible(false)),
		layoutCmd(a, "import <layout> <file>", "Replace a layout with one read from a JSON file", 2,
			func(lay *fields.Layout, args []string) error {
				return lay.Import(args[0])
			}),
		&cobra.Command{
			Use:   "export <layout> <file>",
			Short: "Write a layout to a JSON file",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				lay, err := a.openLayout(args[0])
				if err != nil {
					return err
				}
				return lay.Export(args[1])
			},
		},
	)
	return fieldsCmd
}
