package main

import (
	"fmt"

	"github.com/fine-structures/ringorder/libring"
	"github.com/spf13/cobra"
)

func newDecodeCmd() *cobra.Command {
	var size int

	cmd := &cobra.Command{
		Use:   "decode <graph-expr>",
		Short: "Print the displayed order of a successor graph, e.g. '{0:1, 1:2, 2:0}'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := libring.ParseGraphExpr(args[0], size)
			if err != nil {
				return err
			}
			ring, err := libring.NewRing(libring.NaturalOrder(g.Size()))
			if err != nil {
				return err
			}
			order, err := ring.Decode(g)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), order.String())
			return nil
		},
	}
	cmd.Flags().IntVarP(&size, "size", "n", 0, "number of choices (inferred from the graph when 0)")
	return cmd
}

func newEncodeCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "encode <order-expr>",
		Short: "Print the successor graph of a displayed order, e.g. '[1,2,4,3]'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := libring.ParseOrderExpr(args[0])
			if err != nil {
				return err
			}
			ring, err := libring.NewRing(libring.NaturalOrder(len(order)))
			if err != nil {
				return err
			}
			g, err := ring.Encode(order)
			if err != nil {
				return err
			}
			if asJSON {
				buf, err := libring.MarshalGraphJSON(g)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(buf))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), g.String())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the stored JSON form")
	return cmd
}
