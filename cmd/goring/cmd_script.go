package main

import (
	"fmt"
	"time"

	"github.com/fine-structures/ringorder/goring"
	"github.com/fine-structures/ringorder/pyring"
	"github.com/go-python/gpython/py"
	"github.com/go-python/gpython/repl"
	"github.com/go-python/gpython/repl/cli"
	"github.com/spf13/cobra"

	_ "github.com/go-python/gpython/stdlib"
)

// runScript runs the given python file, or a REPL when pathname is empty.
func runScript(pathname string, printf func(format string, args ...interface{})) error {
	ctx := py.NewContext(py.DefaultContextOpts())

	var err error
	if len(pathname) == 0 {
		replCtx := repl.New(ctx)
		cli.RunREPL(replCtx)
	} else {
		startTime := time.Now()
		printf("<<<>>>   executing '%s'   <<<>>>\n", pathname)

		_, err = py.RunFile(ctx, pathname, py.CompileOpts{}, nil)
		if err == nil {
			printf("<<<>>>   execution complete: %v   <<<>>>\n", time.Since(startTime))
		}
	}

	ctx.Close()
	<-ctx.Done()

	if err != nil {
		py.TracebackDump(err)
	}
	return err
}

func newScriptCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "script [file.py]",
		Short: "Run a python script (or a REPL) with the 'ring' module available",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// scripts open their own stores; the CLI's store must not hold the db lock
			a.close()
			pyring.DefaultStoreOpts = goring.StoreOpts{
				DbPathName: a.cfg.DbPath,
				ReadOnly:   a.cfg.ReadOnly,
			}

			pathname := ""
			if len(args) > 0 {
				pathname = args[0]
			}
			out := cmd.OutOrStdout()
			return runScript(pathname, func(format string, args ...interface{}) {
				fmt.Fprintf(out, format, args...)
			})
		},
	}
}
