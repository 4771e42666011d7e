package main

import (
	"flag"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fine-structures/ringorder/goring"
	"github.com/fine-structures/ringorder/libring/prefs"
	"github.com/plan-systems/klog"
	"github.com/spf13/cobra"
)

// app carries the resources shared by subcommands
type app struct {
	cfg      *Config
	storeCtx goring.StoreContext
	store    goring.PrefsStore
}

// openStore opens the preferences store on first use.
func (a *app) openStore() (goring.PrefsStore, error) {
	if a.store != nil {
		return a.store, nil
	}
	if !a.cfg.ReadOnly && a.cfg.DbPath != "" {
		if err := os.MkdirAll(filepath.Dir(a.cfg.DbPath), 0o755); err != nil {
			return nil, err
		}
	}
	if a.storeCtx == nil {
		a.storeCtx = goring.NewStoreContext()
	}
	klog.V(2).Infof("goring: opening store %q", a.cfg.DbPath)
	store, err := prefs.OpenStore(a.storeCtx, goring.StoreOpts{
		DbPathName: a.cfg.DbPath,
		ReadOnly:   a.cfg.ReadOnly,
	})
	if err != nil {
		return nil, err
	}
	a.store = store
	return store, nil
}

func (a *app) close() {
	if a.storeCtx != nil {
		a.storeCtx.Close()
		<-a.storeCtx.Done()
		a.storeCtx = nil
		a.store = nil
	}
}

// newRootCmd returns the CLI along with a func that releases whatever its commands opened.
func newRootCmd(cfg *Config, logFlags *flag.FlagSet) (*cobra.Command, func()) {
	a := &app{
		cfg: cfg,
	}

	rootCmd := &cobra.Command{
		Use:   "goring",
		Short: "goring edits ordered-choice preferences such as the tag browser search order.",
		Long: `goring edits ordered-choice preferences such as the tag browser search order ` +
			`and displayed-field layouts, and converts between successor graphs and displayed orders.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logFlags.Set("v", strconv.Itoa(cfg.LogV))
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfg.DbPath, "db", cfg.DbPath, "preferences store path (empty for an in-memory store)")
	flags.BoolVar(&cfg.ReadOnly, "read-only", cfg.ReadOnly, "open the preferences store read-only")
	flags.IntVarP(&cfg.LogV, "verbosity", "v", cfg.LogV, "log verbosity")

	rootCmd.AddCommand(
		newOrderCmd(a),
		newDecodeCmd(),
		newEncodeCmd(),
		newFieldsCmd(a),
		newScriptCmd(a),
	)

	return rootCmd, a.close
}
