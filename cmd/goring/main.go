package main

import (
	"flag"
	"os"
	"strconv"

	"github.com/plan-systems/klog"
)

func main() {
	cfg := LoadConfig()

	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	fset.Set("v", strconv.Itoa(cfg.LogV))
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	rootCmd, cleanup := newRootCmd(cfg, fset)
	err := rootCmd.Execute()
	cleanup()

	klog.Flush()
	if err != nil {
		os.Exit(1)
	}
}
