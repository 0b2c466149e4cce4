package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iov-one/supersig/cmd/supersigd/app"
	"github.com/iov-one/supersig/commands/server"
	"github.com/iov-one/supersig/weave"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagHome     = "home"
	flagDebug    = "debug"
	flagLogLevel = "log_level"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	opts := &server.Options{}
	var logLevel string

	root := &cobra.Command{
		Use:           "supersigd",
		Short:         "Multi party treasury node",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(logLevel)
			if err != nil {
				return err
			}
			opts.Logger = logger
			return nil
		},
	}

	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".supersigd")
	root.PersistentFlags().StringVar(&opts.Home, flagHome, defaultHome, "directory to store files under")
	root.PersistentFlags().BoolVar(&opts.Debug, flagDebug, false, "call stack returned on error")
	root.PersistentFlags().StringVar(&logLevel, flagLogLevel, "info", "minimal level of logged messages (debug, info, error, none)")

	root.AddCommand(
		server.InitCmd(app.GenInitOptions, opts),
		server.StartCmd(app.GenerateApp, opts),
		server.ValidateCmd(app.Initializers(), opts),
		addrCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print the app version",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Println(weave.Version())
			},
		},
	)
	return root
}

func newLogger(level string) (log.Logger, error) {
	allowed, err := log.AllowLevel(level)
	if err != nil {
		return nil, err
	}
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).With("module", "supersigd")
	return log.NewFilter(logger, allowed), nil
}
