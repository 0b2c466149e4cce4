package server

import (
	"encoding/json"

	"github.com/prometheus/client_golang/prometheus"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// Options are the node settings resolved from the command line. They are
// shared by every command of a binary.
type Options struct {
	Home   string
	Logger log.Logger
	Debug  bool
	// Metrics is the registry application metrics are reported to. It is
	// nil when metrics are disabled.
	Metrics prometheus.Registerer
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(*Options) (abci.Application, error)

// GenOptions can parse command-line and flag to
// generate default app_options for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)
