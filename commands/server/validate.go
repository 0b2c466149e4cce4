package server

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/store"
	"github.com/iov-one/supersig/weave"
	"github.com/spf13/cobra"
)

// ValidateCmd loads the app_state of each genesis file into a throw away
// store to find configuration errors before a chain is started.
func ValidateCmd(ini weave.Initializer, opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <genesis.json>...",
		Short: "Check the app_state of genesis files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ValidateGenesis(ini, args); err != nil {
				return err
			}
			opts.Logger.Info("genesis is valid", "files", len(args))
			return nil
		},
	}
}

// ValidateGenesis runs the initializer over the app_state of every given
// genesis file.
func ValidateGenesis(ini weave.Initializer, genesisPaths []string) error {
	for _, path := range genesisPaths {
		if err := validateGenesis(ini, path); err != nil {
			return errors.Wrap(err, path)
		}
	}
	return nil
}

func validateGenesis(ini weave.Initializer, genesisPath string) error {
	b, err := ioutil.ReadFile(genesisPath)
	if err != nil {
		return errors.Wrapf(errors.ErrNotFound, "cannot read genesis file: %s", err)
	}

	var genesis struct {
		State weave.Options `json:"app_state"`
	}
	if err := json.Unmarshal(b, &genesis); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot JSON deserialize genesis: %s", err)
	}

	// Use in memory store because we want to discard the result.
	db := store.MemStore()

	if err := ini.FromGenesis(genesis.State, db); err != nil {
		return errors.Wrap(err, "cannot initialize from genesis")
	}
	return nil
}
