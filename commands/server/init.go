package server

import (
	"encoding/json"
	"io/ioutil"
	"path/filepath"

	"github.com/iov-one/supersig/errors"
	"github.com/spf13/cobra"
)

const flagForce = "force"

// InitCmd adds the application state produced by gen to the genesis file
// of a node. The genesis file must exist, it is created by
// `tendermint init`.
func InitCmd(gen GenOptions, opts *Options) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [args]",
		Short: "Initialize app options in genesis file",
		RunE: func(cmd *cobra.Command, args []string) error {
			options, err := gen(args)
			if err != nil {
				return err
			}
			genFile := filepath.Join(opts.Home, "config", "genesis.json")
			if err := addGenesisOptions(genFile, options, force); err != nil {
				return err
			}
			opts.Logger.Info("app_state written", "genesis", genFile)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, flagForce, false, "overwrite an existing app_state")
	return cmd
}

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

func addGenesisOptions(filename string, options json.RawMessage, force bool) error {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return errors.Wrap(errors.ErrNotFound, err.Error())
	}

	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot parse %s: %s", filename, err)
	}

	if state := doc["app_state"]; len(state) > 0 && string(state) != "null" && !force {
		return errors.Wrap(errors.ErrState, "app_state already set")
	}
	doc["app_state"] = options
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return ioutil.WriteFile(filename, out, 0600)
}
