package main

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/iov-one/supersig/cmd/supersigd/app"
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/weave"
	"github.com/iov-one/supersig/x/sigs"
	"github.com/iov-one/supersig/x/supersig"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/ed25519"
)

const bech32Prefix = "sig"

func addrCmd() *cobra.Command {
	var (
		moduleID string
		treasury bool
	)
	cmd := &cobra.Command{
		Use:   "addr <hex public key | treasury index>",
		Short: "Print the address of a key or of a treasury",
		Long: `Print the address of an ed25519 public key in hex and bech32 format.
With --treasury the argument is a treasury index and the derived treasury
address is printed instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				addr weave.Address
				err  error
			)
			if treasury {
				addr, err = treasuryAddress(moduleID, args[0])
			} else {
				addr, err = keyAddress(args[0])
			}
			if err != nil {
				return err
			}
			return printAddress(cmd.OutOrStdout(), addr)
		},
	}
	cmd.Flags().BoolVar(&treasury, "treasury", false, "derive the address of the treasury with given index")
	cmd.Flags().StringVar(&moduleID, "module_id", app.DefaultModuleID, "namespace of treasury addresses")
	return cmd
}

func keyAddress(pubHex string) (weave.Address, error) {
	raw, err := hex.DecodeString(pubHex)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "public key: %s", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, errors.Wrapf(errors.ErrInput, "public key must be %d bytes", ed25519.PublicKeySize)
	}
	return sigs.KeyAddress(ed25519.PublicKey(raw)), nil
}

func treasuryAddress(moduleID, index string) (weave.Address, error) {
	ns, err := supersig.NewNamespace(moduleID)
	if err != nil {
		return nil, err
	}
	var n uint64
	if _, err := fmt.Sscan(index, &n); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "treasury index: %s", err)
	}
	return ns.Address(n), nil
}

func printAddress(w io.Writer, addr weave.Address) error {
	b32, err := addr.Bech32(bech32Prefix)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "hex:    %s\nbech32: %s\n", addr, b32)
	return err
}
