package app

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/iov-one/supersig/coin"
	"github.com/iov-one/supersig/commands/server"
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/weave"
	"github.com/iov-one/supersig/x/cash"
	"github.com/iov-one/supersig/x/sigs"
	"github.com/iov-one/supersig/x/supersig"
	abci "github.com/tendermint/tendermint/abci/types"
	"golang.org/x/crypto/ed25519"
)

// DefaultModuleID is the namespace of treasury addresses of a new chain.
const DefaultModuleID = "py/susig"

// Genesis is the app_state of a supersigd chain.
type Genesis struct {
	Conf struct {
		Cash     cash.Configuration     `json:"cash"`
		Supersig supersig.Configuration `json:"supersig"`
	} `json:"conf"`
	Cash     []cash.GenesisAccount      `json:"cash"`
	Supersig []supersig.GenesisSupersig `json:"supersig,omitempty"`
}

// GenInitOptions will produce some basic options for one rich
// account, to use for dev mode.
//
// You can set the ticker and the funded address as arguments. Without an
// address a new key is generated and printed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	ticker := "IOV"
	if len(args) > 0 {
		ticker = args[0]
		if !coin.IsCC(ticker) {
			return nil, errors.Wrapf(errors.ErrCurrency, "invalid ticker %s", ticker)
		}
	}

	var addr weave.Address
	if len(args) > 1 {
		var err error
		if addr, err = weave.ParseAddress(args[1]); err != nil {
			return nil, err
		}
	} else {
		// if no address provided, auto-generate one
		// and print out the private key
		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, errors.Wrap(errors.ErrInput, err.Error())
		}
		addr = sigs.KeyAddress(pub)
		fmt.Println(hex.EncodeToString(priv))
	}

	return DevGenesis(ticker, addr)
}

// DevGenesis returns the app_state of a development chain with one rich
// account.
func DevGenesis(ticker string, rich weave.Address) (json.RawMessage, error) {
	var g Genesis
	g.Conf.Cash = cash.Configuration{MinimalBalance: coin.NewCoin(0, 10000000, ticker)}
	g.Conf.Supersig = supersig.Configuration{
		PricePerByte: coin.NewCoin(0, 1000000, ticker),
		ModuleID:     DefaultModuleID,
	}
	g.Cash = []cash.GenesisAccount{
		{Address: rich, Free: coin.NewCoin(123456789, 0, ticker)},
	}
	raw, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

// Initializers returns the genesis initializers of every extension, in the
// order they must run. Treasuries are created after the accounts that fund
// them.
func Initializers() weave.Initializer {
	return weave.ChainInitializers(
		&cash.Initializer{},
		&supersig.Initializer{},
	)
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(options *server.Options) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if options.Home != "" {
		dbPath = filepath.Join(options.Home, "supersig.db")
	}

	stack := Stack(options.Metrics)
	application, err := Application("supersig", stack, TxDecoder, dbPath, options.Debug)
	if err != nil {
		return nil, err
	}
	application.WithInit(Initializers())

	// set the logger and return
	application.WithLogger(options.Logger)
	return application, nil
}
