package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"

	"token-dashboard.backend/internal/config"
	"token-dashboard.backend/internal/infrastructure/blockchain"
	"token-dashboard.backend/pkg/crypto"
	"token-dashboard.backend/pkg/units"
)

var (
	loadCfg   = config.Load
	dialChain = blockchain.NewEVMClient
)

var errMissingArg = errors.New("missing argument")

// keygenCmd creates a fresh key pair, e.g. for ADMIN_PRIVATE_KEY
var keygenCmd = &cli.Command{
	Name:  "keygen",
	Usage: "generate a new secp256k1 key pair",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "stored", Usage: "also print the at-rest encoding used for custody wallets"},
	},
	Action: func(cctx *cli.Context) error {
		key, err := blockchain.GenerateKey()
		if err != nil {
			return err
		}
		out := cctx.App.Writer
		fmt.Fprintf(out, "ADDRESS=%s\n", key.Address)
		fmt.Fprintf(out, "PRIVATE_KEY=%s\n", key.PrivateKeyHex)
		if cctx.Bool("stored") {
			fmt.Fprintf(out, "STORED_KEY=%s\n", blockchain.EncodeStoredKey(key.PrivateKeyHex))
		}
		return nil
	},
}

var deriveAddressCmd = &cli.Command{
	Name:      "derive-address",
	Usage:     "print the address of a hex private key",
	ArgsUsage: "<private-key>",
	Action: func(cctx *cli.Context) error {
		keyHex := cctx.Args().First()
		if keyHex == "" {
			return fmt.Errorf("%w: private-key", errMissingArg)
		}
		address, err := blockchain.AddressFromPrivateKeyHex(keyHex)
		if err != nil {
			return err
		}
		fmt.Fprintln(cctx.App.Writer, address)
		return nil
	},
}

// decodeKeyCmd recovers the hex key and address from a stored custody key
var decodeKeyCmd = &cli.Command{
	Name:      "decode-key",
	Usage:     "decode a stored custody wallet key",
	ArgsUsage: "<stored-key>",
	Action: func(cctx *cli.Context) error {
		stored := cctx.Args().First()
		if stored == "" {
			return fmt.Errorf("%w: stored-key", errMissingArg)
		}
		keyHex, err := blockchain.DecodeStoredKey(stored)
		if err != nil {
			return err
		}
		address, err := blockchain.AddressFromPrivateKeyHex(keyHex)
		if err != nil {
			return err
		}
		fmt.Fprintf(cctx.App.Writer, "ADDRESS=%s\nPRIVATE_KEY=%s\n", address, keyHex)
		return nil
	},
}

var hashPasswordCmd = &cli.Command{
	Name:      "hash-password",
	Usage:     "print a bcrypt hash for seeding users",
	ArgsUsage: "<password>",
	Action: func(cctx *cli.Context) error {
		password := cctx.Args().First()
		if password == "" {
			return fmt.Errorf("%w: password", errMissingArg)
		}
		hash, err := crypto.HashPassword(password)
		if err != nil {
			return err
		}
		fmt.Fprintln(cctx.App.Writer, hash)
		return nil
	},
}

var genSecretCmd = &cli.Command{
	Name:  "gen-secret",
	Usage: "generate a random hex secret for JWT_SECRET",
	Flags: []cli.Flag{
		&cli.IntFlag{Name: "bytes", Value: 32, Usage: "number of random bytes"},
	},
	Action: func(cctx *cli.Context) error {
		secret, err := crypto.NewHexSecret(cctx.Int("bytes"))
		if err != nil {
			return err
		}
		fmt.Fprintf(cctx.App.Writer, "JWT_SECRET=%s\n", secret)
		return nil
	},
}

// balanceCmd reads a token balance using the server's chain configuration
var balanceCmd = &cli.Command{
	Name:      "balance",
	Usage:     "read the token balance of an address",
	ArgsUsage: "<address>",
	Flags: []cli.Flag{
		&cli.DurationFlag{Name: "timeout", Value: 15 * time.Second},
	},
	Action: func(cctx *cli.Context) error {
		address := cctx.Args().First()
		if !blockchain.IsHexAddress(address) {
			return fmt.Errorf("invalid address %q", address)
		}
		cfg := loadCfg()

		ctx, cancel := context.WithTimeout(cctx.Context, cctx.Duration("timeout"))
		defer cancel()

		evm, err := dialChain(ctx, cfg.Blockchain.RPCURL)
		if err != nil {
			return fmt.Errorf("failed to connect to chain: %w", err)
		}
		defer evm.Close()

		token, err := blockchain.NewERC20Client(evm, cfg.Blockchain.TokenAddress)
		if err != nil {
			return err
		}
		raw, err := token.BalanceOf(ctx, common.HexToAddress(address))
		if err != nil {
			return err
		}
		fmt.Fprintln(cctx.App.Writer, units.FormatUnits(raw, cfg.Blockchain.TokenDecimals))
		return nil
	},
}
