package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:     "tokenctl",
		Usage:    "Operator tooling for the token dashboard backend",
		Version:  "0.1.0",
		Commands: commands(),
	}
}

func commands() []*cli.Command {
	return []*cli.Command{
		keygenCmd,
		deriveAddressCmd,
		decodeKeyCmd,
		hashPasswordCmd,
		genSecretCmd,
		balanceCmd,
	}
}
