package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/iov-one/capcall"
	capcalld "github.com/iov-one/capcall/cmd/capcalld/app"
	"github.com/iov-one/capcall/commands/server"
	"github.com/tendermint/tendermint/libs/log"
)

type command struct {
	help string
	run  func(logger log.Logger, home string, args []string) error
}

var commands = map[string]command{
	"init": {
		help: "write the ledger genesis into the tendermint genesis file",
		run: func(logger log.Logger, home string, args []string) error {
			return server.InitCmd(capcalld.GenInitOptions, logger, home, args)
		},
	},
	"start": {
		help: "serve the capital call ledger over abci",
		run: func(logger log.Logger, home string, args []string) error {
			return server.StartCmd(capcalld.GenerateApp, logger, home, args)
		},
	},
	"version": {
		help: "print the node version",
		run: func(log.Logger, string, []string) error {
			fmt.Println(capcall.Version())
			return nil
		},
	},
}

func main() {
	home := flag.String("home", filepath.Join(os.ExpandEnv("$HOME"), ".capcall"), "node data directory")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 || flag.Arg(0) == "help" {
		usage()
		return
	}
	cmd, ok := commands[flag.Arg(0)]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", flag.Arg(0))
		usage()
		os.Exit(2)
	}

	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).With("module", "capcall")
	if err := cmd.run(logger, *home, flag.Args()[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %+v\n", flag.Arg(0), err)
		os.Exit(1)
	}
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "capcalld: capital call escrow node\n\nusage: capcalld [-home dir] <command> [args]\n\n")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %-8s %s\n", name, commands[name].help)
	}
	fmt.Fprintln(out)
	flag.PrintDefaults()
}
