package server

import (
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/iov-one/capcall/errors"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagForce = "f"
	flagChain = "chain"
)

// GenOptions can parse command-line and flag to
// generate default app_state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

// InitCmd will initialize the genesis file app_state and write a default
// node configuration if none exists.
// The application can pass in a function to generate proper app_state.
// A genesis file created earlier, for example by tendermint, is updated
// in place.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	var (
		force   bool
		chainID string
	)
	flags := flag.NewFlagSet("init", flag.ContinueOnError)
	flags.BoolVar(&force, flagForce, false, "overwrite existing app_state")
	flags.StringVar(&chainID, flagChain, "", "chain id of a newly created genesis file")
	if err := flags.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	configDir := filepath.Join(home, "config")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	configPath := filepath.Join(configDir, configFile)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := WriteConfig(configPath, DefaultConfig()); err != nil {
			return err
		}
		logger.Info("Generated node configuration", "path", configPath)
	}

	genFile := filepath.Join(configDir, "genesis.json")
	doc, err := loadGenesisDoc(genFile, chainID)
	if err != nil {
		return err
	}
	if _, ok := doc["app_state"]; ok && !force {
		return errors.Wrapf(errors.ErrState, "app_state already set in %s, use -%s to overwrite", genFile, flagForce)
	}

	options, err := gen(flags.Args())
	if err != nil {
		return err
	}
	doc["app_state"] = options

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := ioutil.WriteFile(genFile, out, 0600); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	logger.Info("App state written to genesis file", "path", genFile)
	return nil
}

// loadGenesisDoc reads the genesis file or creates a minimal one.
func loadGenesisDoc(filename, chainID string) (GenesisDoc, error) {
	raw, err := ioutil.ReadFile(filename)
	if os.IsNotExist(err) {
		if chainID == "" {
			chainID = fmt.Sprintf("capcall-%d", time.Now().Unix()%100000)
		}
		id, _ := json.Marshal(chainID)
		ts, _ := json.Marshal(time.Now().UTC().Format(time.RFC3339))
		return GenesisDoc{
			"chain_id":     id,
			"genesis_time": ts,
		}, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}

	var doc GenesisDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "genesis %s: %s", filename, err)
	}
	return doc, nil
}
