package cmd

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/heirloom-labs/heirloom/config"
	"github.com/heirloom-labs/heirloom/interfaces"
	"github.com/heirloom-labs/heirloom/jsonx"
	"github.com/heirloom-labs/heirloom/keystore"
	"github.com/heirloom-labs/heirloom/ledger"
	"github.com/heirloom-labs/heirloom/logx"
	"github.com/heirloom-labs/heirloom/rpcclient"
	"github.com/heirloom-labs/heirloom/vault"
	"github.com/spf13/cobra"
)

type RunConfig struct {
	ConfigFile   string
	ProfilesFile string
	Profile      string
	Endpoint     string
	DataDir      string
	MasterKey    string
	Verbose      bool
}

var runConfig RunConfig

// runCmd executes the full inheritance flow: accounts, faucet, mint, vault
// note, deadline wait, consumption.
var runCmd = &cobra.Command{
	Use:   "run [flags]",
	Short: "Run the full inheritance vault flow",
	Long: `Runs the end-to-end flow: create owner and beneficiary accounts, deploy
a fungible faucet, mint to the owner, lock a note for the beneficiary
behind a deadline height, wait it out and consume the note.

Without --endpoint the flow runs against an in-process ledger; with it,
against a remote ledger over JSON-RPC.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFlow(runConfig)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.PersistentFlags().StringVarP(&runConfig.ConfigFile, "config", "c", "", "YAML config file")
	runCmd.PersistentFlags().StringVar(&runConfig.ProfilesFile, "profiles-file", "", "INI network profiles file")
	runCmd.PersistentFlags().StringVar(&runConfig.Profile, "profile", "", "network profile to apply")
	runCmd.PersistentFlags().StringVarP(&runConfig.Endpoint, "endpoint", "e", "", "remote ledger JSON-RPC endpoint")
	runCmd.PersistentFlags().StringVarP(&runConfig.DataDir, "data-dir", "d", "", "ledger data dir (in-process mode; empty for in-memory)")
	runCmd.PersistentFlags().StringVarP(&runConfig.MasterKey, "master-key", "k", "", "base64 32-byte keystore master key (generated when empty)")
	runCmd.PersistentFlags().BoolVarP(&runConfig.Verbose, "verbose", "v", false, "verbose output")
}

func runFlow(rc RunConfig) error {
	cfg, err := loadRunConfig(rc)
	if err != nil {
		return err
	}

	masterKey := rc.MasterKey
	if masterKey == "" {
		masterKey = cfg.Keystore.MasterKey
	}
	if masterKey == "" {
		var mk [32]byte
		if _, err := rand.Read(mk[:]); err != nil {
			return err
		}
		masterKey = base64.StdEncoding.EncodeToString(mk[:])
		logx.Warn("RUN CLI", "no master key supplied, generated an ephemeral one")
	}
	ks, closeKeystore, err := buildKeyStore(cfg, masterKey)
	if err != nil {
		return err
	}
	defer closeKeystore()

	client, closeClient, err := buildClient(rc, cfg)
	if err != nil {
		return err
	}
	defer closeClient()

	flowCfg := vault.FlowConfig{
		Symbol:         cfg.Faucet.Symbol,
		Decimals:       cfg.Faucet.Decimals,
		MaxSupply:      cfg.Faucet.MaxSupply,
		MintAmount:     cfg.Vault.MintAmount,
		NoteAmount:     cfg.Vault.NoteAmount,
		DeadlineMargin: cfg.Vault.DeadlineMargin,
		BlockInterval:  time.Duration(cfg.Network.BlockIntervalSecs) * time.Second,
		SafetyMargin:   time.Duration(cfg.Network.SafetyMarginSecs) * time.Second,
	}

	result, err := vault.NewFlow(client, ks, flowCfg).Run(context.Background())
	if err != nil {
		return err
	}

	out, err := jsonx.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func loadRunConfig(rc RunConfig) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if rc.ConfigFile != "" {
		loaded, err := config.LoadConfig(rc.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if rc.ProfilesFile != "" && rc.Profile != "" {
		if err := config.ApplyProfile(cfg, rc.ProfilesFile, rc.Profile); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func buildKeyStore(cfg *config.Config, masterKey string) (interfaces.KeyStore, func(), error) {
	switch cfg.Keystore.Backend {
	case "postgres":
		db, err := sql.Open("postgres", cfg.Keystore.DSN)
		if err != nil {
			return nil, nil, err
		}
		ks, err := keystore.NewPgKeyStore(db, masterKey)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return ks, func() { _ = db.Close() }, nil
	case "", "fs":
		ks, err := keystore.NewFilesystemKeyStore(cfg.Keystore.Dir, masterKey)
		if err != nil {
			return nil, nil, err
		}
		return ks, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown keystore backend %q", cfg.Keystore.Backend)
	}
}

func buildClient(rc RunConfig, cfg *config.Config) (interfaces.LedgerClient, func(), error) {
	if rc.Endpoint != "" {
		client := rpcclient.NewClient(rpcclient.Config{Endpoint: rc.Endpoint})
		return client, func() { _ = client.Close() }, nil
	}
	if rc.DataDir != "" {
		l, err := ledger.NewOnDisk(rc.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return l, func() {}, nil
	}
	l, err := ledger.NewInMemory()
	if err != nil {
		return nil, nil, err
	}
	return l, func() {}, nil
}
