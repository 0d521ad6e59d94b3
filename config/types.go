package config

// Config is the process configuration for vault runs.
type Config struct {
	Network  NetworkConfig  `yaml:"network"`
	Keystore KeystoreConfig `yaml:"keystore"`
	Faucet   FaucetConfig   `yaml:"faucet"`
	Vault    VaultConfig    `yaml:"vault"`
}

// NetworkConfig locates the ledger and describes its block cadence, which
// the deadline scheduler's wait heuristic is based on.
type NetworkConfig struct {
	Endpoint          string `yaml:"endpoint"`
	BlockIntervalSecs int    `yaml:"block_interval_secs"`
	SafetyMarginSecs  int    `yaml:"safety_margin_secs"`
}

// KeystoreConfig selects and locates the key store. Backend "fs" keeps
// encrypted seeds under Dir; "postgres" keeps them in the database at DSN.
type KeystoreConfig struct {
	Backend   string `yaml:"backend"`
	Dir       string `yaml:"dir"`
	DSN       string `yaml:"dsn"`
	MasterKey string `yaml:"master_key"`
}

// FaucetConfig describes the asset-issuing faucet the demo deploys.
type FaucetConfig struct {
	Symbol    string `yaml:"symbol"`
	Decimals  uint8  `yaml:"decimals"`
	MaxSupply uint64 `yaml:"max_supply"`
}

// VaultConfig parameterizes the inheritance note itself.
type VaultConfig struct {
	NoteAmount     uint64 `yaml:"note_amount"`
	MintAmount     uint64 `yaml:"mint_amount"`
	DeadlineMargin uint64 `yaml:"deadline_margin"`
}

// DefaultConfig mirrors the reference deployment parameters.
func DefaultConfig() *Config {
	return &Config{
		Network: NetworkConfig{
			Endpoint:          "http://localhost:57291",
			BlockIntervalSecs: 3,
			SafetyMarginSecs:  1,
		},
		Keystore: KeystoreConfig{
			Backend: "fs",
			Dir:     "./keystore",
		},
		Faucet: FaucetConfig{
			Symbol:    "INH",
			Decimals:  8,
			MaxSupply: 1_000_000,
		},
		Vault: VaultConfig{
			NoteAmount:     10,
			MintAmount:     1_000_000,
			DeadlineMargin: 3,
		},
	}
}
