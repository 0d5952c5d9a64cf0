package config

import "github.com/caarlos0/env/v11"

// TableConfig overrides the built-in table defaults. Values that fail the
// rule checks (non-positive bets, max below min) fall back at table creation,
// not here.
type TableConfig struct {
	DefaultMinBet          int64 `env:"TABLE_DEFAULT_MIN_BET" envDefault:"10"`
	DefaultMaxBet          int64 `env:"TABLE_DEFAULT_MAX_BET" envDefault:"500"`
	DefaultStartingBalance int64 `env:"TABLE_DEFAULT_STARTING_BALANCE" envDefault:"1000"`
	CodeLength             int   `env:"TABLE_CODE_LENGTH" envDefault:"4"`
	LedgerDepth            int   `env:"TABLE_LEDGER_DEPTH" envDefault:"256"`
}

func LoadTables() (TableConfig, error) {
	var cfg TableConfig
	err := env.Parse(&cfg)
	return cfg, err
}
