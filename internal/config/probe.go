package config

import "github.com/caarlos0/env/v11"

type ProbeConfig struct {
	WSURL    string `env:"WS_URL" envDefault:"ws://localhost:8080/ws"`
	Nickname string `env:"PROBE_NICKNAME" envDefault:"probe"`
}

func LoadProbe() (ProbeConfig, error) {
	var cfg ProbeConfig
	err := env.Parse(&cfg)
	return cfg, err
}
