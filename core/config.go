package core

import (
	"fmt"
	"strings"
)

const (
	DefaultMaxTargetRefBytes      = 64
	DefaultMaxTargetContractBytes = 128
	DefaultMaxDescriptionBytes    = 500
	DefaultGenesisHeight          = 1
	DefaultContractName           = "frontrun-search"
)

type Limits struct {
	MaxTargetRefBytes      int `koanf:"max_target_ref_bytes" mapstructure:"max_target_ref_bytes" yaml:"max_target_ref_bytes"`
	MaxTargetContractBytes int `koanf:"max_target_contract_bytes" mapstructure:"max_target_contract_bytes" yaml:"max_target_contract_bytes"`
	MaxDescriptionBytes    int `koanf:"max_description_bytes" mapstructure:"max_description_bytes" yaml:"max_description_bytes"`
}

type LedgerConfig struct {
	GenesisHeight uint64 `koanf:"genesis_height" mapstructure:"genesis_height" yaml:"genesis_height"`
	ContractName  string `koanf:"contract_name" mapstructure:"contract_name" yaml:"contract_name"`
}

type Config struct {
	ServiceName string       `koanf:"service_name" mapstructure:"service_name" yaml:"service_name"`
	Limits      Limits       `koanf:"limits" mapstructure:"limits" yaml:"limits"`
	Ledger      LedgerConfig `koanf:"ledger" mapstructure:"ledger" yaml:"ledger"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName: "frontrun",
		Limits: Limits{
			MaxTargetRefBytes:      DefaultMaxTargetRefBytes,
			MaxTargetContractBytes: DefaultMaxTargetContractBytes,
			MaxDescriptionBytes:    DefaultMaxDescriptionBytes,
		},
		Ledger: LedgerConfig{
			GenesisHeight: DefaultGenesisHeight,
			ContractName:  DefaultContractName,
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if c.Limits.MaxTargetRefBytes <= 0 {
		return fmt.Errorf("core: limits.max_target_ref_bytes must be positive")
	}
	if c.Limits.MaxTargetContractBytes <= 0 {
		return fmt.Errorf("core: limits.max_target_contract_bytes must be positive")
	}
	if c.Limits.MaxDescriptionBytes <= 0 {
		return fmt.Errorf("core: limits.max_description_bytes must be positive")
	}
	if strings.TrimSpace(c.Ledger.ContractName) == "" {
		return fmt.Errorf("core: ledger.contract_name is required")
	}
	return nil
}
