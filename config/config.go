// Package config describes YAML configuration of the token host.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"github.com/holiman/uint256"
	"github.com/nspcc-dev/neo-go/pkg/core/storage/dbconfig"
	"github.com/quigiaosu103/htpc/common"
	"github.com/quigiaosu103/htpc/contracts/ft"
	"github.com/quigiaosu103/htpc/contracts/ft/ftconst"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Default values.
const (
	DefaultLogLevel         = "info"
	DefaultLogEncoding      = "console"
	DefaultContractAccount  = "htpc.near"
	DefaultStorageBytePrice = "10000000000000000000"
)

// Config is the root configuration of the token host.
type Config struct {
	Logger   Logger                   `yaml:"logger"`
	Storage  dbconfig.DBConfiguration `yaml:"storage"`
	Contract Contract                 `yaml:"contract"`
	Token    Token                    `yaml:"token"`
}

// Logger configures the zap logger.
type Logger struct {
	Level string `yaml:"level"`
	// Encoding is either "console" or "json".
	Encoding string `yaml:"encoding"`
}

// Contract configures the token contract host.
type Contract struct {
	Account common.AccountID `yaml:"account"`
	// Decimal price of a stored byte in yocto.
	StorageBytePrice string `yaml:"storage_byte_price"`
	// Check total supply before every commit.
	CheckInvariants bool `yaml:"check_invariants"`
}

// Token describes initial token issuance.
type Token struct {
	Owner common.AccountID `yaml:"owner"`
	// Decimal total supply in the smallest units.
	TotalSupply string `yaml:"total_supply"`
	// Optional, default metadata is used if missing.
	Metadata *Metadata `yaml:"metadata"`
	// Accounts registered on deployment at the owner's expense.
	Accounts []common.AccountID `yaml:"accounts"`
}

// Metadata is the YAML form of ft.FungibleTokenMetadata.
type Metadata struct {
	Name      string `yaml:"name"`
	Symbol    string `yaml:"symbol"`
	Icon      string `yaml:"icon"`
	Reference string `yaml:"reference"`
	// Base64-encoded SHA-256 of the reference content.
	ReferenceHash string `yaml:"reference_hash"`
	Decimals      uint8  `yaml:"decimals"`
}

// Default returns configuration with in-memory storage and default values.
func Default() Config {
	return Config{
		Logger: Logger{
			Level:    DefaultLogLevel,
			Encoding: DefaultLogEncoding,
		},
		Storage: dbconfig.DBConfiguration{
			Type: dbconfig.InMemoryDB,
		},
		Contract: Contract{
			Account:          DefaultContractAccount,
			StorageBytePrice: DefaultStorageBytePrice,
		},
	}
}

// Load reads configuration from the YAML file. Missing values are taken from
// Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes and validates YAML configuration.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	err := yaml.Unmarshal(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("decode YAML: %w", err)
	}

	err = cfg.Validate()
	if err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks configuration consistency. Token section is checked only if
// the owner is set.
func (c Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Logger.Level); err != nil {
		return fmt.Errorf("logger level: %w", err)
	}

	switch c.Logger.Encoding {
	case "console", "json":
	default:
		return fmt.Errorf("unsupported logger encoding %q", c.Logger.Encoding)
	}

	switch c.Storage.Type {
	case dbconfig.InMemoryDB, dbconfig.BoltDB, dbconfig.LevelDB:
	default:
		return fmt.Errorf("unsupported storage type %q", c.Storage.Type)
	}

	if err := c.Contract.Account.Validate(); err != nil {
		return fmt.Errorf("contract account: %w", err)
	}

	if _, err := c.Contract.BytePrice(); err != nil {
		return err
	}

	if c.Token.Owner == "" {
		return nil
	}

	if err := c.Token.Owner.Validate(); err != nil {
		return fmt.Errorf("token owner: %w", err)
	}

	if _, err := c.Token.Supply(); err != nil {
		return err
	}

	if _, err := c.Token.FungibleTokenMetadata(); err != nil {
		return err
	}

	for i := range c.Token.Accounts {
		if err := c.Token.Accounts[i].Validate(); err != nil {
			return fmt.Errorf("token account #%d: %w", i, err)
		}
	}

	return nil
}

// BuildLogger constructs zap logger according to the configuration.
func (l Logger) BuildLogger() (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return nil, err
	}

	c := zap.NewProductionConfig()
	c.Level = zap.NewAtomicLevelAt(lvl)
	c.Encoding = l.Encoding
	c.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if l.Encoding == "console" {
		c.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	return c.Build()
}

// BytePrice returns parsed storage byte price.
func (c Contract) BytePrice() (*uint256.Int, error) {
	n, err := uint256.FromDecimal(c.StorageBytePrice)
	if err != nil {
		return nil, fmt.Errorf("storage byte price: %w", err)
	}
	return n, nil
}

// Supply returns parsed total supply.
func (t Token) Supply() (*uint256.Int, error) {
	n, err := uint256.FromDecimal(t.TotalSupply)
	if err != nil {
		return nil, fmt.Errorf("total supply: %w", err)
	}
	if n.Gt(ft.MaxBalance) {
		return nil, fmt.Errorf("total supply: %w", ft.ErrBalanceOverflow)
	}
	return n, nil
}

// FungibleTokenMetadata returns token metadata or nil if the default one
// should be used.
func (t Token) FungibleTokenMetadata() (*ft.FungibleTokenMetadata, error) {
	if t.Metadata == nil {
		return nil, nil
	}

	m := ft.FungibleTokenMetadata{
		Spec:     ftconst.MetadataSpec,
		Name:     t.Metadata.Name,
		Symbol:   t.Metadata.Symbol,
		Decimals: t.Metadata.Decimals,
	}

	m.Icon = common.Memo(t.Metadata.Icon)
	m.Reference = common.Memo(t.Metadata.Reference)

	if t.Metadata.ReferenceHash != "" {
		h, err := base64.StdEncoding.DecodeString(t.Metadata.ReferenceHash)
		if err != nil {
			return nil, fmt.Errorf("decode reference hash: %w", err)
		}
		m.ReferenceHash = h
	}

	if m.Name == "" || m.Symbol == "" {
		return nil, errors.New("token name and symbol are required")
	}

	err := m.Validate()
	if err != nil {
		return nil, err
	}

	return &m, nil
}
