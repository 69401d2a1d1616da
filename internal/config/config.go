package config

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Config is the runtime configuration shared by every command.
type Config struct {
	Port      string `mapstructure:"port"`
	LogLevel  string `mapstructure:"log_level"`
	LogFile   string `mapstructure:"log_file"`
	StaticDir string `mapstructure:"static_dir"`

	// RelayURL points the terminal client at a remote relay.
	// Empty runs the relay in-process.
	RelayURL string `mapstructure:"relay_url"`

	Oracle OracleConfig `mapstructure:"oracle"`
	Store  StoreConfig  `mapstructure:"store"`
}

// OracleConfig configures the completion backend.
type OracleConfig struct {
	APIKey        string        `mapstructure:"api_key"`
	URL           string        `mapstructure:"url"`
	Model         string        `mapstructure:"model"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxPromptSize int           `mapstructure:"max_prompt_size"`
}

// StoreConfig selects and configures the snapshot store.
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	Key    string `mapstructure:"key"`

	// Path is the directory for the file driver and the database file for sqlite.
	Path string `mapstructure:"path"`

	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	TTL           time.Duration `mapstructure:"ttl"`

	// EncryptionKey is a base64 AES-256 key. Empty disables encryption.
	EncryptionKey string `mapstructure:"encryption_key"`
	// FallbackKeys are older base64 keys still accepted for decryption.
	FallbackKeys []string `mapstructure:"fallback_keys"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:     "4000",
		LogLevel: "info",
		Oracle: OracleConfig{
			Timeout: 30 * time.Second,
		},
		Store: StoreConfig{
			Driver:    DriverFile,
			Key:       "savedQuestions",
			Path:      ".stepwise",
			RedisAddr: "localhost:6379",
		},
	}
}

// Load resolves the configuration: defaults, then the optional config file,
// then envFile, then the process environment.
// A missing envFile is ignored; a missing config file is not.
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return cfg, err
		}
	}

	if err := LoadDotEnv(envFile); err != nil {
		return cfg, err
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

// LoadDotEnv loads KEY=VALUE pairs from path into the environment.
// Variables that are already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	raw := map[string]any{}
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = json.Unmarshal(data, &raw)
	} else {
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return c.Merge(raw)
}

// Merge decodes raw on top of c. Keys absent from raw keep their value.
func (c *Config) Merge(raw map[string]any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           c,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from environment variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("PORT", &c.Port)
	str("STEPWISE_LOG_LEVEL", &c.LogLevel)
	str("STEPWISE_LOG_FILE", &c.LogFile)
	str("STEPWISE_STATIC_DIR", &c.StaticDir)
	str("STEPWISE_RELAY_URL", &c.RelayURL)

	str("GROQ_API_KEY", &c.Oracle.APIKey)
	str("GROQ_API_URL", &c.Oracle.URL)
	str("STEPWISE_MODEL", &c.Oracle.Model)

	str("STEPWISE_STORE", &c.Store.Driver)
	str("STEPWISE_STORE_KEY", &c.Store.Key)
	str("STEPWISE_STORE_PATH", &c.Store.Path)
	str("STEPWISE_REDIS_ADDR", &c.Store.RedisAddr)
	str("STEPWISE_REDIS_PASSWORD", &c.Store.RedisPassword)
	str("STEPWISE_ENCRYPTION_KEY", &c.Store.EncryptionKey)

	if v, ok := lookup("STEPWISE_FALLBACK_KEYS"); ok && v != "" {
		c.Store.FallbackKeys = strings.Split(v, ",")
	}

	if v, ok := lookup("STEPWISE_REDIS_DB"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("STEPWISE_REDIS_DB: %w", err)
		}
		c.Store.RedisDB = n
	}
	if v, ok := lookup("STEPWISE_MAX_PROMPT_SIZE"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("STEPWISE_MAX_PROMPT_SIZE: %w", err)
		}
		c.Oracle.MaxPromptSize = n
	}

	for key, dst := range map[string]*time.Duration{
		"STEPWISE_ORACLE_TIMEOUT": &c.Oracle.Timeout,
		"STEPWISE_STORE_TTL":      &c.Store.TTL,
	} {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = d
		}
	}
	return nil
}

// Validate checks values that cannot be checked while decoding.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory, DriverFile, DriverSQLite, DriverRedis:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if _, _, err := c.Store.Keys(); err != nil {
		return err
	}
	return nil
}

// Keys decodes the encryption keys. A nil active key means encryption is off.
func (s StoreConfig) Keys() (active []byte, fallback [][]byte, err error) {
	if s.EncryptionKey == "" {
		return nil, nil, nil
	}
	active, err = decodeKey(s.EncryptionKey)
	if err != nil {
		return nil, nil, fmt.Errorf("encryption key: %w", err)
	}
	for i, k := range s.FallbackKeys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		fk, err := decodeKey(k)
		if err != nil {
			return nil, nil, fmt.Errorf("fallback key %d: %w", i, err)
		}
		fallback = append(fallback, fk)
	}
	return active, fallback, nil
}

func decodeKey(s string) ([]byte, error) {
	k, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("not valid base64: %w", err)
	}
	if len(k) != 32 {
		return nil, fmt.Errorf("must decode to 32 bytes, got %d", len(k))
	}
	return k, nil
}
