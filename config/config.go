package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type OllamaConfig struct {
	Host  string `toml:"host"`
	Model string `toml:"model"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type SecurityConfig struct {
	CredentialStorage SecurityMethod `toml:"credential_storage"`
	SSHKeyPath        string         `toml:"ssh_key_path,omitempty"`
}

// ProviderConfig is one [[providers]] entry in config.toml.
type ProviderConfig struct {
	ID      string `toml:"id"`
	Name    string `toml:"name"`
	Enabled bool   `toml:"enabled"`
	BaseURL string `toml:"base_url,omitempty"`
	Model   string `toml:"model,omitempty"`
}

type UserConfig struct {
	DefaultProvider   string           `toml:"default_provider"`
	DefaultTemplate   string           `toml:"default_template"`
	Temperature       float64          `toml:"temperature"`
	RequestsPerMinute int              `toml:"requests_per_minute"`
	StorageBackend    string           `toml:"storage_backend"`
	Ollama            OllamaConfig     `toml:"ollama"`
	Providers         []ProviderConfig `toml:"providers"`
	Server            ServerConfig     `toml:"server"`
	Security          SecurityConfig   `toml:"security"`
}

// Config is the resolved runtime configuration.
type Config struct {
	DataDirectory     string
	DefaultProvider   string
	DefaultModel      string
	DefaultTemplate   string
	Temperature       float64
	RequestsPerMinute int
	StorageBackend    string
	OllamaHost        string
	OllamaModel       string
	Providers         []ProviderConfig
	ServerAddr        string

	CredentialStore *CredentialStore
}

const (
	EnvDataDir       = "COUNCIL_DATA_DIR"
	EnvProvider      = "COUNCIL_PROVIDER"
	EnvModel         = "COUNCIL_MODEL"
	EnvOllamaHost    = "COUNCIL_OLLAMA_HOST"
	EnvDebug         = "COUNCIL_DEBUG"
	EnvSSHPassphrase = "COUNCIL_SSH_PASSPHRASE"
)

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) applyUserConfig(u *UserConfig) {
	c.DefaultProvider = u.DefaultProvider
	c.DefaultTemplate = u.DefaultTemplate
	c.Temperature = u.Temperature
	c.RequestsPerMinute = u.RequestsPerMinute
	c.StorageBackend = u.StorageBackend
	c.OllamaHost = u.Ollama.Host
	c.OllamaModel = u.Ollama.Model
	c.Providers = u.Providers
	c.ServerAddr = u.Server.Addr
}

func (c *Config) applyEnvOverrides() {
	if p := os.Getenv(EnvProvider); p != "" {
		c.DefaultProvider = p
	}
	if model := os.Getenv(EnvModel); model != "" {
		c.DefaultModel = model
	}
	if host := os.Getenv(EnvOllamaHost); host != "" {
		c.OllamaHost = host
	}
}

func (c *Config) applyDefaults() {
	d := DefaultUserConfig()
	if c.Temperature <= 0 {
		c.Temperature = d.Temperature
	}
	if c.DefaultProvider == "" {
		c.DefaultProvider = d.DefaultProvider
	}
	if c.DefaultTemplate == "" {
		c.DefaultTemplate = d.DefaultTemplate
	}
	if c.StorageBackend == "" {
		c.StorageBackend = d.StorageBackend
	}
	if c.OllamaHost == "" {
		c.OllamaHost = d.Ollama.Host
	}
	if c.OllamaModel == "" {
		c.OllamaModel = d.Ollama.Model
	}
	if c.ServerAddr == "" {
		c.ServerAddr = d.Server.Addr
	}
	if c.RequestsPerMinute < 0 {
		c.RequestsPerMinute = 0
	}
}

// CheckDebug reports whether COUNCIL_DEBUG asks for debug logging.
func CheckDebug() bool {
	debug, err := strconv.ParseBool(os.Getenv(EnvDebug))
	return err == nil && debug
}

// LoadDotEnv reads an optional .env in the working directory. Variables
// already set in the environment win.
func LoadDotEnv() {
	_ = godotenv.Load(".env")
}

// Load resolves the configuration. dataDirOverride, when set, replaces the
// data directory from settings.toml; COUNCIL_* variables are applied last.
func Load(dataDirOverride string) (*Config, error) {
	cfg := &Config{}

	systemCfg, err := LoadSystemConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load system config: %w", err)
	}
	cfg.DataDirectory = systemCfg.DataDirectory
	if dataDirOverride != "" {
		cfg.DataDirectory = dataDirOverride
	}
	if dataDir := os.Getenv(EnvDataDir); dataDir != "" {
		cfg.DataDirectory = dataDir
	}

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	// Ensure data directory has correct permissions (fix if needed)
	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	cfg.applyUserConfig(userCfg)
	cfg.applyEnvOverrides()
	cfg.applyDefaults()

	keyPath := ExpandPath(userCfg.Security.SSHKeyPath)
	if userCfg.Security.CredentialStorage == SecuritySSHKey && keyPath == "" {
		if keys, err := FindSSHKeys(); err == nil && len(keys) > 0 {
			keyPath = keys[0]
		}
	}
	store := NewCredentialStore(userCfg.Security.CredentialStorage, keyPath)
	store.SetPassphrase(os.Getenv(EnvSSHPassphrase))
	if err := store.Load(dataDir); err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}
	cfg.CredentialStore = store

	return cfg, nil
}

// APIKey returns the key for a provider, preferring the environment.
func (c *Config) APIKey(providerID string) string {
	if env := apiKeyEnv(providerID); env != "" {
		if key := os.Getenv(env); key != "" {
			return key
		}
	}
	if c.CredentialStore == nil {
		return ""
	}
	return c.CredentialStore.Get(providerID)
}
