package config

const (
	DefaultTemperature = 0.7
	DefaultServerAddr  = "127.0.0.1:8420"
)

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: GetDefaultDataDir(),
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		DefaultProvider:   "ollama",
		DefaultTemplate:   "general",
		Temperature:       DefaultTemperature,
		RequestsPerMinute: 0,
		StorageBackend:    "file",
		Ollama: OllamaConfig{
			Host:  "http://localhost:11434",
			Model: "llama3.1:latest",
		},
		Providers: DefaultProviders(),
		Server: ServerConfig{
			Addr: DefaultServerAddr,
		},
		Security: SecurityConfig{
			CredentialStorage: SecurityPlainText,
		},
	}
}

func GenerateSystemConfigTemplate() string {
	return `# Council System Configuration
# Location: ~/.config/council/settings.toml
# This file uses TOML format: https://toml.io

# Directory where sessions, credentials and user config are stored
data_directory = "~/.local/share/council"
`
}

func GenerateUserConfigTemplate() string {
	return `# Council User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

# Provider used for every agent turn: ollama, openai, openrouter, anthropic, gemini
default_provider = "ollama"

# Template for sessions started with "new" and no --template
default_template = "general"

# Sampling temperature sent with every agent turn
temperature = 0.7

# Client-side limit on model calls (0 = unlimited)
requests_per_minute = 0

# Where the session snapshot lives: file, sqlite, pebble
storage_backend = "file"

[ollama]
host = "http://localhost:11434"
model = "llama3.1:latest"

[server]
# Listen address for "council serve"
addr = "127.0.0.1:8420"

[security]
# plaintext (credentials.toml) or ssh_key (credentials.enc)
credential_storage = "plaintext"
# ssh_key_path = "~/.ssh/id_ed25519"

# Cloud providers. API keys go in credentials or the environment
# (OPENAI_API_KEY, OPENROUTER_API_KEY, ANTHROPIC_API_KEY, GEMINI_API_KEY).
[[providers]]
id = "openai"
name = "OpenAI"
enabled = false
base_url = "https://api.openai.com/v1"
model = "gpt-4o-mini"

[[providers]]
id = "openrouter"
name = "OpenRouter"
enabled = false
base_url = "https://openrouter.ai/api/v1"
model = "openai/gpt-4o-mini"

[[providers]]
id = "anthropic"
name = "Anthropic"
enabled = false
base_url = "https://api.anthropic.com"
model = "claude-3-5-haiku-20241022"

[[providers]]
id = "gemini"
name = "Gemini"
enabled = false
model = "gemini-2.5-flash"
`
}
