/*
Package config manages TOML config for the wordseg binaries.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/wordseg/internal/utils"
	"github.com/charmbracelet/log"
)

// Scanner names accepted in [query] scanner.
const (
	ScannerDict = "dict"
	ScannerGse  = "gse"
)

// Config holds the entire config structure
type Config struct {
	Dict   DictConfig   `toml:"dict"`
	Query  QueryConfig  `toml:"query"`
	Server ServerConfig `toml:"server"`
	CLI    CliConfig    `toml:"cli"`
	Log    LogConfig    `toml:"log"`
}

// DictConfig holds dictionary sources.
type DictConfig struct {
	MainDict  string   `toml:"main_dict"`
	ExtDicts  []string `toml:"ext_dicts"`
	DataDir   string   `toml:"data_dir"`
	ChunkSize int      `toml:"chunk_size"`
	MaxWords  int      `toml:"max_words"`
	StorePath string   `toml:"store_path"`
}

// QueryConfig holds parser options.
type QueryConfig struct {
	DefaultField    string `toml:"default_field"`
	SplitWhitespace bool   `toml:"split_whitespace"`
	Scanner         string `toml:"scanner"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxTextLen  int    `toml:"max_text_len"`
	ExpandLimit int    `toml:"expand_limit"`
	HTTPAddr    string `toml:"http_addr"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultField string `toml:"default_field"`
	ShowLexemes  bool   `toml:"show_lexemes"`
}

// LogConfig holds logging options.
type LogConfig struct {
	Level string `toml:"level"`
	JSON  bool   `toml:"json"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Dict: DictConfig{
			DataDir:   "data",
			ChunkSize: 10000,
			MaxWords:  0,
		},
		Query: QueryConfig{
			DefaultField:    "content",
			SplitWhitespace: true,
			Scanner:         ScannerDict,
		},
		Server: ServerConfig{
			MaxTextLen:  1024,
			ExpandLimit: 64,
			HTTPAddr:    ":8080",
		},
		CLI: CliConfig{
			DefaultField: "content",
			ShowLexemes:  true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate resets values that make no sense to their defaults.
func (c *Config) Validate() {
	def := DefaultConfig()
	if c.Dict.ChunkSize <= 0 {
		log.Warnf("Invalid chunk_size %d, using %d", c.Dict.ChunkSize, def.Dict.ChunkSize)
		c.Dict.ChunkSize = def.Dict.ChunkSize
	}
	if c.Dict.MaxWords < 0 {
		c.Dict.MaxWords = 0
	}
	if c.Query.Scanner != ScannerDict && c.Query.Scanner != ScannerGse {
		log.Warnf("Unknown scanner %q, using %q", c.Query.Scanner, ScannerDict)
		c.Query.Scanner = ScannerDict
	}
	if c.Query.DefaultField == "" {
		c.Query.DefaultField = def.Query.DefaultField
	}
	if c.CLI.DefaultField == "" {
		c.CLI.DefaultField = c.Query.DefaultField
	}
	if c.Server.MaxTextLen < 0 {
		c.Server.MaxTextLen = def.Server.MaxTextLen
	}
	if c.Server.ExpandLimit <= 0 {
		c.Server.ExpandLimit = def.Server.ExpandLimit
	}
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/wordseg
// 2. ~/Library/Application Support/wordseg (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.ExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", "wordseg")
	if utils.WritableDir(primaryPath) == nil {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "wordseg")
	if utils.WritableDir(macOSPath) == nil {
		return macOSPath, nil
	}
	execDir, err := utils.ExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/wordseg/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}
	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)
	if err := utils.WritableDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.IsFile(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file. Values missing from the file keep their defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	config.Validate()
	return config, nil
}

// tryPartialParse keeps whatever well-typed values the file still has.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(section, &config.Dict)
	}
	if section, ok := utils.ExtractSection(tempConfig, "query"); ok {
		extractQueryConfig(section, &config.Query)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	if section, ok := utils.ExtractSection(tempConfig, "log"); ok {
		if val, ok := utils.ExtractString(section, "level"); ok {
			config.Log.Level = val
		}
		if val, ok := utils.ExtractBool(section, "json"); ok {
			config.Log.JSON = val
		}
	}
	config.Validate()
	return config, nil
}

func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractString(data, "main_dict"); ok {
		dict.MainDict = val
	}
	if val, ok := utils.ExtractStringSlice(data, "ext_dicts"); ok {
		dict.ExtDicts = val
	}
	if val, ok := utils.ExtractString(data, "data_dir"); ok {
		dict.DataDir = val
	}
	if val, ok := utils.ExtractInt64(data, "chunk_size"); ok {
		dict.ChunkSize = val
	}
	if val, ok := utils.ExtractInt64(data, "max_words"); ok {
		dict.MaxWords = val
	}
	if val, ok := utils.ExtractString(data, "store_path"); ok {
		dict.StorePath = val
	}
}

func extractQueryConfig(data map[string]any, query *QueryConfig) {
	if val, ok := utils.ExtractString(data, "default_field"); ok {
		query.DefaultField = val
	}
	if val, ok := utils.ExtractBool(data, "split_whitespace"); ok {
		query.SplitWhitespace = val
	}
	if val, ok := utils.ExtractString(data, "scanner"); ok {
		query.Scanner = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_text_len"); ok {
		server.MaxTextLen = val
	}
	if val, ok := utils.ExtractInt64(data, "expand_limit"); ok {
		server.ExpandLimit = val
	}
	if val, ok := utils.ExtractString(data, "http_addr"); ok {
		server.HTTPAddr = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractString(data, "default_field"); ok {
		cli.DefaultField = val
	}
	if val, ok := utils.ExtractBool(data, "show_lexemes"); ok {
		cli.ShowLexemes = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	if err := utils.WritableDir(filepath.Dir(defaultPath)); err != nil {
		return err
	}
	return utils.SaveTOMLFile(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.DisplayPath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
