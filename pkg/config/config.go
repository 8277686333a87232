/*
Package config manages TOML config for QueryServe.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/queryserve/queryserve/internal/utils"
	"github.com/queryserve/queryserve/pkg/engine"
)

// Config holds the entire config structure
type Config struct {
	Engine EngineConfig `toml:"engine"`
	Server ServerConfig `toml:"server"`
	Corpus CorpusConfig `toml:"corpus"`
	CLI    CliConfig    `toml:"cli"`
}

// EngineConfig tunes the suggestion engine.
type EngineConfig struct {
	CorrectBonus      int  `toml:"correct_bonus"`
	IncorrectBonus    int  `toml:"incorrect_bonus"`
	EnablePrefixCache bool `toml:"enable_prefix_cache"`
}

// ServerConfig has IPC server related options.
type ServerConfig struct {
	MaxQueryLen int `toml:"max_query_len"`
}

// CorpusConfig points at the historical query log.
type CorpusConfig struct {
	Path string `toml:"path"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	ShowTiming bool `toml:"show_timing"`
	NoFilter   bool `toml:"no_filter"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			CorrectBonus:      5,
			IncorrectBonus:    1,
			EnablePrefixCache: true,
		},
		Server: ServerConfig{
			MaxQueryLen: 60,
		},
		Corpus: CorpusConfig{
			Path: "queries.txt",
		},
		CLI: CliConfig{
			ShowTiming: true,
			NoFilter:   false,
		},
	}
}

// EngineOptions converts the engine section into engine.Options.
func (c *Config) EngineOptions() engine.Options {
	return engine.Options{
		CorrectBonus:      c.Engine.CorrectBonus,
		IncorrectBonus:    c.Engine.IncorrectBonus,
		EnablePrefixCache: c.Engine.EnablePrefixCache,
	}
}

// GetDefaultConfigPath returns the default path for config.toml with
// fallback priority: ~/.config/queryserve, then the executable dir.
func GetDefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err == nil {
		primary := filepath.Join(homeDir, ".config", "queryserve")
		if result := utils.CheckDirStatus(primary); result.Writable {
			return filepath.Join(primary, "config.toml"), nil
		}
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return filepath.Join(execDir, "config.toml"), nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
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

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path
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

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse salvages whatever valid sections a broken TOML file
// still has, falling back to defaults for the rest.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if engineSection, ok := utils.ExtractSection(tempConfig, "engine"); ok {
		extractEngineConfig(engineSection, &config.Engine)
	}
	if serverSection, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(serverSection, &config.Server)
	}
	if corpusSection, ok := utils.ExtractSection(tempConfig, "corpus"); ok {
		extractCorpusConfig(corpusSection, &config.Corpus)
	}
	if cliSection, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(cliSection, &config.CLI)
	}
	return config, nil
}

func extractEngineConfig(data map[string]any, eng *EngineConfig) {
	if val, ok := utils.ExtractInt64(data, "correct_bonus"); ok {
		eng.CorrectBonus = val
	}
	if val, ok := utils.ExtractInt64(data, "incorrect_bonus"); ok {
		eng.IncorrectBonus = val
	}
	if val, ok := utils.ExtractBool(data, "enable_prefix_cache"); ok {
		eng.EnablePrefixCache = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_query_len"); ok {
		server.MaxQueryLen = val
	}
}

func extractCorpusConfig(data map[string]any, corpus *CorpusConfig) {
	if val, ok := utils.ExtractString(data, "path"); ok {
		corpus.Path = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractBool(data, "show_timing"); ok {
		cli.ShowTiming = val
	}
	if val, ok := utils.ExtractBool(data, "no_filter"); ok {
		cli.NoFilter = val
	}
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
