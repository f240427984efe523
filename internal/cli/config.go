package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/scout/internal/model"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Scout configuration",
	Long: `Manage Scout configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (SCOUT_*, e.g. SCOUT_BACKEND_BASE_URL)
3. Config file (~/.scout/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if file := viper.ConfigFileUsed(); file != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", file)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		shown := *cfg
		if shown.Backend.APIToken != "" {
			shown.Backend.APIToken = "********"
		}
		if shown.LLM.APIKey != "" {
			shown.LLM.APIKey = "********"
		}

		data, err := yaml.Marshal(shown)
		if err != nil {
			return eris.Wrap(err, "marshal config")
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long:  `Create a default configuration file at ~/.scout/config.yaml (or the --config path).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return eris.Wrap(err, "find home directory")
			}
			path = filepath.Join(home, ".scout", "config.yaml")
		}

		if err := writeDefaultConfig(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Created default configuration: %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

const configHeader = `# Scout configuration
#
# Configuration hierarchy (highest to lowest priority):
#   1. CLI flags
#   2. Environment variables (SCOUT_*; OPENAI_API_KEY is read for llm.api_key)
#   3. This config file
#   4. Built-in defaults

`

func writeDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return eris.Errorf("config file already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return eris.Wrap(err, "create config directory")
	}

	data, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return eris.Wrap(err, "marshal config")
	}
	if err := os.WriteFile(path, append([]byte(configHeader), data...), 0600); err != nil {
		return eris.Wrap(err, "write config")
	}
	return nil
}

func loadConfig() (*model.Config, error) {
	return loadConfigFrom(viper.GetViper())
}

// loadConfigFrom merges defaults, the config file and SCOUT_* variables
func loadConfigFrom(v *viper.Viper) (*model.Config, error) {
	setDefaults(v, model.DefaultConfig())

	v.SetEnvPrefix("SCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("llm.api_key", "SCOUT_LLM_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("backend.api_token", "SCOUT_BACKEND_API_TOKEN", "SCOUT_API_TOKEN")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, eris.Wrap(err, "read config")
		}
	}

	var c model.Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, eris.Wrap(err, "decode config")
	}
	if c.Concurrency.Workers < 1 {
		c.Concurrency.Workers = 1
	}
	return &c, nil
}

func setDefaults(v *viper.Viper, d *model.Config) {
	v.SetDefault("backend.base_url", d.Backend.BaseURL)
	v.SetDefault("backend.api_token", d.Backend.APIToken)
	v.SetDefault("backend.timeout", d.Backend.Timeout)
	v.SetDefault("backend.user_agent", d.Backend.UserAgent)
	v.SetDefault("backend.requests_per_second", d.Backend.RequestsPerSecond)
	v.SetDefault("backend.burst", d.Backend.Burst)
	v.SetDefault("backend.http_proxy", d.Backend.HTTPProxy)
	v.SetDefault("backend.https_proxy", d.Backend.HTTPSProxy)
	v.SetDefault("backend.no_proxy", d.Backend.NoProxy)

	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.api_key", d.LLM.APIKey)
	v.SetDefault("llm.base_url", d.LLM.BaseURL)
	v.SetDefault("llm.timeout", d.LLM.Timeout)
	v.SetDefault("llm.max_tokens", d.LLM.MaxTokens)

	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.memory_ttl", d.Cache.MemoryTTL)
	v.SetDefault("cache.disk_ttl", d.Cache.DiskTTL)

	v.SetDefault("store.dir", d.Store.Dir)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.mode", d.Server.Mode)
	v.SetDefault("concurrency.workers", d.Concurrency.Workers)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.verbose", d.Output.Verbose)
}
