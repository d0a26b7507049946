package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/strata/internal/model"
)

// Version is set at build time with -ldflags "-X github.com/ppiankov/strata/internal/cli.Version=..."
var Version = "v0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "strata",
	Short: "Strata - coordinate, date and site extraction for archaeological reports",
	Long: `Strata extracts structured facts from unstructured archaeological
survey text: geographic coordinates, date ranges and named site references.

Records are pattern matches with their surrounding context. Strata does not
interpret the text; every record should be checked against its source before
it is published on a map or timeline.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of Strata.`,
	Run: func(cmd *cobra.Command, args []string) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "strata %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.strata/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in the .env file, the config file and STRATA_* variables
func initConfig() {
	// A missing .env is the normal case
	if err := godotenv.Load(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Loaded environment from .env\n")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".strata"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// STRATA_LLM_PROVIDER overrides llm.provider, and so on
	viper.SetEnvPrefix("STRATA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig merges the config file and environment over the defaults
func loadConfig(v *viper.Viper) *model.Config {
	cfg := model.DefaultConfig()

	setInt := func(key string, dst *int) {
		if v.IsSet(key) {
			*dst = v.GetInt(key)
		}
	}
	setString := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	setBool := func(key string, dst *bool) {
		if v.IsSet(key) {
			*dst = v.GetBool(key)
		}
	}

	setInt("extraction.context_window", &cfg.Extraction.ContextWindow)

	if v.IsSet("source.timeout") {
		cfg.Source.Timeout = v.GetDuration("source.timeout")
	}
	setString("source.user_agent", &cfg.Source.UserAgent)
	if v.IsSet("source.max_body_bytes") {
		cfg.Source.MaxBodyBytes = v.GetInt64("source.max_body_bytes")
	}
	setBool("source.respect_robots", &cfg.Source.RespectRobots)
	if v.IsSet("source.requests_per_second") {
		cfg.Source.RequestsPerSecond = v.GetFloat64("source.requests_per_second")
	}
	setInt("source.burst_size", &cfg.Source.BurstSize)
	setString("source.http_proxy", &cfg.Source.HTTPProxy)
	setString("source.https_proxy", &cfg.Source.HTTPSProxy)

	setBool("cache.enabled", &cfg.Cache.Enabled)
	setString("cache.dir", &cfg.Cache.Dir)
	if v.IsSet("cache.memory_ttl") {
		cfg.Cache.MemoryTTL = v.GetDuration("cache.memory_ttl")
	}
	if v.IsSet("cache.disk_ttl") {
		cfg.Cache.DiskTTL = v.GetDuration("cache.disk_ttl")
	}

	setInt("concurrency.workers", &cfg.Concurrency.Workers)

	setBool("output.verbose", &cfg.Output.Verbose)
	setBool("output.include_footer", &cfg.Output.IncludeFooter)

	setString("llm.provider", &cfg.LLM.Provider)
	setString("llm.model", &cfg.LLM.Model)
	setString("llm.base_url", &cfg.LLM.BaseURL)
	setInt("llm.timeout", &cfg.LLM.Timeout)
	setInt("llm.max_tokens", &cfg.LLM.MaxTokens)

	applyLLMEnv(cfg)
	return cfg
}

// applyLLMEnv fills credentials that are only ever read from the environment
func applyLLMEnv(cfg *model.Config) {
	switch strings.ToLower(cfg.LLM.Provider) {
	case "openai":
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = os.Getenv("OPENAI_BASE_URL")
		}
	case "anthropic", "claude":
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	case "ollama":
		if cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = os.Getenv("OLLAMA_BASE_URL")
		}
	}
}
