package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/strata/internal/model"
)

// Flags shared by extract and batch
var (
	window      int
	userAgent   string
	noCache     bool
	noFooter    bool
	noRobots    bool
	httpProxy   string
	httpsProxy  string
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&window, "window", model.DefaultContextWindow, "characters of context captured on each side of a match")
	cmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent for URL sources")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the extraction cache")
	cmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	cmd.Flags().BoolVar(&noRobots, "no-robots", false, "ignore robots.txt when fetching URLs")
	cmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	cmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")

	cmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM summary generation")
	cmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	cmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (default: gpt-4o-mini for openai)")
}

// applyFlags overrides the loaded configuration with the flags the user set
func applyFlags(cmd *cobra.Command, cfg *model.Config) error {
	flags := cmd.Flags()

	if flags.Changed("window") {
		if window < 0 {
			return fmt.Errorf("--window must not be negative, got %d", window)
		}
		cfg.Extraction.ContextWindow = window
	}
	if flags.Changed("ua") {
		cfg.Source.UserAgent = userAgent
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}
	if noRobots {
		cfg.Source.RespectRobots = false
	}
	if flags.Changed("http-proxy") {
		cfg.Source.HTTPProxy = httpProxy
	}
	if flags.Changed("https-proxy") {
		cfg.Source.HTTPSProxy = httpsProxy
	}
	cfg.Output.Verbose = cfg.Output.Verbose || verbose

	// The summary only runs on request, with the configured provider unless
	// the flag names another
	if !llmEnabled {
		cfg.LLM.Provider = ""
		return nil
	}
	if flags.Changed("llm-provider") || cfg.LLM.Provider == "" {
		cfg.LLM.Provider = llmProvider
	}
	if flags.Changed("llm-model") {
		cfg.LLM.Model = llmModel
	}
	applyLLMEnv(cfg)

	if cfg.LLM.APIKey == "" {
		switch strings.ToLower(cfg.LLM.Provider) {
		case "openai":
			return errors.New("OPENAI_API_KEY environment variable not set")
		case "anthropic", "claude":
			return errors.New("ANTHROPIC_API_KEY environment variable not set")
		}
	}
	return nil
}

// commandContext bounds a command by d; zero or negative means no deadline
func commandContext(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, d)
}
