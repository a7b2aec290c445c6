// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the knowledge-agent CLI. It manages a
// session of text sources and runs analysis lenses over them with a team of
// model-backed agents.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/knowledge-agent/internal/secrets"
	"github.com/pdiddy/knowledge-agent/internal/source"
	"github.com/pdiddy/knowledge-agent/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	logger        = zap.NewNop()
	loadedSecrets = secrets.Secrets{}
)

// rootCmd is the base command for the knowledge-agent CLI.
var rootCmd = &cobra.Command{
	Use:   "knowledge-agent",
	Short: "Analyze a collection of sources through several lenses at once",
	Long: `knowledge-agent collects text sources (pasted text, text files, PDFs and
web pages) into a session and sends them to a team of agents, one request
per analysis lens: summary, in-depth analysis, concept map, key points,
intersections, topic coverage and a knowledge check quiz.

Sources persist between invocations in the session directory. Results of
the latest run can be shown again or exported as markdown and YAML.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if viper.GetBool("verbose") {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l

		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("reading .env", zap.Error(err))
		}

		s, err := secrets.Load(viper.GetString("secrets_dir"), logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			logger.Debug("loaded secrets", zap.Strings("keys", s.Keys()))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./knowledge-agent.yaml or ~/.config/knowledge-agent/knowledge-agent.yaml)")
	pf.BoolP("verbose", "v", false, "enable debug logging")
	pf.String("session-dir", source.DefaultDir, "directory holding the session database")
	pf.String("secrets-dir", secrets.DefaultDir, "directory of plain-text key files")
	pf.String("api-key", "", "OpenAI-compatible API key")
	pf.String("base-url", "", "OpenAI-compatible API base URL (default "+types.DefaultBaseURL+")")
	pf.String("model", "", "model identifier (default "+types.DefaultModelID+")")

	for key, flag := range map[string]string{
		"verbose":     "verbose",
		"session_dir": "session-dir",
		"secrets_dir": "secrets-dir",
		"api_key":     "api-key",
		"base_url":    "base-url",
		"model_id":    "model",
	} {
		_ = viper.BindPFlag(key, pf.Lookup(flag))
	}
	_ = viper.BindEnv("api_key", "KNOWLEDGE_AGENT_API_KEY", "OPENAI_API_KEY")
	_ = viper.BindEnv("base_url", "KNOWLEDGE_AGENT_BASE_URL", "OPENAI_BASE_URL")

	viper.SetDefault("max_sources", types.DefaultMaxSources)
	viper.SetDefault("max_retries", 5)
	viper.SetDefault("pdf_image", source.DefaultPDFImage)
	viper.SetDefault("chart_url", types.DefaultChartURL)
	viper.SetDefault("user_agent", "knowledge-agent/"+version)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("knowledge-agent")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "knowledge-agent"))
		}
	}

	viper.SetEnvPrefix("KNOWLEDGE_AGENT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
