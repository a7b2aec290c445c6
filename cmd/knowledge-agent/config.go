// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/knowledge-agent/internal/settings"
	"github.com/pdiddy/knowledge-agent/internal/source"
	"github.com/pdiddy/knowledge-agent/pkg/types"
)

func httpConfig() types.HTTPConfig {
	return types.HTTPConfig{
		Timeout:   viper.GetDuration("http_timeout"),
		UserAgent: viper.GetString("user_agent"),
	}
}

func sessionConfig() types.SessionConfig {
	return types.SessionConfig{
		Dir:        viper.GetString("session_dir"),
		MaxSources: viper.GetInt("max_sources"),
	}
}

func chartConfig() types.ChartConfig {
	return types.ChartConfig{HTTPConfig: httpConfig(), BaseURL: viper.GetString("chart_url")}
}

func settingsStore() (settings.Store, error) {
	dir := viper.GetString("settings_dir")
	if dir == "" {
		var err error
		if dir, err = settings.DefaultDir(); err != nil {
			return settings.Store{}, err
		}
	}
	return settings.Store{Dir: dir}, nil
}

// connection resolves the model connection settings. Flags and environment
// (through viper) win over saved settings, which win over .secrets/ files.
func connection() (types.Settings, error) {
	st, err := settingsStore()
	if err != nil {
		return types.Settings{}, err
	}
	saved, err := st.Load()
	if err != nil {
		return types.Settings{}, err
	}
	flags := types.Settings{
		APIKey:  viper.GetString("api_key"),
		BaseURL: viper.GetString("base_url"),
		ModelID: viper.GetString("model_id"),
	}
	return settings.Resolve(flags, saved, loadedSecrets.Settings()), nil
}

func agentConfig(conn types.Settings, timeout time.Duration) types.AgentConfig {
	hc := httpConfig()
	if timeout > 0 {
		hc.Timeout = timeout
	}
	return types.AgentConfig{
		HTTPConfig:       hc,
		APIKey:           conn.APIKey,
		BaseURL:          conn.BaseURL,
		Model:            conn.ModelID,
		MaxRetries:       viper.GetInt("max_retries"),
		StructuredOutput: viper.GetBool("structured_output"),
	}
}

// openSession opens the session store and loads its sources. The caller
// closes the store.
func openSession(ctx context.Context) (*source.Store, *source.Session, error) {
	store, err := source.NewStore(sessionConfig())
	if err != nil {
		return nil, nil, err
	}
	sess, err := store.Load(ctx)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return store, sess, nil
}
