// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/knowledge-agent/pkg/types"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Save, show or clear the model connection settings",
	Long: `Settings stores the API key, base URL and model ID given with --api-key,
--base-url and --model so later commands can omit them. Flags and
environment variables still take precedence over saved values.`,
}

var settingsSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save --api-key, --base-url and --model",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := types.Settings{
			APIKey:  viper.GetString("api_key"),
			BaseURL: viper.GetString("base_url"),
			ModelID: viper.GetString("model_id"),
		}
		if in.IsZero() {
			return fmt.Errorf("nothing to save: pass --api-key, --base-url or --model")
		}
		st, err := settingsStore()
		if err != nil {
			return err
		}
		if err := st.Save(in); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Settings saved to %s\n", st.Path())
		return nil
	},
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the settings in effect",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := connection()
		if err != nil {
			return err
		}
		baseURL, model := conn.BaseURL, conn.ModelID
		if baseURL == "" {
			baseURL = types.DefaultBaseURL + " (default)"
		}
		if model == "" {
			model = types.DefaultModelID + " (default)"
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "API key:  %s\n", maskKey(conn.APIKey))
		fmt.Fprintf(out, "Base URL: %s\n", baseURL)
		fmt.Fprintf(out, "Model:    %s\n", model)
		return nil
	},
}

var settingsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the saved settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := settingsStore()
		if err != nil {
			return err
		}
		if err := st.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved settings cleared")
		return nil
	},
}

// maskKey keeps the last four characters of key.
func maskKey(key string) string {
	switch {
	case key == "":
		return "(not set)"
	case len(key) <= 4:
		return "****"
	default:
		return "****" + key[len(key)-4:]
	}
}

func init() {
	settingsCmd.AddCommand(settingsSaveCmd)
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsClearCmd)

	rootCmd.AddCommand(settingsCmd)
}
