package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"travelshot/internal/infra/credentials"
)

func newGeminiKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gemini-key",
		Short: "Manage the Gemini API key stored in integration_tokens",
	}

	var label string
	set := &cobra.Command{
		Use:   "set [key]",
		Short: "Store a Gemini API key (falls back to GEMINI_API_KEY)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := os.Getenv("GEMINI_API_KEY")
			if len(args) == 1 {
				key = args[0]
			}
			if strings.TrimSpace(key) == "" {
				return fmt.Errorf("GEMINI API key is required as an argument or via environment")
			}

			runner, closeDB, err := openRunner(cmd.Context(), "gemini-key")
			if err != nil {
				return err
			}
			defer closeDB()

			var props map[string]any
			if label != "" {
				props = map[string]any{"label": label}
			}
			if err := credentials.NewStore(runner).SetGeminiAPIKey(cmd.Context(), key, props); err != nil {
				return fmt.Errorf("persist gemini api key: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "GEMINI API key stored successfully")
			return nil
		},
	}
	set.Flags().StringVar(&label, "label", "", "free-form label kept with the key")

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the stored key, masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, closeDB, err := openRunner(cmd.Context(), "gemini-key")
			if err != nil {
				return err
			}
			defer closeDB()

			key, err := credentials.NewStore(runner).Token(cmd.Context(), credentials.ProviderGemini)
			if err != nil {
				return err
			}
			if key == "" {
				return credentials.ErrNoCredential
			}
			fmt.Fprintln(cmd.OutOrStdout(), maskKey(key))
			return nil
		},
	}

	cmd.AddCommand(set, show)
	return cmd
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
