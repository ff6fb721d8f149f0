package main

import (
	"errors"
	"fmt"

	"github.com/jonathan/skill-matcher/internal/config"
	"github.com/jonathan/skill-matcher/internal/server"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a feedback token",
	Long:  "Sign a bearer token for POST /feedback with JWT_SECRET. The subject is recorded with every feedback event submitted under the token.",
	RunE:  runToken,
}

var tokenSubject string

func init() {
	tokenCmd.Flags().StringVarP(&tokenSubject, "subject", "s", "", "Curator name recorded with feedback (required)")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	if tokenSubject == "" {
		return errors.New("--subject is required")
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return err
	}
	if !jwtConfig.Enabled() {
		return errors.New("JWT_SECRET environment variable is required")
	}

	token, err := server.NewJWTService(jwtConfig).GenerateToken(tokenSubject)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
