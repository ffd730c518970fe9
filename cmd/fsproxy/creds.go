package main

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ds-wizard/fairsharing-proxy/pkg/config"
	"github.com/ds-wizard/fairsharing-proxy/pkg/upstream"
)

var credsFlags struct {
	username string
	password string
	check    bool
}

var credsCmd = &cobra.Command{
	Use:   "creds",
	Short: "Encode FAIRsharing credentials for proxy requests",
	Long: `Encode FAIRsharing credentials into the value clients send in the
Authorization header (canonical endpoint) or Api-Key header (legacy
endpoint): base64 of "username:password".

With --check, the credentials are also verified by signing in to the
configured FAIRsharing API.

Examples:
  # Print the header value
  fsproxy creds --username you@example.org --password secret

  # Verify the credentials against the upstream first
  fsproxy creds --username you@example.org --password secret --check`,
	RunE: runCreds,
}

func init() {
	rootCmd.AddCommand(credsCmd)

	credsCmd.Flags().StringVarP(&credsFlags.username, "username", "u", "", "FAIRsharing account username")
	credsCmd.Flags().StringVarP(&credsFlags.password, "password", "p", "", "FAIRsharing account password")
	credsCmd.Flags().BoolVar(&credsFlags.check, "check", false, "verify the credentials by signing in")
	_ = credsCmd.MarkFlagRequired("username")
	_ = credsCmd.MarkFlagRequired("password")
}

func runCreds(cmd *cobra.Command, args []string) error {
	if credsFlags.check {
		cfg, err := config.LoadWithEnvOverrides(cfgFile)
		if err != nil {
			return err
		}

		client := upstream.NewClient(upstream.Config{
			API:     cfg.Upstream.API,
			Timeout: cfg.Upstream.Timeout,
		})

		token, err := client.Login(cmd.Context(), credsFlags.username, credsFlags.password)
		if err != nil {
			return fmt.Errorf("sign-in failed: %w", err)
		}
		if !token.OK() {
			return fmt.Errorf("credentials rejected: %s", token.Message)
		}
		fmt.Printf("Credentials accepted, token valid until %s\n",
			token.Expiry.Format(time.RFC3339))
	}

	value := base64.StdEncoding.EncodeToString(
		[]byte(credsFlags.username + ":" + credsFlags.password))
	fmt.Println(value)
	return nil
}
