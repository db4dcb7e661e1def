package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/athebyme/gomarket-platform/storefront-service/config"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/bootstrap"
	"github.com/spf13/cobra"
)

var (
	tokenUser  string
	tokenRoles []string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage admin API tokens",
}

var tokenIssueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue a signed admin token",
	Long: `Issue an HMAC signed token for the admin API. Only useful when keycloak
is disabled; the token is signed with security.jwtSecret.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return issueToken(cmd.OutOrStdout(), cfg, tokenUser, tokenRoles)
	},
}

func init() {
	tokenIssueCmd.Flags().StringVarP(&tokenUser, "user", "u", "", "User name written to the audit trail")
	tokenIssueCmd.Flags().StringSliceVarP(&tokenRoles, "role", "r", nil, "Roles of the token (default: security.adminRole)")
	_ = tokenIssueCmd.MarkFlagRequired("user")
}

func issueToken(out io.Writer, cfg *config.Config, user string, roles []string) error {
	if cfg.Security.Keycloak.Enabled {
		return fmt.Errorf("keycloak is enabled, tokens are issued by the realm")
	}
	user = strings.TrimSpace(user)
	if user == "" {
		return fmt.Errorf("user is required")
	}
	if len(roles) == 0 {
		roles = []string{cfg.Security.AdminRole}
	}

	manager, err := bootstrap.NewJWTManager(cfg)
	if err != nil {
		return err
	}
	token, err := manager.Generate(user, user, roles)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, token)
	return err
}
