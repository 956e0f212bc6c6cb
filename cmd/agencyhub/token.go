package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neomorfeo/agencyhub/internal/auth"
	"github.com/neomorfeo/agencyhub/internal/domain"
)

func newTokenCmd() *cobra.Command {
	var subject, role, clientID string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API token signed with the configured key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			tokens, err := auth.NewManager(authOptions(cfg))
			if err != nil {
				return err
			}

			token, err := tokens.Issue(domain.Actor{ID: subject, Role: domain.Role(role), ClientID: clientID})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "user ID the token identifies")
	cmd.Flags().StringVar(&role, "role", "", "admin, staff or client")
	cmd.Flags().StringVar(&clientID, "client", "", "client ID (required for the client role)")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}
