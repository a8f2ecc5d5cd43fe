package main

import (
	"github.com/spf13/cobra"

	"github.com/gokatarajesh/quizpin/internal/auth/jwt"
)

func newTokenCmd() *cobra.Command {
	var (
		userID string
		name   string
		role   string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token signed with JWT_SECRET (development only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			tokens := jwt.NewManager(jwt.TokenConfig{
				AccessSecret: []byte(cfg.Security.JWTSecret),
				AccessTTL:    cfg.Security.TokenTTL,
				Issuer:       cfg.Security.JWTIssuer,
			})
			token, err := tokens.GenerateAccessToken(jwt.User{ID: userID, DisplayName: name, Role: role})
			if err != nil {
				return err
			}
			printf(cmd, "%s\n", token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id placed in the token subject")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&role, "role", "", "role claim, e.g. admin")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
