package main

import (
	"complainthub/backend/internal/api/handler"
	"complainthub/backend/internal/models"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	var (
		userID string
		role   string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := models.Role(role)
			if !r.Valid() {
				return fmt.Errorf("invalid --role %q", role)
			}
			if _, err := uuid.Parse(userID); err != nil {
				return fmt.Errorf("invalid --user %q: not a uuid", userID)
			}
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}

			auth := handler.NewAuthenticator(cfg.JWTSecret, cfg.JWTIssuer)
			if ttl > 0 {
				auth.TTL = ttl
			}
			token, err := auth.GenerateToken(userID, r)
			if err != nil {
				return err
			}
			printf(cmd, "%s\n", token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User id (required)")
	cmd.Flags().StringVar(&role, "role", string(models.RoleSubmitter), "Role: student or manager")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (default 72h)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
