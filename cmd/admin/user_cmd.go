package main

import (
	"complainthub/backend/internal/models"
	"complainthub/backend/internal/storage"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	cmd.AddCommand(newUserAddCmd())
	return cmd
}

func newUserAddCmd() *cobra.Command {
	var (
		id    string
		name  string
		email string
		role  string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create or update a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := models.Role(role)
			if !r.Valid() {
				return fmt.Errorf("invalid --role %q: want %s or %s", role, models.RoleSubmitter, models.RoleManager)
			}
			if id != "" {
				if _, err := uuid.Parse(id); err != nil {
					return fmt.Errorf("invalid --id %q: not a uuid", id)
				}
			}
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := storage.Open(cfg.Database)
			if err != nil {
				return err
			}

			user := &models.User{ID: id, Name: name, Email: email, Role: r}
			if err := store.SaveUser(cmd.Context(), user); err != nil {
				return err
			}
			printf(cmd, "%s\n", user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "User UUID (generated when empty)")
	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&role, "role", string(models.RoleSubmitter), "Role: student or manager")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
