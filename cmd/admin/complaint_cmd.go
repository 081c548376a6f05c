package main

import (
	"complainthub/backend/internal/complaint"
	"complainthub/backend/internal/models"
	"fmt"

	"github.com/spf13/cobra"
)

func newComplaintCmd() *cobra.Command {
	var actorID string

	cmd := &cobra.Command{
		Use:   "complaint",
		Short: "Triage complaints as a manager",
	}
	cmd.PersistentFlags().StringVar(&actorID, "as", "admin", "Manager id recorded on published events")
	cmd.AddCommand(newSetStatusCmd(&actorID), newDeleteCmd(&actorID))
	return cmd
}

func newSetStatusCmd(actorID *string) *cobra.Command {
	var priority string

	cmd := &cobra.Command{
		Use:   "set-status <id> <status>",
		Short: "Set the status (and optionally priority) of a complaint",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !models.Status(args[1]).Valid() {
				return fmt.Errorf("invalid status %q", args[1])
			}
			if priority != "" && !models.Priority(priority).Valid() {
				return fmt.Errorf("invalid --priority %q", priority)
			}

			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			svc, cleanup, err := newService(cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			actor := models.Actor{ID: *actorID, Role: models.RoleManager}
			c, err := svc.ManagerUpdate(cmd.Context(), actor, args[0], complaint.ManagerPatch{Status: args[1], Priority: priority})
			if err != nil {
				return err
			}
			printf(cmd, "%s %s %s\n", c.ID, c.Status, c.Priority)
			return nil
		},
	}

	cmd.Flags().StringVar(&priority, "priority", "", "New priority (urgent, high, medium, low)")
	return cmd
}

func newDeleteCmd(actorID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Permanently delete a complaint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			svc, cleanup, err := newService(cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			actor := models.Actor{ID: *actorID, Role: models.RoleManager}
			if err := svc.Delete(cmd.Context(), actor, args[0]); err != nil {
				return err
			}
			printf(cmd, "deleted %s\n", args[0])
			return nil
		},
	}
}
