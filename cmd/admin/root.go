package main

import (
	"complainthub/backend/internal/complaint"
	"complainthub/backend/internal/config"
	"complainthub/backend/internal/eventhub"
	"complainthub/backend/internal/logging"
	"complainthub/backend/internal/storage"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "admin",
		Short:        "Complaints backend administration",
		SilenceUsage: true,
	}
	cmd.AddCommand(newMigrateCmd(), newUserCmd(), newTokenCmd(), newComplaintCmd())
	return cmd
}

func loadConfig() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logging.New(cfg.LogLevel, cfg.LogFormat), nil
}

// newService builds the lifecycle engine against the configured store. Events are
// published to Redis when it is configured so running servers see admin changes.
func newService(cfg *config.Config, logger *logrus.Logger) (*complaint.Service, func(), error) {
	store, err := storage.Open(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	blobs, err := storage.NewDiskBlobStore(cfg.Uploads.Dir)
	if err != nil {
		return nil, nil, err
	}
	policy, err := complaint.NewPolicy(complaint.DefaultCapabilities)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	var events complaint.EventPublisher
	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		events = eventhub.NewRedisBus(rdb, cfg.Redis.EventsChannel, logger)
		cleanup = func() { _ = rdb.Close() }
	}

	svc := complaint.NewService(store, policy, complaint.NewAttachmentResolver(blobs, logger), events, logger)
	return svc, cleanup, nil
}

func printf(cmd *cobra.Command, format string, args ...interface{}) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
