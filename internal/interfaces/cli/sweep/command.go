// Package sweep implements the one-shot expiry sweep command, useful
// for cron-driven deployments that do not run the in-process scheduler.
package sweep

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	subscriptionUsecases "github.com/loam-dev/loam/internal/application/subscription/usecases"
	"github.com/loam-dev/loam/internal/infrastructure/config"
	"github.com/loam-dev/loam/internal/infrastructure/database"
	"github.com/loam-dev/loam/internal/infrastructure/email"
	"github.com/loam-dev/loam/internal/infrastructure/repository"
	"github.com/loam-dev/loam/internal/shared/biztime"
	"github.com/loam-dev/loam/internal/shared/logger"
)

var (
	env     string
	timeout time.Duration
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run the subscription expiry sweep once",
		Long:  `Flip lapsed subscriptions to expired and send pending expiry notifications, then exit. The sweep is idempotent, so overlapping runs are safe.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "Maximum time the sweep may run")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log := logger.NewLogger()

	if err := biztime.Init(cfg.Timezone.Business); err != nil {
		return fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	db := database.Get()
	clock := biztime.SystemClock()

	subscriptionRepo := repository.NewSubscriptionRepository(db, log)
	recordRepo := repository.NewNotificationRecordRepository(db, log)

	resolver, err := email.NewTemplateResolver(cfg.Email.RecipientTemplate)
	if err != nil {
		return fmt.Errorf("invalid recipient template: %w", err)
	}
	notifier := email.NewSMTPNotifier(email.SMTPConfig{
		Host:        cfg.Email.SMTPHost,
		Port:        cfg.Email.SMTPPort,
		Username:    cfg.Email.SMTPUser,
		Password:    cfg.Email.SMTPPassword,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		BaseURL:     cfg.Email.BaseURL,
	}, resolver, log)

	sweepExpiredUC := subscriptionUsecases.NewSweepExpiredUseCase(subscriptionRepo, clock, log)
	sweepAndNotifyUC := subscriptionUsecases.NewSweepAndNotifyUseCase(
		sweepExpiredUC, subscriptionRepo, recordRepo, notifier, clock,
		cfg.Subscription.WarningWindowDays, log,
	)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	report, err := sweepAndNotifyUC.Execute(ctx)
	if err != nil {
		log.Errorw("sweep failed", "error", err)
		return fmt.Errorf("sweep failed: %w", err)
	}

	log.Infow("sweep completed",
		"expired_count", report.ExpiredCount,
		"notified_count", report.NotifiedCount,
	)

	fmt.Printf("Sweep completed: %d expired, %d notifications sent\n",
		report.ExpiredCount, report.NotifiedCount)

	return nil
}
