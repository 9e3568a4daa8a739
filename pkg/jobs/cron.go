package jobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jordanlanch/brokerhub/pkg/configstore"
	"github.com/jordanlanch/brokerhub/pkg/models"
	"github.com/jordanlanch/brokerhub/pkg/scoring"
	"github.com/jordanlanch/brokerhub/pkg/store"
)

// CronManager manages scheduled jobs
type CronManager struct {
	cron    *cron.Cron
	store   *store.Store
	configs *configstore.Service
	scoring *scoring.Service
	logger  *log.Logger
}

// NewCronManager creates a new cron manager
func NewCronManager(st *store.Store, configs *configstore.Service, sc *scoring.Service, logger *log.Logger) *CronManager {
	if logger == nil {
		logger = log.Default()
	}

	return &CronManager{
		cron:    cron.New(),
		store:   st,
		configs: configs,
		scoring: sc,
		logger:  logger,
	}
}

// SetupJobs configures all scheduled jobs
func (cm *CronManager) SetupJobs() error {
	cm.logger.Println("Setting up cron jobs...")

	// Every 30 minutes: probe each active API configuration and stamp
	// the result, so the settings view shows fresh connectivity state
	_, err := cm.cron.AddFunc("*/30 * * * *", func() {
		cm.logger.Println("🕐 Running integration health sweep...")

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		configs, err := cm.configs.APIConfigurations(ctx)
		if err != nil {
			cm.logger.Printf("❌ Failed to load api configurations: %v", err)
			return
		}

		healthy := 0
		for _, cfg := range configs {
			if !cfg.IsActive {
				continue
			}
			ok, err := cm.configs.TestAPIConfiguration(ctx, cfg.ID)
			if err != nil {
				cm.logger.Printf("⚠️ Health check errored for %s: %v", cfg.Name, err)
				continue
			}
			if ok {
				healthy++
			} else {
				cm.logger.Printf("⚠️ Integration %s is unreachable", cfg.Name)
			}
		}

		cm.logger.Printf("✅ Health sweep completed (%d/%d healthy)", healthy, len(configs))
	})
	if err != nil {
		return err
	}

	// Daily at 7 AM: log the monthly leaderboard standings
	_, err = cm.cron.AddFunc("0 7 * * *", func() {
		cm.logger.Println("🕐 Logging leaderboard standings...")

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()

		entries, err := cm.scoring.Leaderboard(ctx)
		if err != nil {
			cm.logger.Printf("❌ Failed to compute leaderboard: %v", err)
			return
		}

		cm.logger.Printf("📊 Monthly leaderboard:")
		for i, entry := range entries {
			cm.logger.Printf("  %d. %s - %d pts", i+1, entry.UserName, entry.MonthlyPoints)
		}
	})
	if err != nil {
		return err
	}

	// Daily at 8 AM: surface leads whose follow-up is due today
	_, err = cm.cron.AddFunc("0 8 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		cm.followUpSweep(ctx)
	})
	if err != nil {
		return err
	}

	cm.logger.Println("✅ Cron jobs configured successfully")
	cm.logger.Println("  - Every 30 min: integration health sweep")
	cm.logger.Println("  - Daily at 7 AM: leaderboard standings")
	cm.logger.Println("  - Daily at 8 AM: follow-up reminders")

	return nil
}

// followUpSweep logs leads whose next action is due today and returns
// how many are due. Closed leads are skipped.
func (cm *CronManager) followUpSweep(ctx context.Context) int {
	cm.logger.Println("🕐 Running follow-up reminder sweep...")

	leads, err := cm.store.Leads(ctx)
	if err != nil {
		cm.logger.Printf("❌ Failed to load leads: %v", err)
		return 0
	}

	today := time.Now().Format("2006-01-02")
	due := 0
	for _, lead := range leads {
		if lead.Status == models.LeadStatusSold || lead.Status == models.LeadStatusLost {
			continue
		}
		if lead.NextActionDate == nil || lead.NextActionDate.Format("2006-01-02") != today {
			continue
		}
		due++
		cm.logger.Printf("  📌 %s: %s", lead.Name, lead.NextAction)
	}

	cm.logger.Printf("✅ Follow-up sweep completed (%d due today)", due)
	return due
}

// Start starts the cron scheduler
func (cm *CronManager) Start() {
	cm.logger.Println("🚀 Starting cron scheduler...")
	cm.cron.Start()
}

// Stop stops the cron scheduler
func (cm *CronManager) Stop() {
	cm.logger.Println("🛑 Stopping cron scheduler...")
	cm.cron.Stop()
}
