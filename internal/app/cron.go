package app

import (
	"context"
	"time"

	"github.com/eduspace/core/internal/models"
	"github.com/eduspace/core/internal/modules/payment"
	"github.com/eduspace/core/internal/modules/system/configs"
	pkgcron "github.com/eduspace/core/internal/pkg/cron"
	pkgredis "github.com/eduspace/core/internal/pkg/redis"
	"github.com/eduspace/core/internal/pkg/taskqueue"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const completedTaskRetention = 7 * 24 * time.Hour

// registerCronJobs registers all scheduled background jobs.
func registerCronJobs(sched *pkgcron.Scheduler, db *gorm.DB, rc *pkgredis.Client, logger *zap.Logger) {
	cronLogger := logger.Named("cron")
	paymentSvc := payment.NewService(db, configs.NewService(db), logger)
	taskSvc := taskqueue.NewService(rc)

	sched.Register(pkgcron.Job{
		Name:        "purge_expired_sessions",
		Description: "Remove login sessions past their expiry",
		Interval:    time.Hour,
		Fn: func(ctx context.Context) error {
			result := db.Where("expires_at < ?", time.Now()).Delete(&models.UserSession{})
			if result.Error != nil {
				cronLogger.Warn("session purge failed", zap.Error(result.Error))
				return result.Error
			}
			if result.RowsAffected > 0 {
				cronLogger.Info("purged expired sessions", zap.Int64("count", result.RowsAffected))
			}
			return nil
		},
	})

	sched.Register(pkgcron.Job{
		Name:        "expire_stale_payments",
		Description: "Mark pending payment orders older than 24h as failed",
		Interval:    time.Hour,
		Fn: func(ctx context.Context) error {
			expired, err := paymentSvc.ExpireStale()
			if err != nil {
				cronLogger.Warn("payment expiry sweep failed", zap.Error(err))
				return err
			}
			if expired > 0 {
				cronLogger.Info("expired stale payment orders", zap.Int64("count", expired))
			}
			return nil
		},
	})

	sched.Register(pkgcron.Job{
		Name:        "cleanup_completed_tasks",
		Description: "Delete completed queue tasks older than 7 days",
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			cutoff := time.Now().Add(-completedTaskRetention).UnixMilli()
			if err := taskSvc.DeleteCompleted(ctx, cutoff); err != nil {
				cronLogger.Warn("task cleanup failed", zap.Error(err))
				return err
			}
			return nil
		},
	})
}
