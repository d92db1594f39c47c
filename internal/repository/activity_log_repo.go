package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/zhengye7/fitarena/internal/schema"
	"gorm.io/gorm"
)

// ActivityLogRepository 活动记录仓储
type ActivityLogRepository struct {
	db *gorm.DB
}

// NewActivityLogRepository 创建活动记录仓储
func NewActivityLogRepository(db *gorm.DB) *ActivityLogRepository {
	return &ActivityLogRepository{db: db}
}

// Create 创建单条活动记录
func (r *ActivityLogRepository) Create(ctx context.Context, log *schema.ActivityLog) error {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("创建活动记录失败: %w", err)
	}
	return nil
}

// BatchInsert 批量插入活动记录（事务包裹）
func (r *ActivityLogRepository) BatchInsert(ctx context.Context, logs []schema.ActivityLog) error {
	if len(logs) == 0 {
		return nil
	}

	start := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(logs, 100).Error
	})

	if err != nil {
		slog.Error("批量插入活动记录失败", "count", len(logs), "error", err)
		return fmt.Errorf("批量插入活动记录失败: %w", err)
	}

	slog.Debug("批量插入活动记录成功", "count", len(logs), "duration", time.Since(start))
	return nil
}

// FindForScoring 查询计分窗口内某用户某指标的活动记录。
// 按 logged_at 升序（同时刻按 ID 升序），LAST 聚合依赖此序。
func (r *ActivityLogRepository) FindForScoring(ctx context.Context, userEmail string, metricID int64, startMs, endMs int64) ([]schema.ActivityLog, error) {
	var logs []schema.ActivityLog
	err := r.db.WithContext(ctx).
		Where("user_email = ? AND metric_id = ? AND logged_at >= ? AND logged_at <= ?",
			userEmail, metricID, startMs, endMs).
		Order("logged_at ASC, id ASC").
		Find(&logs).Error

	if err != nil {
		return nil, fmt.Errorf("查询活动记录失败: %w", err)
	}

	return logs, nil
}

// DistinctUserEmails 枚举在挑战的任一指标下留有活动记录的用户邮箱（升序）
func (r *ActivityLogRepository) DistinctUserEmails(ctx context.Context, challengeID int64) ([]string, error) {
	var emails []string
	err := r.db.WithContext(ctx).
		Model(&schema.ActivityLog{}).
		Distinct("activity_logs.user_email").
		Joins("JOIN metrics ON metrics.id = activity_logs.metric_id").
		Where("metrics.challenge_id = ?", challengeID).
		Order("activity_logs.user_email ASC").
		Pluck("activity_logs.user_email", &emails).Error

	if err != nil {
		return nil, fmt.Errorf("枚举挑战用户失败: %w", err)
	}

	return emails, nil
}

// Count 统计活动记录总数
func (r *ActivityLogRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&schema.ActivityLog{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("统计活动记录失败: %w", err)
	}
	return count, nil
}
