package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/zhengye7/fitarena/internal/schema"
	"gorm.io/gorm"
)

// ChallengeRepository 挑战仓储
type ChallengeRepository struct {
	db *gorm.DB
}

// NewChallengeRepository 创建挑战仓储
func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

// Create 创建挑战（级联写入指标与计分规则）
func (r *ChallengeRepository) Create(ctx context.Context, challenge *schema.Challenge) error {
	if err := r.db.WithContext(ctx).Create(challenge).Error; err != nil {
		return fmt.Errorf("创建挑战失败: %w", err)
	}
	return nil
}

// GetWithRules 加载完整聚合：挑战 + 指标 + 每个指标的计分规则。
// 指标与规则按 ID 升序，保证重算时的遍历顺序可复现。未找到返回 nil。
func (r *ChallengeRepository) GetWithRules(ctx context.Context, id int64) (*schema.Challenge, error) {
	var challenge schema.Challenge
	err := r.db.WithContext(ctx).
		Preload("Metrics", func(db *gorm.DB) *gorm.DB {
			return db.Order("metrics.id ASC")
		}).
		Preload("Metrics.ScoringRules", func(db *gorm.DB) *gorm.DB {
			return db.Order("scoring_rules.id ASC")
		}).
		First(&challenge, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询挑战失败: %w", err)
	}
	return &challenge, nil
}

// Exists 判断挑战是否存在
func (r *ChallengeRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&schema.Challenge{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("查询挑战失败: %w", err)
	}
	return count > 0, nil
}

// List 获取全部挑战（含指标与规则），按创建顺序
func (r *ChallengeRepository) List(ctx context.Context) ([]schema.Challenge, error) {
	var challenges []schema.Challenge
	err := r.db.WithContext(ctx).
		Preload("Metrics", func(db *gorm.DB) *gorm.DB {
			return db.Order("metrics.id ASC")
		}).
		Preload("Metrics.ScoringRules", func(db *gorm.DB) *gorm.DB {
			return db.Order("scoring_rules.id ASC")
		}).
		Order("id ASC").
		Find(&challenges).Error
	if err != nil {
		return nil, fmt.Errorf("查询挑战列表失败: %w", err)
	}
	return challenges, nil
}

// Count 统计挑战总数
func (r *ChallengeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&schema.Challenge{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("统计挑战失败: %w", err)
	}
	return count, nil
}
