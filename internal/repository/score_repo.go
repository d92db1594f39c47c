package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/zhengye7/fitarena/internal/schema"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScoreRepository 得分仓储
type ScoreRepository struct {
	db *gorm.DB
}

// NewScoreRepository 创建得分仓储
func NewScoreRepository(db *gorm.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

// Get 按唯一键 (user_email, challenge_id, period_start) 查询，未找到返回 nil
func (r *ScoreRepository) Get(ctx context.Context, userEmail string, challengeID int64, periodStart string) (*schema.Score, error) {
	var score schema.Score
	err := r.db.WithContext(ctx).
		Where("user_email = ? AND challenge_id = ? AND period_start = ?", userEmail, challengeID, periodStart).
		First(&score).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询得分失败: %w", err)
	}
	return &score, nil
}

// Upsert 按唯一键插入或覆盖。冲突时只更新周期边界、分值与重算时间。
func (r *ScoreRepository) Upsert(ctx context.Context, score *schema.Score) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_email"}, {Name: "challenge_id"}, {Name: "period_start"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"period_end", "period_score", "last_recalculated"}),
	}).Create(score).Error
	if err != nil {
		return fmt.Errorf("写入得分失败: %w", err)
	}
	return nil
}

// ListByUser 获取某用户在挑战内的全部周期得分（按周期起始升序）
func (r *ScoreRepository) ListByUser(ctx context.Context, challengeID int64, userEmail string) ([]schema.Score, error) {
	var scores []schema.Score
	err := r.db.WithContext(ctx).
		Where("challenge_id = ? AND user_email = ?", challengeID, userEmail).
		Order("period_start ASC").
		Find(&scores).Error
	if err != nil {
		return nil, fmt.Errorf("查询用户得分失败: %w", err)
	}
	return scores, nil
}

// ListByChallenge 获取挑战内的全部得分（按用户、周期起始升序）
func (r *ScoreRepository) ListByChallenge(ctx context.Context, challengeID int64) ([]schema.Score, error) {
	var scores []schema.Score
	err := r.db.WithContext(ctx).
		Where("challenge_id = ?", challengeID).
		Order("user_email ASC, period_start ASC").
		Find(&scores).Error
	if err != nil {
		return nil, fmt.Errorf("查询挑战得分失败: %w", err)
	}
	return scores, nil
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	UserEmail  string `json:"user_email"`
	TotalScore int    `json:"total_score"`
	Periods    int64  `json:"periods"`
}

// Leaderboard 按总分降序统计挑战内各用户的累计得分
func (r *ScoreRepository) Leaderboard(ctx context.Context, challengeID int64, limit int) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry
	query := r.db.WithContext(ctx).
		Model(&schema.Score{}).
		Select("user_email, SUM(period_score) as total_score, COUNT(*) as periods").
		Where("challenge_id = ?", challengeID).
		Group("user_email").
		Order("total_score DESC, user_email ASC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Scan(&entries).Error; err != nil {
		return nil, fmt.Errorf("查询排行榜失败: %w", err)
	}
	return entries, nil
}

// Count 统计得分记录总数
func (r *ScoreRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&schema.Score{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("统计得分失败: %w", err)
	}
	return count, nil
}
