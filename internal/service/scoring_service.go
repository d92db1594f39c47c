package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/zhengye7/fitarena/internal/eventbus"
	"github.com/zhengye7/fitarena/internal/repository"
	"github.com/zhengye7/fitarena/internal/schema"
	"gorm.io/gorm"
)

// ScoringService 计分引擎：周期切分 → 日志聚合 → 规则求值 → 得分落库。
// 单次重算在一个数据库事务内完成，中途失败不会留下部分周期的写入。
type ScoringService struct {
	db  *gorm.DB
	hub *eventbus.Hub
}

// NewScoringService 创建计分服务
func NewScoringService(db *gorm.DB, hub *eventbus.Hub) *ScoringService {
	return &ScoringService{db: db, hub: hub}
}

// RecalculateUserScores 重算单个用户在挑战内所有计分周期的得分。
// 挑战不存在返回 ErrChallengeNotFound；重复调用结果幂等，不产生重复得分行。
func (s *ScoringService) RecalculateUserScores(ctx context.Context, challengeID int64, userEmail string) error {
	challengeRepo := repository.NewChallengeRepository(s.db)
	challenge, err := challengeRepo.GetWithRules(ctx, challengeID)
	if err != nil {
		return err
	}
	if challenge == nil {
		return fmt.Errorf("%w: id=%d", ErrChallengeNotFound, challengeID)
	}

	periods, err := CalculatePeriods(challenge.StartDate, challenge.EndDate, challenge.ScoringFrequency)
	if err != nil {
		return err
	}

	start := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		logRepo := repository.NewActivityLogRepository(tx)
		scoreRepo := repository.NewScoreRepository(tx)

		for _, period := range periods {
			windowStart, windowEnd, err := repository.DayWindow(period.Start, period.End)
			if err != nil {
				return err
			}

			total := 0
			for _, metric := range challenge.Metrics {
				logs, err := logRepo.FindForScoring(ctx, userEmail, metric.ID, windowStart, windowEnd)
				if err != nil {
					return err
				}
				value := AggregateLogs(metric.AggregationMethod, logs)
				total += CalcPoints(value, metric.ScoringRules)
			}

			if err := reconcileScore(ctx, scoreRepo, userEmail, challenge.ID, period, total); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("重算用户得分失败: %w", err)
	}

	slog.Info("用户得分重算完成",
		"challenge_id", challengeID,
		"user", userEmail,
		"periods", len(periods),
		"duration", time.Since(start))

	s.hub.Publish(eventbus.Event{
		Type: eventbus.EventScoreRecalculated,
		Data: map[string]any{
			"challenge_id": challengeID,
			"user_email":   userEmail,
			"periods":      len(periods),
		},
	})
	return nil
}

// RecalculateChallengeScores 重算挑战内所有留有活动记录用户的得分。
// 每个用户一个事务，单个用户失败即中止并返回错误。
func (s *ScoringService) RecalculateChallengeScores(ctx context.Context, challengeID int64) error {
	challengeRepo := repository.NewChallengeRepository(s.db)
	exists, err := challengeRepo.Exists(ctx, challengeID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: id=%d", ErrChallengeNotFound, challengeID)
	}

	logRepo := repository.NewActivityLogRepository(s.db)
	emails, err := logRepo.DistinctUserEmails(ctx, challengeID)
	if err != nil {
		return err
	}

	for _, email := range emails {
		if err := s.RecalculateUserScores(ctx, challengeID, email); err != nil {
			return err
		}
	}

	slog.Info("挑战得分重算完成", "challenge_id", challengeID, "users", len(emails))
	return nil
}

// reconcileScore 按唯一键 (user_email, challenge_id, period_start) 覆盖写入单周期得分。
// 已存在的记录只刷新周期边界、分值与重算时间，ID 保持不变。
func reconcileScore(ctx context.Context, scoreRepo *repository.ScoreRepository, userEmail string, challengeID int64, period Period, total int) error {
	return scoreRepo.Upsert(ctx, &schema.Score{
		UserEmail:        userEmail,
		ChallengeID:      challengeID,
		PeriodStart:      period.Start,
		PeriodEnd:        period.End,
		PeriodScore:      total,
		LastRecalculated: time.Now(),
	})
}
