package dto

import (
	"fmt"
	"time"

	"github.com/zhengye7/fitarena/internal/schema"
)

// ========== 请求体（与前端契约保持稳定） ==========

// CreateChallengeRequest 创建挑战请求，指标与规则嵌套提交
type CreateChallengeRequest struct {
	Name             string        `json:"name"`
	Description      string        `json:"description"`
	StartDate        string        `json:"start_date"`
	EndDate          string        `json:"end_date"`
	LoggingFrequency string        `json:"logging_frequency"`
	ScoringFrequency string        `json:"scoring_frequency"`
	Metrics          []MetricInput `json:"metrics"`
}

// MetricInput 嵌套的指标定义
type MetricInput struct {
	Name              string      `json:"name"`
	Unit              string      `json:"unit"`
	AggregationMethod string      `json:"aggregation_method"`
	ScoringRules      []RuleInput `json:"scoring_rules"`
}

// RuleInput 嵌套的计分规则定义
type RuleInput struct {
	ThresholdMin *float64 `json:"threshold_min"`
	ThresholdMax *float64 `json:"threshold_max"`
	Points       int      `json:"points"`
	Priority     int      `json:"priority"`
}

const dateLayout = "2006-01-02"

// Validate 校验创建请求。畸形输入（缺失下阈值、未知枚举、起止颠倒）
// 在此边界拒绝，计分引擎假定输入已验证。
func (r *CreateChallengeRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name 不能为空")
	}
	start, err := time.Parse(dateLayout, r.StartDate)
	if err != nil {
		return fmt.Errorf("start_date 格式应为 YYYY-MM-DD: %w", err)
	}
	end, err := time.Parse(dateLayout, r.EndDate)
	if err != nil {
		return fmt.Errorf("end_date 格式应为 YYYY-MM-DD: %w", err)
	}
	if end.Before(start) {
		return fmt.Errorf("end_date 不能早于 start_date")
	}
	if !schema.Frequency(r.LoggingFrequency).Valid() {
		return fmt.Errorf("未知 logging_frequency: %q", r.LoggingFrequency)
	}
	if !schema.Frequency(r.ScoringFrequency).Valid() {
		return fmt.Errorf("未知 scoring_frequency: %q", r.ScoringFrequency)
	}
	for i, m := range r.Metrics {
		if m.Name == "" {
			return fmt.Errorf("metrics[%d].name 不能为空", i)
		}
		if !schema.AggregationMethod(m.AggregationMethod).Valid() {
			return fmt.Errorf("metrics[%d] 未知 aggregation_method: %q", i, m.AggregationMethod)
		}
		for j, rule := range m.ScoringRules {
			if rule.ThresholdMin == nil {
				return fmt.Errorf("metrics[%d].scoring_rules[%d].threshold_min 不能为空", i, j)
			}
			if rule.ThresholdMax != nil && *rule.ThresholdMax < *rule.ThresholdMin {
				return fmt.Errorf("metrics[%d].scoring_rules[%d] 上阈值小于下阈值", i, j)
			}
		}
	}
	return nil
}

// ToSchema 转换为持久化模型，外键由 gorm 级联写入时补齐
func (r *CreateChallengeRequest) ToSchema() *schema.Challenge {
	challenge := &schema.Challenge{
		Name:             r.Name,
		Description:      r.Description,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		LoggingFrequency: schema.Frequency(r.LoggingFrequency),
		ScoringFrequency: schema.Frequency(r.ScoringFrequency),
	}
	for _, m := range r.Metrics {
		metric := schema.Metric{
			Name:              m.Name,
			Unit:              m.Unit,
			AggregationMethod: schema.AggregationMethod(m.AggregationMethod),
		}
		for _, rule := range m.ScoringRules {
			metric.ScoringRules = append(metric.ScoringRules, schema.ScoringRule{
				ThresholdMin: *rule.ThresholdMin,
				ThresholdMax: rule.ThresholdMax,
				Points:       rule.Points,
				Priority:     rule.Priority,
			})
		}
		challenge.Metrics = append(challenge.Metrics, metric)
	}
	return challenge
}

// CreateLogRequest 上报活动记录请求
type CreateLogRequest struct {
	UserEmail string  `json:"user_email"`
	MetricID  int64   `json:"metric_id"`
	RawValue  float64 `json:"raw_value"`
	LoggedAt  int64   `json:"logged_at"` // Unix 毫秒，0 表示当前时刻
}

// Validate 校验上报请求
func (r *CreateLogRequest) Validate() error {
	if r.UserEmail == "" {
		return fmt.Errorf("user_email 不能为空")
	}
	if r.MetricID <= 0 {
		return fmt.Errorf("metric_id 不能为空")
	}
	return nil
}

// ToSchema 转换为持久化模型
func (r *CreateLogRequest) ToSchema() *schema.ActivityLog {
	log := schema.NewActivityLog(r.UserEmail, r.MetricID, r.RawValue)
	if r.LoggedAt > 0 {
		log.LoggedAt = r.LoggedAt
	}
	return log
}

// RecalculateResponse 重算结果
type RecalculateResponse struct {
	ChallengeID int64  `json:"challenge_id"`
	UserEmail   string `json:"user_email,omitempty"`
	Status      string `json:"status"`
}
