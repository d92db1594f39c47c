package seed

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/zhengye7/fitarena/internal/dto"
	"github.com/zhengye7/fitarena/internal/repository"
	"go.yaml.in/yaml/v3"
)

// Fixture YAML 种子文件：挑战 + 指标 + 计分规则整体声明
type Fixture struct {
	Challenges []ChallengeFixture `yaml:"challenges"`
}

// ChallengeFixture 单个挑战的种子定义
type ChallengeFixture struct {
	Name             string          `yaml:"name"`
	Description      string          `yaml:"description"`
	StartDate        string          `yaml:"start_date"`
	EndDate          string          `yaml:"end_date"`
	LoggingFrequency string          `yaml:"logging_frequency"`
	ScoringFrequency string          `yaml:"scoring_frequency"`
	Metrics          []MetricFixture `yaml:"metrics"`
}

// MetricFixture 指标种子定义
type MetricFixture struct {
	Name              string        `yaml:"name"`
	Unit              string        `yaml:"unit"`
	AggregationMethod string        `yaml:"aggregation_method"`
	ScoringRules      []RuleFixture `yaml:"scoring_rules"`
}

// RuleFixture 计分规则种子定义
type RuleFixture struct {
	ThresholdMin *float64 `yaml:"threshold_min"`
	ThresholdMax *float64 `yaml:"threshold_max"`
	Points       int      `yaml:"points"`
	Priority     int      `yaml:"priority"`
}

// LoadFixture 读取并解析种子文件
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取种子文件失败: %w", err)
	}

	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("解析种子文件失败: %w", err)
	}
	if len(fixture.Challenges) == 0 {
		return nil, fmt.Errorf("种子文件未声明任何挑战")
	}
	return &fixture, nil
}

// Apply 校验并写入全部挑战，返回创建数量。
// 校验走与 HTTP 创建相同的规则，畸形种子在落库前被拒绝。
func (f *Fixture) Apply(ctx context.Context, repo *repository.ChallengeRepository) (int, error) {
	created := 0
	for i, cf := range f.Challenges {
		req := cf.toRequest()
		if err := req.Validate(); err != nil {
			return created, fmt.Errorf("challenges[%d] 校验失败: %w", i, err)
		}

		challenge := req.ToSchema()
		if err := repo.Create(ctx, challenge); err != nil {
			return created, err
		}
		created++
		slog.Info("种子挑战已创建", "id", challenge.ID, "name", challenge.Name, "metrics", len(challenge.Metrics))
	}
	return created, nil
}

func (cf *ChallengeFixture) toRequest() *dto.CreateChallengeRequest {
	req := &dto.CreateChallengeRequest{
		Name:             cf.Name,
		Description:      cf.Description,
		StartDate:        cf.StartDate,
		EndDate:          cf.EndDate,
		LoggingFrequency: cf.LoggingFrequency,
		ScoringFrequency: cf.ScoringFrequency,
	}
	for _, mf := range cf.Metrics {
		metric := dto.MetricInput{
			Name:              mf.Name,
			Unit:              mf.Unit,
			AggregationMethod: mf.AggregationMethod,
		}
		for _, rf := range mf.ScoringRules {
			metric.ScoringRules = append(metric.ScoringRules, dto.RuleInput{
				ThresholdMin: rf.ThresholdMin,
				ThresholdMax: rf.ThresholdMax,
				Points:       rf.Points,
				Priority:     rf.Priority,
			})
		}
		req.Metrics = append(req.Metrics, metric)
	}
	return req
}
