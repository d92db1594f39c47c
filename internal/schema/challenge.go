package schema

import "time"

// Frequency 记录/计分频率
type Frequency string

const (
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
)

// Valid 判断是否为已知频率
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// AggregationMethod 指标的聚合方式
type AggregationMethod string

const (
	AggSum   AggregationMethod = "SUM"
	AggCount AggregationMethod = "COUNT"
	AggMax   AggregationMethod = "MAX"
	AggLast  AggregationMethod = "LAST"
)

// Valid 判断是否为已知聚合方式
func (m AggregationMethod) Valid() bool {
	switch m {
	case AggSum, AggCount, AggMax, AggLast:
		return true
	}
	return false
}

// Challenge 挑战 - 有固定起止日期的竞赛，包含若干指标。
// 计分引擎只读；指标与规则随挑战整体加载。
type Challenge struct {
	ID               int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name             string    `gorm:"size:255;not null" json:"name"`
	Description      string    `gorm:"type:text" json:"description"`
	StartDate        string    `gorm:"size:10;not null" json:"start_date"` // YYYY-MM-DD
	EndDate          string    `gorm:"size:10;not null" json:"end_date"`   // YYYY-MM-DD
	LoggingFrequency Frequency `gorm:"size:10;not null" json:"logging_frequency"`
	ScoringFrequency Frequency `gorm:"size:10;not null" json:"scoring_frequency"`
	Metrics          []Metric  `gorm:"foreignKey:ChallengeID" json:"metrics"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Challenge) TableName() string {
	return "challenges"
}

// Metric 挑战内的单个可量化指标
type Metric struct {
	ID                int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	ChallengeID       int64             `gorm:"index;not null" json:"challenge_id"`
	Name              string            `gorm:"size:255;not null" json:"name"`
	Unit              string            `gorm:"size:50" json:"unit"` // 仅用于展示，不参与计分
	AggregationMethod AggregationMethod `gorm:"size:10;not null" json:"aggregation_method"`
	ScoringRules      []ScoringRule     `gorm:"foreignKey:MetricID" json:"scoring_rules"`
}

func (Metric) TableName() string {
	return "metrics"
}

// ScoringRule 计分规则：聚合值落入 [ThresholdMin, ThresholdMax] 区间时得 Points 分。
// ThresholdMax 为 nil 表示上不封顶；区间重叠时 Priority 高者生效。
type ScoringRule struct {
	ID           int64    `gorm:"primaryKey;autoIncrement" json:"id"`
	MetricID     int64    `gorm:"index;not null" json:"metric_id"`
	ThresholdMin float64  `gorm:"not null" json:"threshold_min"`
	ThresholdMax *float64 `json:"threshold_max"`
	Points       int      `gorm:"not null" json:"points"`
	Priority     int      `gorm:"default:0" json:"priority"`
}

func (ScoringRule) TableName() string {
	return "scoring_rules"
}
