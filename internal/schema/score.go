package schema

import "time"

// Score 每用户每计分周期的得分。
// (user_email, challenge_id, period_start) 为唯一键，重算就地覆盖，不产生重复行。
type Score struct {
	ID               int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserEmail        string    `gorm:"size:255;not null;uniqueIndex:uniq_score_key" json:"user_email"`
	ChallengeID      int64     `gorm:"not null;uniqueIndex:uniq_score_key" json:"challenge_id"`
	PeriodStart      string    `gorm:"size:10;not null;uniqueIndex:uniq_score_key" json:"period_start"` // YYYY-MM-DD
	PeriodEnd        string    `gorm:"size:10;not null" json:"period_end"`                              // YYYY-MM-DD
	PeriodScore      int       `gorm:"not null" json:"period_score"`
	LastRecalculated time.Time `json:"last_recalculated"`
}

func (Score) TableName() string {
	return "scores"
}
