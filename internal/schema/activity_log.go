package schema

import "time"

// ActivityLog 原始活动记录 - 用户对某指标的一次打卡/测量。
// 用户以邮箱标识，没有独立的用户表。
type ActivityLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserEmail string    `gorm:"size:255;index;not null" json:"user_email"`
	MetricID  int64     `gorm:"index" json:"metric_id"`
	RawValue  float64   `gorm:"not null" json:"raw_value"`
	LoggedAt  int64     `gorm:"index" json:"logged_at"` // Unix 时间戳 (毫秒)
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}

// NewActivityLog 创建活动记录，LoggedAt 默认为当前时刻
func NewActivityLog(userEmail string, metricID int64, rawValue float64) *ActivityLog {
	return &ActivityLog{
		UserEmail: userEmail,
		MetricID:  metricID,
		RawValue:  rawValue,
		LoggedAt:  time.Now().UnixMilli(),
	}
}
