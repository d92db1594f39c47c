package service

import (
	"fmt"
	"time"

	"github.com/zhengye7/fitarena/internal/schema"
)

const dateLayout = "2006-01-02"

// Period 计分周期，闭区间，YYYY-MM-DD
type Period struct {
	Start string
	End   string
}

// CalculatePeriods 按计分频率把挑战日期区间切分为首尾相接、互不重叠的周期序列。
// 游标从 startDate 出发：DAILY 周期为单日；WEEKLY 为游标起 7 天；
// MONTHLY 截止到游标所在月的最后一天。周期末尾超出 endDate 时截断，
// 因此末尾可能出现一个不足整周/整月的短周期。
func CalculatePeriods(startDate, endDate string, freq schema.Frequency) ([]Period, error) {
	loc := time.Local
	start, err := time.ParseInLocation(dateLayout, startDate, loc)
	if err != nil {
		return nil, fmt.Errorf("解析开始日期失败: %w", err)
	}
	end, err := time.ParseInLocation(dateLayout, endDate, loc)
	if err != nil {
		return nil, fmt.Errorf("解析结束日期失败: %w", err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("结束日期早于开始日期: %s < %s", endDate, startDate)
	}

	var periods []Period
	cur := start
	for !cur.After(end) {
		var periodEnd time.Time
		switch freq {
		case schema.FrequencyDaily:
			periodEnd = cur
		case schema.FrequencyWeekly:
			periodEnd = cur.AddDate(0, 0, 6)
		case schema.FrequencyMonthly:
			// 游标所在月的最后一天
			periodEnd = time.Date(cur.Year(), cur.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, 1, -1)
		default:
			return nil, fmt.Errorf("未知计分频率: %s", freq)
		}

		if periodEnd.After(end) {
			periodEnd = end
		}

		periods = append(periods, Period{
			Start: cur.Format(dateLayout),
			End:   periodEnd.Format(dateLayout),
		})
		cur = periodEnd.AddDate(0, 0, 1)
	}

	return periods, nil
}
