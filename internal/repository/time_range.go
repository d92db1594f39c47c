package repository

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// DayWindow 将 [startDate, endDate]（YYYY-MM-DD）展开为本地时区的全天闭区间毫秒时间戳：
// startDate 的 00:00:00.000 到 endDate 的 23:59:59.999。
func DayWindow(startDate, endDate string) (startMs int64, endMs int64, err error) {
	loc := time.Local
	start, err := time.ParseInLocation(dateLayout, startDate, loc)
	if err != nil {
		return 0, 0, fmt.Errorf("解析开始日期失败: %w", err)
	}
	end, err := time.ParseInLocation(dateLayout, endDate, loc)
	if err != nil {
		return 0, 0, fmt.Errorf("解析结束日期失败: %w", err)
	}
	return start.UnixMilli(), end.Add(24*time.Hour).UnixMilli() - 1, nil
}
