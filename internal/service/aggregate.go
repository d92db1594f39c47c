package service

import "github.com/zhengye7/fitarena/internal/schema"

// AggregateLogs 把计分窗口内的活动记录按指标的聚合方式归约为单值。
// 无记录时一律为 0。LAST 取切片末尾元素，依赖仓储按 logged_at 升序返回。
func AggregateLogs(method schema.AggregationMethod, logs []schema.ActivityLog) float64 {
	if len(logs) == 0 {
		return 0
	}

	switch method {
	case schema.AggSum:
		sum := 0.0
		for _, l := range logs {
			sum += l.RawValue
		}
		return sum
	case schema.AggCount:
		return float64(len(logs))
	case schema.AggMax:
		max := logs[0].RawValue
		for _, l := range logs[1:] {
			if l.RawValue > max {
				max = l.RawValue
			}
		}
		return max
	case schema.AggLast:
		return logs[len(logs)-1].RawValue
	default:
		return 0
	}
}
