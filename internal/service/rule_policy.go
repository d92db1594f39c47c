package service

import (
	"sort"

	"github.com/zhengye7/fitarena/internal/schema"
)

// CalcPoints 将聚合值映射为分值。
// 匹配条件：value >= ThresholdMin 且（ThresholdMax 为 nil 或 value <= ThresholdMax）。
// 多条规则命中时优先级高者生效；同优先级按声明顺序（ID 升序）取先者。
// 无命中为 0 分，不视为错误。
func CalcPoints(value float64, rules []schema.ScoringRule) int {
	var matched []schema.ScoringRule
	for _, rule := range rules {
		if value < rule.ThresholdMin {
			continue
		}
		if rule.ThresholdMax != nil && value > *rule.ThresholdMax {
			continue
		}
		matched = append(matched, rule)
	}

	if len(matched) == 0 {
		return 0
	}

	// 稳定排序：同优先级保持原有声明顺序
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Priority > matched[j].Priority
	})

	return matched[0].Points
}
