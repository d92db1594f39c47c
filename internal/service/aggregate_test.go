package service

import (
	"testing"

	"github.com/zhengye7/fitarena/internal/schema"
)

func TestAggregateLogs(t *testing.T) {
	logs := []schema.ActivityLog{
		{RawValue: 5, LoggedAt: 1},
		{RawValue: 3, LoggedAt: 2},
		{RawValue: 8, LoggedAt: 3},
	}

	cases := []struct {
		method schema.AggregationMethod
		want   float64
	}{
		{schema.AggSum, 16},
		{schema.AggCount, 3},
		{schema.AggMax, 8},
		{schema.AggLast, 8}, // 升序输入，末尾即最晚
	}

	for _, tc := range cases {
		if got := AggregateLogs(tc.method, logs); got != tc.want {
			t.Errorf("AggregateLogs(%s) = %v, want %v", tc.method, got, tc.want)
		}
	}
}

func TestAggregateLogs_Empty(t *testing.T) {
	for _, method := range []schema.AggregationMethod{schema.AggSum, schema.AggCount, schema.AggMax, schema.AggLast} {
		if got := AggregateLogs(method, nil); got != 0 {
			t.Errorf("AggregateLogs(%s, empty) = %v, want 0", method, got)
		}
	}
}

func TestAggregateLogs_NegativeValues(t *testing.T) {
	logs := []schema.ActivityLog{
		{RawValue: -2, LoggedAt: 1},
		{RawValue: -7, LoggedAt: 2},
	}
	if got := AggregateLogs(schema.AggMax, logs); got != -2 {
		t.Errorf("MAX over negatives = %v, want -2", got)
	}
	if got := AggregateLogs(schema.AggSum, logs); got != -9 {
		t.Errorf("SUM over negatives = %v, want -9", got)
	}
}
