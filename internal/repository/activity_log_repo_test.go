package repository

import (
	"context"
	"testing"

	"github.com/zhengye7/fitarena/internal/schema"
	"github.com/zhengye7/fitarena/internal/testutil"
)

func TestFindForScoring_FullDayInclusive(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewActivityLogRepository(db)
	ctx := context.Background()

	startMs, endMs, err := DayWindow("2024-01-01", "2024-01-07")
	if err != nil {
		t.Fatalf("DayWindow error: %v", err)
	}

	logs := []schema.ActivityLog{
		{UserEmail: "a@x.com", MetricID: 1, RawValue: 1, LoggedAt: startMs},     // 首日 00:00:00.000
		{UserEmail: "a@x.com", MetricID: 1, RawValue: 2, LoggedAt: endMs},       // 末日最后一毫秒
		{UserEmail: "a@x.com", MetricID: 1, RawValue: 3, LoggedAt: startMs - 1}, // 窗口前
		{UserEmail: "a@x.com", MetricID: 1, RawValue: 4, LoggedAt: endMs + 1},   // 窗口后
		{UserEmail: "b@x.com", MetricID: 1, RawValue: 5, LoggedAt: startMs},     // 其他用户
		{UserEmail: "a@x.com", MetricID: 2, RawValue: 6, LoggedAt: startMs},     // 其他指标
	}
	if err := repo.BatchInsert(ctx, logs); err != nil {
		t.Fatalf("BatchInsert error: %v", err)
	}

	got, err := repo.FindForScoring(ctx, "a@x.com", 1, startMs, endMs)
	if err != nil {
		t.Fatalf("FindForScoring error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d logs, want 2 (both window endpoints): %+v", len(got), got)
	}
	// 升序：窗口起点在前
	if got[0].RawValue != 1 || got[1].RawValue != 2 {
		t.Errorf("unexpected order: %+v", got)
	}
}

func TestFindForScoring_ChronologicalOrder(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewActivityLogRepository(db)
	ctx := context.Background()

	// 乱序写入
	for _, l := range []schema.ActivityLog{
		{UserEmail: "a@x.com", MetricID: 1, RawValue: 30, LoggedAt: 3000},
		{UserEmail: "a@x.com", MetricID: 1, RawValue: 10, LoggedAt: 1000},
		{UserEmail: "a@x.com", MetricID: 1, RawValue: 20, LoggedAt: 2000},
	} {
		log := l
		if err := repo.Create(ctx, &log); err != nil {
			t.Fatalf("Create error: %v", err)
		}
	}

	got, err := repo.FindForScoring(ctx, "a@x.com", 1, 0, 9999)
	if err != nil {
		t.Fatalf("FindForScoring error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d logs, want 3", len(got))
	}
	for i, want := range []float64{10, 20, 30} {
		if got[i].RawValue != want {
			t.Errorf("got[%d].RawValue = %v, want %v (logged_at ascending)", i, got[i].RawValue, want)
		}
	}
}

func TestDistinctUserEmails(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()

	challenge := &schema.Challenge{
		Name:             "c1",
		StartDate:        "2024-01-01",
		EndDate:          "2024-01-07",
		LoggingFrequency: schema.FrequencyDaily,
		ScoringFrequency: schema.FrequencyWeekly,
		Metrics: []schema.Metric{
			{Name: "m1", AggregationMethod: schema.AggSum},
			{Name: "m2", AggregationMethod: schema.AggCount},
		},
	}
	if err := NewChallengeRepository(db).Create(ctx, challenge); err != nil {
		t.Fatalf("create challenge: %v", err)
	}

	other := &schema.Challenge{
		Name:             "c2",
		StartDate:        "2024-01-01",
		EndDate:          "2024-01-07",
		LoggingFrequency: schema.FrequencyDaily,
		ScoringFrequency: schema.FrequencyWeekly,
		Metrics:          []schema.Metric{{Name: "other", AggregationMethod: schema.AggSum}},
	}
	if err := NewChallengeRepository(db).Create(ctx, other); err != nil {
		t.Fatalf("create other challenge: %v", err)
	}

	logRepo := NewActivityLogRepository(db)
	logs := []schema.ActivityLog{
		{UserEmail: "zoe@x.com", MetricID: challenge.Metrics[0].ID, RawValue: 1, LoggedAt: 1},
		{UserEmail: "ana@x.com", MetricID: challenge.Metrics[1].ID, RawValue: 1, LoggedAt: 2},
		{UserEmail: "zoe@x.com", MetricID: challenge.Metrics[1].ID, RawValue: 1, LoggedAt: 3}, // 重复用户
		{UserEmail: "mia@x.com", MetricID: other.Metrics[0].ID, RawValue: 1, LoggedAt: 4},     // 别的挑战
	}
	if err := logRepo.BatchInsert(ctx, logs); err != nil {
		t.Fatalf("BatchInsert error: %v", err)
	}

	emails, err := logRepo.DistinctUserEmails(ctx, challenge.ID)
	if err != nil {
		t.Fatalf("DistinctUserEmails error: %v", err)
	}
	want := []string{"ana@x.com", "zoe@x.com"}
	if len(emails) != len(want) {
		t.Fatalf("got %v, want %v", emails, want)
	}
	for i := range want {
		if emails[i] != want[i] {
			t.Errorf("emails[%d] = %s, want %s", i, emails[i], want[i])
		}
	}
}
