package service

import (
	"testing"
	"time"

	"github.com/zhengye7/fitarena/internal/schema"
)

func TestCalculatePeriods_Daily(t *testing.T) {
	periods, err := CalculatePeriods("2024-01-01", "2024-01-03", schema.FrequencyDaily)
	if err != nil {
		t.Fatalf("CalculatePeriods error: %v", err)
	}
	if len(periods) != 3 {
		t.Fatalf("got %d periods, want 3", len(periods))
	}
	for i, p := range periods {
		if p.Start != p.End {
			t.Errorf("periods[%d] = %+v, daily period should be one day", i, p)
		}
	}
	if periods[0].Start != "2024-01-01" || periods[2].End != "2024-01-03" {
		t.Errorf("unexpected bounds: %+v", periods)
	}
}

func TestCalculatePeriods_Weekly(t *testing.T) {
	periods, err := CalculatePeriods("2024-01-01", "2024-01-14", schema.FrequencyWeekly)
	if err != nil {
		t.Fatalf("CalculatePeriods error: %v", err)
	}
	want := []Period{
		{Start: "2024-01-01", End: "2024-01-07"},
		{Start: "2024-01-08", End: "2024-01-14"},
	}
	if len(periods) != len(want) {
		t.Fatalf("got %d periods, want %d: %+v", len(periods), len(want), periods)
	}
	for i := range want {
		if periods[i] != want[i] {
			t.Errorf("periods[%d] = %+v, want %+v", i, periods[i], want[i])
		}
	}
}

func TestCalculatePeriods_WeeklyShortTail(t *testing.T) {
	periods, err := CalculatePeriods("2024-01-01", "2024-01-10", schema.FrequencyWeekly)
	if err != nil {
		t.Fatalf("CalculatePeriods error: %v", err)
	}
	if len(periods) != 2 {
		t.Fatalf("got %d periods, want 2: %+v", len(periods), periods)
	}
	// 末尾短周期截断到挑战结束日
	last := periods[1]
	if last.Start != "2024-01-08" || last.End != "2024-01-10" {
		t.Errorf("tail period = %+v, want 2024-01-08 ~ 2024-01-10", last)
	}
}

func TestCalculatePeriods_Monthly(t *testing.T) {
	periods, err := CalculatePeriods("2024-01-15", "2024-03-10", schema.FrequencyMonthly)
	if err != nil {
		t.Fatalf("CalculatePeriods error: %v", err)
	}
	want := []Period{
		{Start: "2024-01-15", End: "2024-01-31"},
		{Start: "2024-02-01", End: "2024-02-29"}, // 闰年
		{Start: "2024-03-01", End: "2024-03-10"},
	}
	if len(periods) != len(want) {
		t.Fatalf("got %d periods, want %d: %+v", len(periods), len(want), periods)
	}
	for i := range want {
		if periods[i] != want[i] {
			t.Errorf("periods[%d] = %+v, want %+v", i, periods[i], want[i])
		}
	}
}

func TestCalculatePeriods_SingleDay(t *testing.T) {
	for _, freq := range []schema.Frequency{schema.FrequencyDaily, schema.FrequencyWeekly, schema.FrequencyMonthly} {
		periods, err := CalculatePeriods("2024-06-15", "2024-06-15", freq)
		if err != nil {
			t.Fatalf("%s: CalculatePeriods error: %v", freq, err)
		}
		if len(periods) != 1 {
			t.Fatalf("%s: got %d periods, want 1", freq, len(periods))
		}
		if periods[0].Start != "2024-06-15" || periods[0].End != "2024-06-15" {
			t.Errorf("%s: period = %+v", freq, periods[0])
		}
	}
}

// 覆盖性质：周期有序、首尾相接、互不重叠，并集恰为挑战区间
func TestCalculatePeriods_Coverage(t *testing.T) {
	cases := []struct {
		start, end string
		freq       schema.Frequency
	}{
		{"2024-01-01", "2024-12-31", schema.FrequencyWeekly},
		{"2024-01-01", "2024-12-31", schema.FrequencyMonthly},
		{"2024-02-20", "2024-03-05", schema.FrequencyDaily},
		{"2023-12-28", "2024-01-09", schema.FrequencyWeekly},
		{"2023-11-30", "2024-02-01", schema.FrequencyMonthly},
	}

	for _, tc := range cases {
		periods, err := CalculatePeriods(tc.start, tc.end, tc.freq)
		if err != nil {
			t.Fatalf("%s %s~%s: %v", tc.freq, tc.start, tc.end, err)
		}
		if len(periods) == 0 {
			t.Fatalf("%s %s~%s: empty periods", tc.freq, tc.start, tc.end)
		}
		if periods[0].Start != tc.start {
			t.Errorf("%s: first period starts at %s, want %s", tc.freq, periods[0].Start, tc.start)
		}
		if periods[len(periods)-1].End != tc.end {
			t.Errorf("%s: last period ends at %s, want %s", tc.freq, periods[len(periods)-1].End, tc.end)
		}
		for i, p := range periods {
			if p.Start > p.End {
				t.Errorf("%s: periods[%d] inverted: %+v", tc.freq, i, p)
			}
			if i == 0 {
				continue
			}
			prevEnd, _ := time.Parse(dateLayout, periods[i-1].End)
			curStart, _ := time.Parse(dateLayout, p.Start)
			if !curStart.Equal(prevEnd.AddDate(0, 0, 1)) {
				t.Errorf("%s: gap/overlap between %+v and %+v", tc.freq, periods[i-1], p)
			}
		}
	}
}

func TestCalculatePeriods_Invalid(t *testing.T) {
	if _, err := CalculatePeriods("2024-01-10", "2024-01-01", schema.FrequencyDaily); err == nil {
		t.Error("inverted range should fail")
	}
	if _, err := CalculatePeriods("not-a-date", "2024-01-01", schema.FrequencyDaily); err == nil {
		t.Error("malformed start date should fail")
	}
	if _, err := CalculatePeriods("2024-01-01", "2024-01-10", schema.Frequency("HOURLY")); err == nil {
		t.Error("unknown frequency should fail")
	}
}
