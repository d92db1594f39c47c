package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/zhengye7/fitarena/internal/repository"
	"github.com/zhengye7/fitarena/internal/testutil"
)

const fixtureYAML = `
challenges:
  - name: 测试挑战
    start_date: "2024-01-01"
    end_date: "2024-01-14"
    logging_frequency: DAILY
    scoring_frequency: WEEKLY
    metrics:
      - name: 喝水
        unit: 杯
        aggregation_method: SUM
        scoring_rules:
          - threshold_min: 10
            points: 3
            priority: 1
          - threshold_min: 5
            threshold_max: 9
            points: 1
            priority: 1
`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadFixtureAndApply(t *testing.T) {
	fixture, err := LoadFixture(writeFixture(t, fixtureYAML))
	if err != nil {
		t.Fatalf("LoadFixture error: %v", err)
	}
	if len(fixture.Challenges) != 1 {
		t.Fatalf("got %d challenges, want 1", len(fixture.Challenges))
	}

	db := testutil.OpenTestDB(t)
	repo := repository.NewChallengeRepository(db)

	created, err := fixture.Apply(context.Background(), repo)
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if created != 1 {
		t.Fatalf("created = %d, want 1", created)
	}

	challenges, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(challenges) != 1 {
		t.Fatalf("got %d challenges", len(challenges))
	}
	c := challenges[0]
	if c.Name != "测试挑战" || len(c.Metrics) != 1 {
		t.Fatalf("challenge = %+v", c)
	}
	rules := c.Metrics[0].ScoringRules
	if len(rules) != 2 {
		t.Fatalf("got %d rules, want 2", len(rules))
	}
	if rules[0].ThresholdMax != nil {
		t.Errorf("first rule should be unbounded above, got %v", *rules[0].ThresholdMax)
	}
	if rules[1].ThresholdMax == nil || *rules[1].ThresholdMax != 9 {
		t.Errorf("second rule threshold_max = %v, want 9", rules[1].ThresholdMax)
	}
}

func TestApply_RejectsMalformed(t *testing.T) {
	// 缺 threshold_min 的规则在落库前被拒绝
	bad := `
challenges:
  - name: 坏挑战
    start_date: "2024-01-01"
    end_date: "2024-01-14"
    logging_frequency: DAILY
    scoring_frequency: WEEKLY
    metrics:
      - name: m
        aggregation_method: SUM
        scoring_rules:
          - points: 3
`
	fixture, err := LoadFixture(writeFixture(t, bad))
	if err != nil {
		t.Fatalf("LoadFixture error: %v", err)
	}

	db := testutil.OpenTestDB(t)
	if _, err := fixture.Apply(context.Background(), repository.NewChallengeRepository(db)); err == nil {
		t.Fatal("malformed rule should be rejected")
	}
}

func TestLoadFixture_Empty(t *testing.T) {
	if _, err := LoadFixture(writeFixture(t, "challenges: []\n")); err == nil {
		t.Fatal("empty fixture should fail")
	}
}
