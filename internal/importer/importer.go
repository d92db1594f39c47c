package importer

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zhengye7/fitarena/internal/schema"
)

// logLine JSONL 导入文件的单行。
// logged_at 支持 Unix 毫秒数字或 RFC3339 字符串，缺省为当前时刻。
type logLine struct {
	UserEmail string          `json:"user_email"`
	MetricID  int64           `json:"metric_id"`
	RawValue  float64         `json:"raw_value"`
	LoggedAt  json.RawMessage `json:"logged_at"`
}

// ParseLogs 解析 JSONL 内容为活动记录。空行与 # 注释行跳过。
func ParseLogs(r io.Reader) ([]schema.ActivityLog, error) {
	var logs []schema.ActivityLog

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var raw logLine
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			return nil, fmt.Errorf("第 %d 行解析失败: %w", lineNo, err)
		}
		if raw.UserEmail == "" {
			return nil, fmt.Errorf("第 %d 行缺少 user_email", lineNo)
		}
		if raw.MetricID <= 0 {
			return nil, fmt.Errorf("第 %d 行缺少 metric_id", lineNo)
		}

		loggedAt, err := parseLoggedAt(raw.LoggedAt)
		if err != nil {
			return nil, fmt.Errorf("第 %d 行 logged_at 无效: %w", lineNo, err)
		}

		logs = append(logs, schema.ActivityLog{
			UserEmail: raw.UserEmail,
			MetricID:  raw.MetricID,
			RawValue:  raw.RawValue,
			LoggedAt:  loggedAt,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("读取导入文件失败: %w", err)
	}

	return logs, nil
}

// parseLoggedAt 兼容毫秒时间戳与 RFC3339 两种写法
func parseLoggedAt(raw json.RawMessage) (int64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return time.Now().UnixMilli(), nil
	}

	var ms int64
	if err := json.Unmarshal(raw, &ms); err == nil {
		if ms <= 0 {
			return 0, fmt.Errorf("时间戳必须为正数: %d", ms)
		}
		return ms, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("既不是数字也不是字符串: %s", raw)
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}

// LogStore 导入落库接口，由 repository.ActivityLogRepository 实现
type LogStore interface {
	BatchInsert(ctx context.Context, logs []schema.ActivityLog) error
}

// ImportFile 解析并入库单个 JSONL 文件，返回导入条数。
// 成功后把文件重命名为 <name>.done，避免重复导入。
func ImportFile(ctx context.Context, store LogStore, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("打开导入文件失败: %w", err)
	}

	logs, err := ParseLogs(f)
	_ = f.Close()
	if err != nil {
		return 0, err
	}
	if len(logs) == 0 {
		return 0, nil
	}

	if err := store.BatchInsert(ctx, logs); err != nil {
		return 0, err
	}

	if err := os.Rename(path, path+".done"); err != nil {
		return len(logs), fmt.Errorf("标记导入文件失败: %w", err)
	}
	return len(logs), nil
}

// isImportFile 只处理 .jsonl 扩展名
func isImportFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".jsonl")
}
