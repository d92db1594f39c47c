package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/zhengye7/fitarena/internal/eventbus"
)

// Watcher 监控导入目录，发现 .jsonl 活动记录文件即批量入库。
// 写入防抖：文件最后一次写入后静默 debounce 时长才导入，避免读到半个文件。
type Watcher struct {
	watcher  *fsnotify.Watcher
	dir      string
	store    LogStore
	hub      *eventbus.Hub
	debounce time.Duration

	mu       sync.Mutex
	pending  map[string]time.Time // file -> lastWrite
	stopOnce sync.Once
	stopChan chan struct{}
}

// Config 监控配置
type Config struct {
	Dir         string
	DebounceSec int
}

// NewWatcher 创建目录监控器
func NewWatcher(cfg Config, store LogStore, hub *eventbus.Hub) (*Watcher, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("导入目录不能为空")
	}
	if cfg.DebounceSec <= 0 {
		cfg.DebounceSec = 2
	}
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("创建导入目录失败: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("创建文件监控器失败: %w", err)
	}
	if err := fw.Add(cfg.Dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("添加监控目录失败: %w", err)
	}

	return &Watcher{
		watcher:  fw,
		dir:      cfg.Dir,
		store:    store,
		hub:      hub,
		debounce: time.Duration(cfg.DebounceSec) * time.Second,
		pending:  map[string]time.Time{},
		stopChan: make(chan struct{}),
	}, nil
}

// Start 启动监控循环，ctx 结束时退出。
// 启动时先把目录里已有的待导入文件补一遍。
func (w *Watcher) Start(ctx context.Context) {
	w.importExisting(ctx)

	go w.loop(ctx)
	slog.Info("导入目录监控已启动", "dir", w.dir, "debounce", w.debounce)
}

// Stop 停止监控
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
		_ = w.watcher.Close()
	})
}

func (w *Watcher) loop(ctx context.Context) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !isImportFile(event.Name) {
				continue
			}
			w.mu.Lock()
			w.pending[event.Name] = time.Now()
			w.mu.Unlock()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("文件监控错误", "error", err)
		case <-ticker.C:
			w.flushMatured(ctx)
		}
	}
}

// flushMatured 导入已过防抖窗口的文件
func (w *Watcher) flushMatured(ctx context.Context) {
	now := time.Now()

	w.mu.Lock()
	var matured []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.debounce {
			matured = append(matured, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range matured {
		w.importOne(ctx, path)
	}
}

func (w *Watcher) importExisting(ctx context.Context) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		slog.Warn("扫描导入目录失败", "dir", w.dir, "error", err)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !isImportFile(entry.Name()) {
			continue
		}
		w.importOne(ctx, filepath.Join(w.dir, entry.Name()))
	}
}

func (w *Watcher) importOne(ctx context.Context, path string) {
	count, err := ImportFile(ctx, w.store, path)
	if err != nil {
		slog.Error("导入活动记录失败", "file", path, "error", err)
		return
	}
	if count == 0 {
		return
	}

	slog.Info("导入活动记录", "file", path, "count", count)
	w.hub.Publish(eventbus.Event{
		Type: eventbus.EventLogsImported,
		Data: map[string]any{"file": filepath.Base(path), "count": count},
	})
}
