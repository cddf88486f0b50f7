package namedb

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"dish-namer/internal/pkg/common"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher 監看撰寫文件，變更時呼叫 onChange
type Watcher struct {
	path     string
	debounce time.Duration
	onChange func() error
	// ready 開始監看後呼叫（測試用）
	ready func()
}

// NewWatcher 建立檔案監看器
func NewWatcher(path string, debounce time.Duration, onChange func() error) *Watcher {
	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}
	return &Watcher{path: path, debounce: debounce, onChange: onChange}
}

// Run 監看直到 ctx 取消。監看目錄而非檔案本身，編輯器以改名方式存檔時仍能收到事件。
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	target := filepath.Clean(w.path)
	if err := fw.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}
	common.LogInfo("Watching data document", zap.String("path", target))
	if w.ready != nil {
		w.ready()
	}

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			common.LogWarn("Data watcher error", zap.Error(err))
		case <-fire:
			fire = nil
			if err := w.onChange(); err != nil {
				common.LogError("Reload after data change failed",
					zap.String("path", target),
					zap.Error(err),
				)
			}
		}
	}
}
