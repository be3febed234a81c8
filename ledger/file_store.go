package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore 以 JSON 对象保存全部分数，每次提升整体重写（临时文件 + rename）
type FileStore struct {
	mu     sync.Mutex
	path   string
	scores map[string]int64
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, scores: make(map[string]int64)}
}

// Load 文件不存在视为空表
func (f *FileStore) Load(ctx context.Context) (map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]int64{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read scores: %w", err)
	}
	scores := make(map[string]int64)
	if err := json.Unmarshal(raw, &scores); err != nil {
		return nil, fmt.Errorf("parse scores %s: %w", f.path, err)
	}
	f.scores = scores
	out := make(map[string]int64, len(scores))
	for k, v := range scores {
		out[k] = v
	}
	return out, nil
}

func (f *FileStore) Upsert(ctx context.Context, name string, score int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if best, ok := f.scores[name]; ok && best >= score {
		return nil
	}
	f.scores[name] = score
	return f.writeLocked()
}

func (f *FileStore) writeLocked() error {
	data, err := json.MarshalIndent(f.scores, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal scores: %w", err)
	}
	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create scores directory: %w", err)
		}
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp scores: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace scores: %w", err)
	}
	return nil
}

func (f *FileStore) Close() error { return nil }
