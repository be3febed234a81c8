package ledger

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Store 持久化的 名字 → 最高分 映射
type Store interface {
	Load(ctx context.Context) (map[string]int64, error)
	Upsert(ctx context.Context, name string, score int64) error
	Close() error
}

// Ledger 进程级最高分表；多个房间共享，内部加锁
type Ledger struct {
	mu     sync.RWMutex
	scores map[string]int64
	store  Store
	log    *zap.SugaredLogger

	saveTimeout time.Duration
}

// New 创建空表；store 可为 nil（仅内存）
func New(store Store, log *zap.SugaredLogger) *Ledger {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Ledger{
		scores:      make(map[string]int64),
		store:       store,
		log:         log,
		saveTimeout: 2 * time.Second,
	}
}

// Load 启动时读取一次；存储缺失或损坏时记录日志并使用空表
func (l *Ledger) Load(ctx context.Context) {
	if l.store == nil {
		return
	}
	scores, err := l.store.Load(ctx)
	if err != nil {
		l.log.Warnw("score storage unreadable, starting with empty table", "err", err)
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for name, score := range scores {
		l.scores[name] = score
	}
	l.log.Infow("high scores loaded", "entries", len(scores))
}

// Finalize 只有超过已记录值才更新并同步持久化；返回是否更新
func (l *Ledger) Finalize(name string, score int64) bool {
	l.mu.Lock()
	if best, ok := l.scores[name]; ok && score <= best {
		l.mu.Unlock()
		return false
	}
	l.scores[name] = score
	l.mu.Unlock()

	if l.store == nil {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), l.saveTimeout)
	defer cancel()
	if err := l.store.Upsert(ctx, name, score); err != nil {
		// 内存中的值保留，下次提升时再写
		l.log.Errorw("persist high score failed", "name", name, "score", score, "err", err)
	}
	return true
}

// Best 返回某名字的最高分
func (l *Ledger) Best(name string) (int64, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	v, ok := l.scores[name]
	return v, ok
}

// Snapshot 返回拷贝，供广播使用
func (l *Ledger) Snapshot() map[string]int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]int64, len(l.scores))
	for k, v := range l.scores {
		out[k] = v
	}
	return out
}

// Close 关闭底层存储
func (l *Ledger) Close() error {
	if l.store == nil {
		return nil
	}
	return l.store.Close()
}
