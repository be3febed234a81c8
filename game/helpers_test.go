package game

import (
	"math"
	"math/rand"
	"testing"
)

type recordingLedger struct {
	best  map[string]int64
	calls []string
}

func newRecordingLedger() *recordingLedger {
	return &recordingLedger{best: make(map[string]int64)}
}

func (l *recordingLedger) Finalize(name string, score int64) bool {
	l.calls = append(l.calls, name)
	if b, ok := l.best[name]; ok && score <= b {
		return false
	}
	l.best[name] = score
	return true
}

func (l *recordingLedger) Snapshot() map[string]int64 {
	out := make(map[string]int64, len(l.best))
	for k, v := range l.best {
		out[k] = v
	}
	return out
}

// newTestState 没有食物的确定性状态，避免随机拾取干扰断言
func newTestState(t *testing.T) (*State, *recordingLedger) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.FoodCount = 0
	l := newRecordingLedger()
	return NewState(cfg, rand.New(rand.NewSource(1)), l, nil), l
}

func addPlayer(s *State, id string, team Team, x, y, radius float64) *Player {
	return s.AddPlayer(Player{
		ID:     PlayerID(id),
		Name:   id,
		Team:   team,
		X:      x,
		Y:      y,
		Radius: radius,
	})
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
