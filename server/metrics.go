package server

import (
	"sync/atomic"
)

// RoomMetrics 记录房间运行期的关键指标（用于监控与调试）
type RoomMetrics struct {
	TickCount         int64 // 统计的 Tick 次数
	InputsAccepted    int64 // 被接受的输入数
	InputsIgnored     int64 // 无对应玩家或非法数值而被忽略的输入数
	InvalidMessages   int64 // 无法解码或类型未知的消息数
	ChanFullDiscarded int64 // 因通道满被丢弃的输入数
	Deaths            int64 // 玩家死亡次数
	Panics            int64 // 被恢复的 panic 次数
	TotalTickNs       int64 // Tick 累计耗时（纳秒）
	MaxTickNs         int64 // 最慢一次 Tick（纳秒）

	Players int64 // 以下为最近一次 Tick 的世界规模
	NPCs    int64
	Bullets int64
}

func (m *RoomMetrics) IncAccepted()          { atomic.AddInt64(&m.InputsAccepted, 1) }
func (m *RoomMetrics) IncIgnored()           { atomic.AddInt64(&m.InputsIgnored, 1) }
func (m *RoomMetrics) IncInvalid()           { atomic.AddInt64(&m.InvalidMessages, 1) }
func (m *RoomMetrics) IncChanFullDiscarded() { atomic.AddInt64(&m.ChanFullDiscarded, 1) }
func (m *RoomMetrics) IncDeaths()            { atomic.AddInt64(&m.Deaths, 1) }
func (m *RoomMetrics) IncPanics()            { atomic.AddInt64(&m.Panics, 1) }

func (m *RoomMetrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
	for {
		cur := atomic.LoadInt64(&m.MaxTickNs)
		if ns <= cur || atomic.CompareAndSwapInt64(&m.MaxTickNs, cur, ns) {
			return
		}
	}
}

func (m *RoomMetrics) SetWorld(players, npcs, bullets int) {
	atomic.StoreInt64(&m.Players, int64(players))
	atomic.StoreInt64(&m.NPCs, int64(npcs))
	atomic.StoreInt64(&m.Bullets, int64(bullets))
}

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *RoomMetrics) Snapshot() map[string]any {
	tick := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if tick > 0 {
		avgMs = float64(total) / float64(tick) / 1e6
	}
	return map[string]any{
		"tick_count":          tick,
		"inputs_accepted":     atomic.LoadInt64(&m.InputsAccepted),
		"inputs_ignored":      atomic.LoadInt64(&m.InputsIgnored),
		"invalid_messages":    atomic.LoadInt64(&m.InvalidMessages),
		"chan_full_discarded": atomic.LoadInt64(&m.ChanFullDiscarded),
		"deaths":              atomic.LoadInt64(&m.Deaths),
		"panics":              atomic.LoadInt64(&m.Panics),
		"avg_tick_ms":         avgMs,
		"max_tick_ms":         float64(atomic.LoadInt64(&m.MaxTickNs)) / 1e6,
		"players":             atomic.LoadInt64(&m.Players),
		"npcs":                atomic.LoadInt64(&m.NPCs),
		"bullets":             atomic.LoadInt64(&m.Bullets),
	}
}
