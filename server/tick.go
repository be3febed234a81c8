package server

import (
	"time"

	"zonearena/game"
)

// StartTicker 启动房间协程：消息处理与 Tick 在同一协程内串行执行
func (r *Room) StartTicker() {
	if r.tickerStarted {
		return
	}
	r.tickerStarted = true
	go r.run()
}

func (r *Room) run() {
	defer close(r.done)
	// Ticker 在处理过慢时丢弃积压的触发，不做追帧
	ticker := time.NewTicker(r.tickInterval)
	defer ticker.Stop()
	defer r.shutdown()
	for {
		select {
		case <-r.quit:
			return
		case msg := <-r.control:
			r.guard("control", func() { r.handleControl(msg) })
		case msg := <-r.inbox:
			// 先处理已登记的连接事件，保证 join 不会早于连接登记
			r.drainControl()
			r.guard("input", func() { r.handleInput(msg) })
		case <-ticker.C:
			r.tick()
		}
		if r.idleExit {
			r.log.Infow("room idle, stopping")
			return
		}
	}
}

// shutdown 标记停止后，处理仍在队列中的连接事件，再结算并关闭全部连接
func (r *Room) shutdown() {
	r.closeQuit()
	r.mu.Lock()
	r.stopped = true
	r.mu.Unlock()
	r.drainControl()
	r.closeAll()
	if r.onClosed != nil {
		r.onClosed(r)
	}
}

// tick 核心循环：推进世界 → 死亡通知 → 广播快照
func (r *Room) tick() {
	start := time.Now()
	var deaths []game.Death
	r.guard("step", func() { deaths = r.state.Step() })
	r.notifyDeaths(deaths)
	r.guard("broadcast", r.Broadcast)
	r.metrics.SetWorld(len(r.state.Players), len(r.state.NPCs), len(r.state.Bullets))
	r.metrics.AddTick(time.Since(start).Nanoseconds())
}

func (r *Room) drainControl() {
	for {
		select {
		case msg := <-r.control:
			r.guard("control", func() { r.handleControl(msg) })
		default:
			return
		}
	}
}

// guard 单条坏消息或坏实体不能让房间协程退出
func (r *Room) guard(stage string, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			r.metrics.IncPanics()
			r.log.Errorw("recovered panic", "stage", stage, "panic", rec, "tick", r.state.Tick)
		}
	}()
	fn()
}

func (r *Room) closeAll() {
	for id, c := range r.conns {
		r.state.Apply(game.Leave{ID: id})
		c.Close()
		delete(r.conns, id)
	}
}
