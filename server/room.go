package server

import (
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"zonearena/game"
)

// Room 房间世界：权威状态只在房间协程内读写，消息与 Tick 串行执行
type Room struct {
	ID string

	state *game.State
	conns map[game.PlayerID]Conn

	inbox    chan inboundMsg // 意图消息，满则丢弃
	control  chan any        // 连接/断开，阻塞写入保证送达
	quit     chan struct{}
	done     chan struct{}
	quitOnce sync.Once

	// mu 保护 stopped：停止后 Attach 直接关闭连接
	mu      sync.Mutex
	stopped bool

	// closeOnIdle 为 true 时，最后一个连接断开后房间自行停止
	closeOnIdle bool
	idleExit    bool
	onClosed    func(*Room)

	tickInterval  time.Duration
	metrics       *RoomMetrics
	log           *zap.SugaredLogger
	tickerStarted bool
}

// NewRoom 创建房间，初始化数据结构
func NewRoom(id string, cfg game.Config, ledger game.ScoreLedger, log *zap.SugaredLogger) *Room {
	if log == nil {
		log = Log
	}
	log = log.With("room", id)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Room{
		ID:           id,
		state:        game.NewState(cfg, rng, ledger, log),
		conns:        make(map[game.PlayerID]Conn),
		inbox:        make(chan inboundMsg, 256), // 足够缓冲，避免网络读阻塞影响 Tick
		control:      make(chan any, 64),
		quit:         make(chan struct{}),
		done:         make(chan struct{}),
		tickInterval: time.Second / time.Duration(cfg.TickRate),
		metrics:      &RoomMetrics{},
		log:          log,
	}
}

// Metrics 房间运行指标
func (r *Room) Metrics() *RoomMetrics { return r.metrics }

// Attach 登记连接（阻塞写入）；房间已停止时关闭连接并返回 false
func (r *Room) Attach(id game.PlayerID, c Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		c.Close()
		return false
	}
	select {
	case r.control <- attachConn{ID: id, Conn: c}:
		return true
	case <-r.quit:
		c.Close()
		return false
	}
}

// Stopped 房间协程是否已退出或正在退出
func (r *Room) Stopped() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopped
}

// RequestLeave 请求在房间协程中移除玩家，避免并发改动房间状态
func (r *Room) RequestLeave(id game.PlayerID) {
	select {
	case r.control <- detachConn{ID: id}:
	case <-r.quit:
	}
}

// OnInput 入站消息只排队，等房间协程处理
func (r *Room) OnInput(id game.PlayerID, in Inbound) {
	select {
	case r.inbox <- inboundMsg{ID: id, In: in}:
	default:
		// 丢弃：为了实时性，避免背压影响世界推进
		r.metrics.IncChanFullDiscarded()
	}
}

// handleControl 连接生命周期
func (r *Room) handleControl(msg any) {
	switch m := msg.(type) {
	case attachConn:
		r.conns[m.ID] = m.Conn
		r.log.Infow("connection attached", "id", m.ID, "codec", m.Conn.Codec().Name())
	case detachConn:
		// 断线：立即结算并移除实体，已发射的子弹继续存在
		r.state.Apply(game.Leave{ID: m.ID})
		if c, ok := r.conns[m.ID]; ok {
			c.Close()
			delete(r.conns, m.ID)
		}
		r.log.Infow("connection detached", "id", m.ID)
		if r.closeOnIdle && len(r.conns) == 0 {
			r.idleExit = true
		}
	}
}

// handleInput 两次 Tick 之间执行一条命令
func (r *Room) handleInput(msg inboundMsg) {
	c, ok := r.conns[msg.ID]
	if !ok {
		r.metrics.IncIgnored()
		return
	}
	if msg.In.Ping {
		r.send(c, OutboundMessage{Type: MsgPong})
		return
	}
	if !r.state.Apply(msg.In.Cmd) {
		r.metrics.IncIgnored()
		return
	}
	r.metrics.IncAccepted()
	if _, isJoin := msg.In.Cmd.(game.Join); isJoin {
		r.send(c, OutboundMessage{Type: MsgInit, Data: InitPayload{
			MapSize: r.state.Config().MapSize,
			ID:      string(msg.ID),
		}})
	}
}

// notifyDeaths 向被击杀的连接发送死亡通知
func (r *Room) notifyDeaths(deaths []game.Death) {
	for _, d := range deaths {
		r.metrics.IncDeaths()
		if c, ok := r.conns[d.PlayerID]; ok {
			r.send(c, OutboundMessage{Type: MsgDied, Data: DiedPayload{KilledBy: d.KilledBy}})
		}
	}
}

// Broadcast 将当前世界状态广播给所有连接；每种编码只编码一次
func (r *Room) Broadcast() {
	if len(r.conns) == 0 {
		return
	}
	msg := OutboundMessage{Type: MsgUpdate, Data: r.state.Snapshot()}
	encoded := make(map[string][]byte, 2)
	for _, c := range r.conns {
		codec := c.Codec()
		b, ok := encoded[codec.Name()]
		if !ok {
			var err error
			b, err = codec.Encode(msg)
			if err != nil {
				r.log.Errorw("encode snapshot failed", "codec", codec.Name(), "err", err)
				continue
			}
			encoded[codec.Name()] = b
		}
		c.Enqueue(b)
	}
}

func (r *Room) send(c Conn, msg OutboundMessage) {
	b, err := c.Codec().Encode(msg)
	if err != nil {
		r.log.Errorw("encode message failed", "type", msg.Type, "err", err)
		return
	}
	c.Enqueue(b)
}

// Stop 停止房间协程并关闭全部连接，可重复调用
func (r *Room) Stop() {
	r.closeQuit()
	if r.tickerStarted {
		<-r.done
	}
}

func (r *Room) closeQuit() {
	r.quitOnce.Do(func() { close(r.quit) })
}
