package server

import (
	"errors"
	"sort"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"zonearena/game"
)

// RoomInfo 房间列表项
type RoomInfo struct {
	ID      string `json:"id"`
	Players int64  `json:"players"`
}

var errTooManyRooms = errors.New("room limit reached")

// RoomManager 管理多个房间的生命周期；最高分表在房间之间共享。
// 默认房间常驻，其他房间在最后一个连接断开后停止并移除。
type RoomManager struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	cfg         game.Config
	ledger      game.ScoreLedger
	log         *zap.SugaredLogger
	defaultRoom string
	maxRooms    int
}

// NewRoomManager maxRooms <= 0 时只允许默认房间
func NewRoomManager(cfg game.Config, ledger game.ScoreLedger, log *zap.SugaredLogger, defaultRoom string, maxRooms int) *RoomManager {
	if log == nil {
		log = Log
	}
	if defaultRoom == "" {
		defaultRoom = "arena-1"
	}
	if maxRooms < 1 {
		maxRooms = 1
	}
	return &RoomManager{
		rooms:       make(map[string]*Room),
		cfg:         cfg,
		ledger:      ledger,
		log:         log,
		defaultRoom: defaultRoom,
		maxRooms:    maxRooms,
	}
}

// GetOrCreateRoom 获取或创建房间，并确保开始 Tick；已停止的房间会被替换
func (m *RoomManager) GetOrCreateRoom(id string) (*Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rooms[id]; ok && !r.Stopped() {
		return r, nil
	}
	delete(m.rooms, id)
	if id != m.defaultRoom && len(m.rooms) >= m.maxRooms {
		return nil, errTooManyRooms
	}
	r := NewRoom(id, m.cfg, m.ledger, m.log)
	r.closeOnIdle = id != m.defaultRoom
	r.onClosed = m.removeRoom
	m.rooms[id] = r
	r.StartTicker()
	m.log.Infow("room created", "room", id, "rooms", len(m.rooms))
	return r, nil
}

// removeRoom 房间协程退出时回调；只移除同一个实例
func (m *RoomManager) removeRoom(r *Room) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.rooms[r.ID]; ok && cur == r {
		delete(m.rooms, r.ID)
		m.log.Infow("room removed", "room", r.ID, "rooms", len(m.rooms))
	}
}

// Room 只查询，不创建
func (m *RoomManager) Room(id string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[id]
	return r, ok
}

// ListRooms 按 ID 排序
func (m *RoomManager) ListRooms() []RoomInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]RoomInfo, 0, len(m.rooms))
	for id, r := range m.rooms {
		out = append(out, RoomInfo{ID: id, Players: atomic.LoadInt64(&r.Metrics().Players)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Close 停止全部房间；断开的玩家分数在停止时结算。
// 房间退出时会回调 removeRoom，因此不能在持锁时等待。
func (m *RoomManager) Close() {
	m.mu.Lock()
	rooms := make([]*Room, 0, len(m.rooms))
	for id, r := range m.rooms {
		rooms = append(rooms, r)
		delete(m.rooms, id)
	}
	m.mu.Unlock()
	for _, r := range rooms {
		r.Stop()
	}
}
