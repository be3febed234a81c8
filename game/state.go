package game

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ScoreLedger 最高分记录（由 ledger 包实现）
type ScoreLedger interface {
	Finalize(name string, score int64) bool
	Snapshot() map[string]int64
}

type nopLedger struct{}

func (nopLedger) Finalize(string, int64) bool { return false }
func (nopLedger) Snapshot() map[string]int64  { return map[string]int64{} }

// State 房间内全部可变状态；只允许房间的 Tick 协程访问
type State struct {
	cfg    Config
	rng    *rand.Rand
	log    *zap.SugaredLogger
	ledger ScoreLedger

	Tick       uint64
	Players    map[PlayerID]*Player
	Bullets    []*Bullet
	Food       []*Food
	Zones      []*Zone
	NPCs       []*NPC
	Explosions []*Explosion

	nextNPCSpawn uint64
	deaths       []Death
}

// NewState 初始化区域网格与食物池
func NewState(cfg Config, rng *rand.Rand, ledger ScoreLedger, log *zap.SugaredLogger) *State {
	if ledger == nil {
		ledger = nopLedger{}
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s := &State{
		cfg:          cfg,
		rng:          rng,
		log:          log,
		ledger:       ledger,
		Players:      make(map[PlayerID]*Player),
		nextNPCSpawn: uint64(cfg.NPCWarmupTicks),
	}
	s.Zones = newZoneGrid(cfg)
	s.Food = make([]*Food, 0, cfg.FoodCount)
	for i := 0; i < cfg.FoodCount; i++ {
		s.Food = append(s.Food, s.newFood())
	}
	return s
}

// Config 返回只读配置
func (s *State) Config() Config { return s.cfg }

func newZoneGrid(cfg Config) []*Zone {
	n := cfg.ZoneGrid
	size := cfg.MapSize / float64(n)
	zones := make([]*Zone, 0, n*n)
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			owner := TeamNeutral
			if col == 0 {
				owner = TeamRed
			}
			if col == n-1 && n > 1 {
				owner = TeamBlue
			}
			zones = append(zones, &Zone{
				ID:    row*n + col,
				X:     float64(col) * size,
				Y:     float64(row) * size,
				Size:  size,
				Owner: owner,
			})
		}
	}
	return zones
}

func (s *State) newFood() *Food {
	return &Food{
		ID:     uuid.NewString()[:8],
		X:      s.rng.Float64() * s.cfg.MapSize,
		Y:      s.rng.Float64() * s.cfg.MapSize,
		Radius: s.cfg.FoodRadius,
		Value:  s.cfg.FoodValue,
		Color:  fmt.Sprintf("hsl(%d, 70%%, 50%%)", s.rng.Intn(360)),
	}
}

// respawn 生成同一身份的新玩家实例（不修改旧实例）
func respawn(cfg Config, rng *rand.Rand, id PlayerID, name string, team Team) Player {
	if name == "" {
		name = "Guest"
	}
	var x float64
	var hue int
	switch team {
	case TeamBlue:
		x = cfg.MapSize - (rng.Float64()*200 + 50)
		hue = rng.Intn(40) + 200
	default:
		x = rng.Float64()*200 + 50
		hue = rng.Intn(40)
	}
	y := rng.Float64()*(cfg.MapSize-100) + 50
	return Player{
		ID:     id,
		Name:   name,
		Team:   team,
		X:      x,
		Y:      y,
		Radius: cfg.InitialRadius,
		Color:  fmt.Sprintf("hsl(%d, 100%%, 50%%)", hue),
	}
}

// balanceTeam 人少的一方优先；人数相同则避开当前最高分所在的队伍
func (s *State) balanceTeam(exclude PlayerID) Team {
	var red, blue int
	var top *Player
	for _, id := range s.playerIDs() {
		if id == exclude {
			continue
		}
		p := s.Players[id]
		switch p.Team {
		case TeamRed:
			red++
		case TeamBlue:
			blue++
		}
		if top == nil || p.Score > top.Score {
			top = p
		}
	}
	switch {
	case red+blue == 0:
		return TeamRed
	case red < blue:
		return TeamRed
	case blue < red:
		return TeamBlue
	case top != nil && top.Team == TeamRed:
		return TeamBlue
	default:
		return TeamRed
	}
}

// playerIDs 按 ID 排序，保证同一随机种子下 Tick 结果确定
func (s *State) playerIDs() []PlayerID {
	ids := make([]PlayerID, 0, len(s.Players))
	for id := range s.Players {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// finalize 将当前分数写入最高分表
func (s *State) finalize(p *Player) {
	if s.ledger.Finalize(p.Name, int64(math.Floor(p.Score))) {
		s.log.Debugw("high score improved", "name", p.Name, "score", int64(math.Floor(p.Score)))
	}
}

// kill 结算分数、记录死亡通知并原地重生（同身份同队伍）
func (s *State) kill(p *Player, killedBy string) {
	s.finalize(p)
	s.deaths = append(s.deaths, Death{PlayerID: p.ID, KilledBy: killedBy})
	np := respawn(s.cfg, s.rng, p.ID, p.Name, p.Team)
	s.Players[p.ID] = &np
	s.log.Infow("player died", "id", p.ID, "name", p.Name, "killedBy", killedBy)
}

// HasPlayer 判断身份是否已有玩家实体
func (s *State) HasPlayer(id PlayerID) bool {
	_, ok := s.Players[id]
	return ok
}

// AddPlayer 直接放入玩家（测试与重放工具使用）
func (s *State) AddPlayer(p Player) *Player {
	pp := &p
	s.Players[p.ID] = pp
	return pp
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
