package game

// ZoneView 广播用；capturingTeam 为空时编码为 null
type ZoneView struct {
	ID              int     `json:"id"`
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	Size            float64 `json:"size"`
	Owner           Team    `json:"owner"`
	CapturingTeam   *Team   `json:"capturingTeam"`
	CaptureProgress float64 `json:"captureProgress"`
}

// Snapshot 每个 Tick 广播的完整状态（值拷贝，可安全交给编码器）
type Snapshot struct {
	Tick       uint64              `json:"tick"`
	Players    map[PlayerID]Player `json:"players"`
	Food       []Food              `json:"food"`
	Bullets    []Bullet            `json:"bullets"`
	Zones      []ZoneView          `json:"zones"`
	NPCs       []NPC               `json:"npcs"`
	Explosions []Explosion         `json:"explosions"`
	HighScores map[string]int64    `json:"highScores"`
}

// Snapshot 拷贝当前状态
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:       s.Tick,
		Players:    make(map[PlayerID]Player, len(s.Players)),
		Food:       make([]Food, 0, len(s.Food)),
		Bullets:    make([]Bullet, 0, len(s.Bullets)),
		Zones:      make([]ZoneView, 0, len(s.Zones)),
		NPCs:       make([]NPC, 0, len(s.NPCs)),
		Explosions: make([]Explosion, 0, len(s.Explosions)),
		HighScores: s.ledger.Snapshot(),
	}
	for id, p := range s.Players {
		snap.Players[id] = *p
	}
	for _, f := range s.Food {
		snap.Food = append(snap.Food, *f)
	}
	for _, b := range s.Bullets {
		snap.Bullets = append(snap.Bullets, *b)
	}
	for _, z := range s.Zones {
		zv := ZoneView{
			ID:              z.ID,
			X:               z.X,
			Y:               z.Y,
			Size:            z.Size,
			Owner:           z.Owner,
			CaptureProgress: z.CaptureProgress,
		}
		if z.CapturingTeam != TeamNone {
			team := z.CapturingTeam
			zv.CapturingTeam = &team
		}
		snap.Zones = append(snap.Zones, zv)
	}
	for _, n := range s.NPCs {
		snap.NPCs = append(snap.NPCs, *n)
	}
	for _, e := range s.Explosions {
		snap.Explosions = append(snap.Explosions, *e)
	}
	return snap
}
