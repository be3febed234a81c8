package game

// PlayerID 玩家唯一标识（即连接标识，重生后不变）
type PlayerID string

// Team 阵营
type Team string

const (
	TeamNone    Team = ""
	TeamRed     Team = "red"
	TeamBlue    Team = "blue"
	TeamNeutral Team = "neutral"
	TeamNPC     Team = "npc" // 对双方都敌对
)

// Tier NPC 等级
type Tier string

const (
	TierWeak   Tier = "Weak"
	TierStrong Tier = "Strong"
	TierBoss   Tier = "Boss"
)

// Player 玩家实体；半径同时是体积与血量
type Player struct {
	ID     PlayerID `json:"id"`
	Name   string   `json:"name"`
	Team   Team     `json:"team"`
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	Radius float64  `json:"radius"`
	Color  string   `json:"color"`
	Score  float64  `json:"score"`

	// 客户端意图，下一次 Tick 生效
	TargetX      float64 `json:"targetX"`
	TargetY      float64 `json:"targetY"`
	AimX         float64 `json:"aimX"`
	AimY         float64 `json:"aimY"`
	ShieldActive bool    `json:"shieldActive"`
}

// Bullet 子弹；Dead 在本 Tick 末尾统一清理
type Bullet struct {
	ID        string  `json:"id"`
	OwnerID   string  `json:"ownerId"`
	Team      Team    `json:"team"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	VX        float64 `json:"vx"`
	VY        float64 `json:"vy"`
	Radius    float64 `json:"radius"`
	Damage    float64 `json:"damage"`
	Amplified bool    `json:"amplified"`
	Dead      bool    `json:"-"`
}

// Food 食物，池大小恒定
type Food struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Value  float64 `json:"value"`
	Color  string  `json:"color"`
}

// Zone 固定网格上的占领区
type Zone struct {
	ID              int     `json:"id"`
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	Size            float64 `json:"size"`
	Owner           Team    `json:"owner"`
	CapturingTeam   Team    `json:"-"`
	CaptureProgress float64 `json:"captureProgress"`
}

// NPC 敌对单位
type NPC struct {
	ID            string  `json:"id"`
	Tier          Tier    `json:"tier"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Radius        float64 `json:"radius"`
	MaxRadius     float64 `json:"maxRadius"`
	Speed         float64 `json:"speed"`
	AimX          float64 `json:"aimX"`
	AimY          float64 `json:"aimY"`
	ShootInterval int     `json:"-"`
	ShootCooldown int     `json:"-"`
	BlastRadius   float64 `json:"blastRadius"`
	BlastDamage   float64 `json:"blastDamage"`
	Reward        int     `json:"reward"`
	ShieldActive  bool    `json:"shieldActive"`
	ShieldTicks   int     `json:"-"`
	TimeLeft      int     `json:"timeLeft"`
	Color         string  `json:"color"`
	Dead          bool    `json:"-"`

	tier NPCTier
}

// Explosion NPC 死亡时产生；伤害只在产生时结算一次
type Explosion struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Damage float64 `json:"damage"`
	Tier   Tier    `json:"tier"`
	Timer  int     `json:"timer"`
}

// Death 本 Tick 内被结算并重生的玩家，由网关通知对应连接
type Death struct {
	PlayerID PlayerID
	KilledBy string
}
