package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"go.uber.org/multierr"
)

// NPCTier 单个 NPC 等级的数值表
type NPCTier struct {
	Name          Tier    `json:"name"`
	Weight        int     `json:"weight" jsonschema:"minimum=0"`
	Radius        float64 `json:"radius"`
	Speed         float64 `json:"speed"`
	ShootInterval int     `json:"shootInterval" jsonschema:"description=ticks between shots"`
	BlastRadius   float64 `json:"blastRadius"`
	BlastDamage   float64 `json:"blastDamage"`
	Reward        int     `json:"reward"`
	Shielded      bool    `json:"shielded"`
	BulletSpeed   float64 `json:"bulletSpeed"`
	BulletRadius  float64 `json:"bulletRadius"`
	BulletDamage  float64 `json:"bulletDamage"`
}

// Config 启动时固定的玩法参数（运行期不可修改）
type Config struct {
	MapSize       float64 `json:"mapSize" jsonschema:"minimum=100"`
	InitialRadius float64 `json:"initialRadius"`
	DeathRadius   float64 `json:"deathRadius" jsonschema:"description=players below this radius die"`
	TickRate      int     `json:"tickRate" jsonschema:"minimum=1"`

	FoodCount  int     `json:"foodCount"`
	FoodRadius float64 `json:"foodRadius"`
	FoodValue  float64 `json:"foodValue"`

	// 速度 = (KBase * ReferenceRadius / r + KFloor) * 护盾惩罚
	KBase           float64 `json:"kBase"`
	ReferenceRadius float64 `json:"referenceRadius"`
	KFloor          float64 `json:"kFloor"`
	ShieldPenalty   float64 `json:"shieldPenalty"`
	ShieldOffset    float64 `json:"shieldOffset"`

	// ClampIntent 移动意图长度超过 1 时缩放为单位长度。
	// 关闭后按客户端发送的原值积分，服务端不做归一化。
	ClampIntent bool `json:"clampIntent" jsonschema:"description=scale move intents longer than 1 down to unit length"`

	EatRatio float64 `json:"eatRatio"`
	EatBonus float64 `json:"eatBonus"`

	BulletCost     float64 `json:"bulletCost"`
	BulletSpeed    float64 `json:"bulletSpeed"`
	BulletRadius   float64 `json:"bulletRadius"`
	BulletSpawnGap float64 `json:"bulletSpawnGap"`
	LifeSteal      float64 `json:"lifeSteal"`

	ZoneGrid          int     `json:"zoneGrid" jsonschema:"minimum=1"`
	CaptureRatePerSec float64 `json:"captureRatePerSec"`
	DecayRatePerSec   float64 `json:"decayRatePerSec"`

	NPCWarmupTicks        int       `json:"npcWarmupTicks"`
	NPCSpawnIntervalTicks int       `json:"npcSpawnIntervalTicks" jsonschema:"minimum=1"`
	NPCLifespanTicks      int       `json:"npcLifespanTicks"`
	NPCKillRadius         float64   `json:"npcKillRadius"`
	NPCScoreFactor        float64   `json:"npcScoreFactor"`
	NPCLifeSteal          float64   `json:"npcLifeSteal"`
	BossShieldOnTicks     int       `json:"bossShieldOnTicks"`
	BossShieldOffTicks    int       `json:"bossShieldOffTicks"`
	ExplosionTicks        int       `json:"explosionTicks"`
	KnockbackFactor       float64   `json:"knockbackFactor"`
	NPCTiers              []NPCTier `json:"npcTiers"`
}

// DefaultConfig 默认数值
func DefaultConfig() Config {
	return Config{
		MapSize:       1200,
		InitialRadius: 30,
		DeathRadius:   15,
		TickRate:      60,

		FoodCount:  150,
		FoodRadius: 4,
		FoodValue:  2,

		KBase:           5,
		ReferenceRadius: 30,
		KFloor:          1,
		ShieldPenalty:   0.5,
		ShieldOffset:    15,
		ClampIntent:     true,

		EatRatio: 1.15,
		EatBonus: 10,

		BulletCost:     5,
		BulletSpeed:    10,
		BulletRadius:   6,
		BulletSpawnGap: 10,
		LifeSteal:      0.5,

		ZoneGrid:          4,
		CaptureRatePerSec: 5,
		DecayRatePerSec:   5,

		NPCWarmupTicks:        30 * 60,
		NPCSpawnIntervalTicks: 120 * 60,
		NPCLifespanTicks:      30 * 60,
		NPCKillRadius:         10,
		NPCScoreFactor:        2,
		NPCLifeSteal:          0.3,
		BossShieldOnTicks:     180,
		BossShieldOffTicks:    120,
		ExplosionTicks:        30,
		KnockbackFactor:       0.3,
		NPCTiers: []NPCTier{
			{Name: TierWeak, Weight: 60, Radius: 20, Speed: 4, ShootInterval: 90, BlastRadius: 80, BlastDamage: 5, Reward: 15,
				BulletSpeed: 8, BulletRadius: 6, BulletDamage: 4},
			{Name: TierStrong, Weight: 30, Radius: 40, Speed: 3, ShootInterval: 45, BlastRadius: 150, BlastDamage: 15, Reward: 40,
				BulletSpeed: 8, BulletRadius: 6, BulletDamage: 7},
			{Name: TierBoss, Weight: 10, Radius: 80, Speed: 2, ShootInterval: 20, BlastRadius: 250, BlastDamage: 30, Reward: 100,
				Shielded: true, BulletSpeed: 8, BulletRadius: 10, BulletDamage: 10},
		},
	}
}

// LoadConfigFile 读取 JSON 调参文件，覆盖在默认值之上
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read tuning file: %w", err)
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse tuning file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("tuning file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate 检查会导致除零或空表的配置，一次返回全部问题
func (c Config) Validate() error {
	var err error
	if c.MapSize <= 0 {
		err = multierr.Append(err, errors.New("mapSize must be positive"))
	}
	if c.TickRate <= 0 {
		err = multierr.Append(err, errors.New("tickRate must be positive"))
	}
	if c.ZoneGrid <= 0 {
		err = multierr.Append(err, errors.New("zoneGrid must be positive"))
	}
	if c.DeathRadius <= 0 {
		err = multierr.Append(err, errors.New("deathRadius must be positive"))
	}
	if c.InitialRadius <= c.DeathRadius {
		err = multierr.Append(err, errors.New("initialRadius must exceed deathRadius"))
	}
	if c.NPCKillRadius < 0 {
		err = multierr.Append(err, errors.New("npcKillRadius must not be negative"))
	}
	if c.CaptureRatePerSec < 0 || c.DecayRatePerSec < 0 {
		err = multierr.Append(err, errors.New("capture and decay rates must not be negative"))
	}
	if c.NPCSpawnIntervalTicks <= 0 {
		err = multierr.Append(err, errors.New("npcSpawnIntervalTicks must be positive"))
	}
	if len(c.NPCTiers) == 0 {
		return multierr.Append(err, errors.New("npcTiers must not be empty"))
	}
	total := 0
	for _, t := range c.NPCTiers {
		if t.Weight < 0 {
			err = multierr.Append(err, fmt.Errorf("tier %s: negative weight", t.Name))
		}
		total += t.Weight
	}
	if total != 100 {
		err = multierr.Append(err, fmt.Errorf("npc tier weights sum to %d, want 100", total))
	}
	return err
}

// tickRate 以浮点返回，便于速率换算
func (c Config) tickRate() float64 { return float64(c.TickRate) }
