package game

import (
	"math"

	"github.com/google/uuid"
)

var tierColors = map[Tier]string{
	TierWeak:   "#c39bd3",
	TierStrong: "#8e44ad",
	TierBoss:   "#9b59b6",
}

// pickTier 按权重（总和 100）随机选择等级
func (s *State) pickTier() NPCTier {
	roll := s.rng.Float64() * 100
	cumulative := 0
	for _, t := range s.cfg.NPCTiers {
		cumulative += t.Weight
		if roll < float64(cumulative) {
			return t
		}
	}
	return s.cfg.NPCTiers[0]
}

// spawnNPC 在随机一条边外侧生成，朝向地图内部
func (s *State) spawnNPC() *NPC {
	tier := s.pickTier()
	size := s.cfg.MapSize
	var x, y, aimX, aimY float64
	switch s.rng.Intn(4) {
	case 0: // 上
		x, y = s.rng.Float64()*size, -tier.Radius
		aimX, aimY = 0, 1
	case 1: // 右
		x, y = size+tier.Radius, s.rng.Float64()*size
		aimX, aimY = -1, 0
	case 2: // 下
		x, y = s.rng.Float64()*size, size+tier.Radius
		aimX, aimY = 0, -1
	default: // 左
		x, y = -tier.Radius, s.rng.Float64()*size
		aimX, aimY = 1, 0
	}
	n := &NPC{
		ID:            "npc_" + uuid.NewString()[:8],
		Tier:          tier.Name,
		X:             x,
		Y:             y,
		Radius:        tier.Radius,
		MaxRadius:     tier.Radius,
		Speed:         tier.Speed,
		AimX:          aimX,
		AimY:          aimY,
		ShootInterval: tier.ShootInterval,
		ShootCooldown: tier.ShootInterval,
		BlastRadius:   tier.BlastRadius,
		BlastDamage:   tier.BlastDamage,
		Reward:        tier.Reward,
		ShieldActive:  tier.Shielded,
		TimeLeft:      s.cfg.NPCLifespanTicks,
		Color:         tierColors[tier.Name],
		tier:          tier,
	}
	s.NPCs = append(s.NPCs, n)
	s.log.Infow("npc spawned", "id", n.ID, "tier", n.Tier, "x", x, "y", y)
	return n
}

// stepNPCs 刷新计时、AI、射击、受击与死亡
func (s *State) stepNPCs() {
	if s.Tick >= s.nextNPCSpawn {
		s.spawnNPC()
		s.nextNPCSpawn += uint64(s.cfg.NPCSpawnIntervalTicks)
	}
	for _, n := range s.NPCs {
		if n.Dead {
			continue
		}
		n.TimeLeft--
		target := s.nearestPlayer(n.X, n.Y)
		s.steer(n, target)
		moveNPC(n)
		if n.tier.Shielded {
			s.cycleShield(n)
		}
		n.ShootCooldown--
		if n.ShootCooldown <= 0 && target != nil {
			s.npcShoot(n)
		}
		s.npcTakeHits(n)
		if n.Radius < s.cfg.NPCKillRadius || n.TimeLeft <= 0 {
			s.explode(n)
		}
	}
}

// nearestPlayer 欧氏距离最近的玩家；没有玩家时返回 nil
func (s *State) nearestPlayer(x, y float64) *Player {
	var nearest *Player
	best := math.Inf(1)
	for _, id := range s.playerIDs() {
		p := s.Players[id]
		if d := math.Hypot(p.X-x, p.Y-y); d < best {
			best = d
			nearest = p
		}
	}
	return nearest
}

// steer 瞄准目标；无目标时向地图中心漂移
func (s *State) steer(n *NPC, target *Player) {
	if target != nil {
		dx, dy := target.X-n.X, target.Y-n.Y
		if dist := math.Hypot(dx, dy); dist > 0 {
			n.AimX, n.AimY = dx/dist, dy/dist
		}
		return
	}
	dx, dy := s.cfg.MapSize/2-n.X, s.cfg.MapSize/2-n.Y
	if dist := math.Hypot(dx, dy); dist > 10 {
		n.AimX, n.AimY = dx/dist, dy/dist
	}
}

// cycleShield 护盾开 BossShieldOnTicks，关 BossShieldOffTicks，循环
func (s *State) cycleShield(n *NPC) {
	n.ShieldTicks++
	switch {
	case n.ShieldActive && n.ShieldTicks >= s.cfg.BossShieldOnTicks:
		n.ShieldActive = false
		n.ShieldTicks = 0
	case !n.ShieldActive && n.ShieldTicks >= s.cfg.BossShieldOffTicks:
		n.ShieldActive = true
		n.ShieldTicks = 0
	}
}

func (s *State) npcShoot(n *NPC) {
	n.ShootCooldown = n.ShootInterval
	gap := n.Radius + s.cfg.BulletSpawnGap
	s.Bullets = append(s.Bullets, &Bullet{
		ID:      uuid.NewString()[:8],
		OwnerID: n.ID,
		Team:    TeamNPC,
		X:       n.X + n.AimX*gap,
		Y:       n.Y + n.AimY*gap,
		VX:      n.AimX * n.tier.BulletSpeed,
		VY:      n.AimY * n.tier.BulletSpeed,
		Radius:  n.tier.BulletRadius,
		Damage:  n.tier.BulletDamage,
	})
}

// npcTakeHits 护盾优先吸收；命中身体时奖励射手
func (s *State) npcTakeHits(n *NPC) {
	for _, b := range s.Bullets {
		if b.Team == TeamNPC || b.Dead {
			continue
		}
		if n.ShieldActive && segmentCircleOverlap(s.npcShield(n), b.X, b.Y, b.Radius) {
			b.Dead = true
			continue
		}
		if !circlesOverlap(b.X, b.Y, b.Radius, n.X, n.Y, n.Radius) {
			continue
		}
		n.Radius -= b.Damage
		if shooter, ok := s.Players[PlayerID(b.OwnerID)]; ok {
			shooter.Score += b.Damage * s.cfg.NPCScoreFactor
			shooter.Radius += b.Damage * s.cfg.NPCLifeSteal
		}
		b.Dead = true
	}
}
