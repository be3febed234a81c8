package game

import (
	"fmt"
	"math"
)

// explode NPC 死亡：记录爆炸并立即结算范围伤害
func (s *State) explode(n *NPC) {
	e := &Explosion{
		X:      n.X,
		Y:      n.Y,
		Radius: n.BlastRadius,
		Damage: n.BlastDamage,
		Tier:   n.Tier,
		Timer:  s.cfg.ExplosionTicks,
	}
	s.Explosions = append(s.Explosions, e)
	s.applyBlast(e)
	n.Dead = true
	s.log.Infow("npc exploded", "id", n.ID, "tier", n.Tier, "expired", n.TimeLeft <= 0)
}

// applyBlast 伤害随距离线性衰减并击退；圆心重合时不击退
func (s *State) applyBlast(e *Explosion) {
	for _, id := range s.playerIDs() {
		p := s.Players[id]
		d := math.Hypot(p.X-e.X, p.Y-e.Y)
		if d >= e.Radius {
			continue
		}
		p.Radius -= math.Floor(e.Damage * (1 - d/e.Radius))
		if d > 0 {
			kb := (e.Radius - d) * s.cfg.KnockbackFactor
			p.X += (p.X - e.X) / d * kb
			p.Y += (p.Y - e.Y) / d * kb
		}
		s.clampToMap(p)
		if p.Radius < s.cfg.DeathRadius {
			s.kill(p, fmt.Sprintf("a %s NPC explosion!", e.Tier))
		}
	}
}

// stepExplosions 仅用于显示的倒计时
func (s *State) stepExplosions() {
	kept := s.Explosions[:0]
	for _, e := range s.Explosions {
		e.Timer--
		if e.Timer > 0 {
			kept = append(kept, e)
		}
	}
	s.Explosions = kept
}
