package game

import (
	"fmt"
	"math"
)

// 被吃掉时转移给对方的半径比例
const eatTransfer = 0.5

// stepCollisions 吃食物、吃敌方玩家；被吃掉的玩家在本轮后续按新实例参与
func (s *State) stepCollisions() {
	for _, id := range s.playerIDs() {
		p, ok := s.Players[id]
		if !ok {
			continue
		}
		s.eatFood(p)
		s.eatPlayers(p)
	}
}

// eatFood 吃到的食物原位替换为新的随机食物，池大小不变
func (s *State) eatFood(p *Player) {
	for i, f := range s.Food {
		if !circlesOverlap(p.X, p.Y, p.Radius, f.X, f.Y, f.Radius) {
			continue
		}
		p.Radius += f.Value
		p.Score += f.Value
		s.Food[i] = s.newFood()
	}
}

// eatPlayers 仅跨队伍；圆心距小于大者半径且大者超过对方 EatRatio 倍
func (s *State) eatPlayers(p *Player) {
	for _, oid := range s.playerIDs() {
		other, ok := s.Players[oid]
		if !ok || oid == p.ID || other.Team == p.Team {
			continue
		}
		dist := math.Hypot(p.X-other.X, p.Y-other.Y)
		if dist >= p.Radius || p.Radius <= other.Radius*s.cfg.EatRatio {
			continue
		}
		p.Radius += other.Radius * eatTransfer
		p.Score += math.Floor(other.Radius) + s.cfg.EatBonus
		s.kill(other, p.Name)
	}
}

// stepBullets 子弹移动，先判护盾再判身体
func (s *State) stepBullets() {
	ids := s.playerIDs()
	for _, b := range s.Bullets {
		if b.Dead {
			continue
		}
		b.X += b.VX
		b.Y += b.VY
		if s.outOfBounds(b.X, b.Y) {
			b.Dead = true
			continue
		}
		for _, id := range ids {
			p, ok := s.Players[id]
			if !ok || b.OwnerID == string(id) {
				continue
			}
			if p.ShieldActive && segmentCircleOverlap(s.playerShield(p), b.X, b.Y, b.Radius) {
				hitShield(b, p.Team)
				if b.Dead {
					break
				}
				continue
			}
			if p.Team != b.Team && circlesOverlap(b.X, b.Y, b.Radius, p.X, p.Y, p.Radius) {
				s.hitPlayer(b, p)
				break
			}
		}
	}
}

// hitShield 友方护盾放大子弹（每颗最多一次），敌方护盾吸收子弹
func hitShield(b *Bullet, shieldTeam Team) {
	if shieldTeam == b.Team {
		amplify(b)
		return
	}
	b.Dead = true
}

func amplify(b *Bullet) {
	if b.Amplified {
		return
	}
	b.Radius *= 2
	b.VX *= 2
	b.VY *= 2
	b.Damage *= 2
	b.Amplified = true
}

func (s *State) hitPlayer(b *Bullet, p *Player) {
	p.Radius -= b.Damage
	if shooter, ok := s.Players[PlayerID(b.OwnerID)]; ok {
		shooter.Score += b.Damage
		shooter.Radius += b.Damage * s.cfg.LifeSteal
	}
	b.Dead = true
	if p.Radius < s.cfg.DeathRadius {
		s.kill(p, s.bulletAttribution(b))
	}
}

// bulletAttribution 击杀者已不存在时给出泛化描述
func (s *State) bulletAttribution(b *Bullet) string {
	if shooter, ok := s.Players[PlayerID(b.OwnerID)]; ok {
		return "a bullet from " + shooter.Name
	}
	for _, n := range s.NPCs {
		if n.ID == b.OwnerID {
			return fmt.Sprintf("a bullet from a %s NPC", n.Tier)
		}
	}
	return "a bullet from an enemy"
}
