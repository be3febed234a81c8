package game

import (
	"math"

	"github.com/google/uuid"
)

// Command 客户端意图；在网关边界解码一次，在 Apply 中穷举处理
type Command interface {
	Actor() PlayerID
	isCommand()
}

// Join 创建或重生发送者的玩家
type Join struct {
	ID   PlayerID
	Name string
}

// Move 更新移动意图与瞄准方向
type Move struct {
	ID         PlayerID
	X, Y       float64
	AimX, AimY float64
}

// Shoot 发射子弹（消耗半径）
type Shoot struct{ ID PlayerID }

// ShieldOn 开启护盾
type ShieldOn struct{ ID PlayerID }

// ShieldOff 关闭护盾
type ShieldOff struct{ ID PlayerID }

// Leave 断线：结算分数并移除实体
type Leave struct{ ID PlayerID }

func (c Join) Actor() PlayerID      { return c.ID }
func (c Move) Actor() PlayerID      { return c.ID }
func (c Shoot) Actor() PlayerID     { return c.ID }
func (c ShieldOn) Actor() PlayerID  { return c.ID }
func (c ShieldOff) Actor() PlayerID { return c.ID }
func (c Leave) Actor() PlayerID     { return c.ID }

func (Join) isCommand()      {}
func (Move) isCommand()      {}
func (Shoot) isCommand()     {}
func (ShieldOn) isCommand()  {}
func (ShieldOff) isCommand() {}
func (Leave) isCommand()     {}

// Apply 在两次 Tick 之间执行命令；没有对应玩家的命令直接忽略。
// 返回 false 表示命令被忽略。
func (s *State) Apply(cmd Command) bool {
	if cmd == nil {
		return false
	}
	if _, ok := cmd.(Join); !ok && !s.HasPlayer(cmd.Actor()) {
		return false
	}
	switch c := cmd.(type) {
	case Join:
		s.join(c)
	case Move:
		return s.move(c)
	case Shoot:
		return s.shoot(s.Players[c.ID])
	case ShieldOn:
		s.Players[c.ID].ShieldActive = true
	case ShieldOff:
		s.Players[c.ID].ShieldActive = false
	case Leave:
		s.leave(c.ID)
	default:
		return false
	}
	return true
}

func (s *State) join(c Join) {
	if old, ok := s.Players[c.ID]; ok {
		s.finalize(old)
	}
	team := s.balanceTeam(c.ID)
	p := respawn(s.cfg, s.rng, c.ID, c.Name, team)
	s.Players[c.ID] = &p
	s.log.Infow("player joined", "id", c.ID, "name", p.Name, "team", team)
}

func (s *State) leave(id PlayerID) {
	p := s.Players[id]
	s.finalize(p)
	delete(s.Players, id)
	s.log.Infow("player left", "id", id, "name", p.Name, "score", math.Floor(p.Score))
}

// move 拒绝非有限数值；ClampIntent 开启时意图向量长度超过 1 缩放为单位长度
func (s *State) move(c Move) bool {
	for _, v := range []float64{c.X, c.Y, c.AimX, c.AimY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	x, y := c.X, c.Y
	if mag := math.Hypot(x, y); s.cfg.ClampIntent && mag > 1 {
		x, y = x/mag, y/mag
	}
	p := s.Players[c.ID]
	p.TargetX, p.TargetY = x, y
	p.AimX, p.AimY = c.AimX, c.AimY
	return true
}

// CanShoot 半径必须严格大于死亡阈值加子弹成本
func (s *State) CanShoot(p *Player) bool {
	return p.Radius > s.cfg.DeathRadius+s.cfg.BulletCost
}

// shoot 没有瞄准方向（尚未发送过 move）时不发射
func (s *State) shoot(p *Player) bool {
	if !s.CanShoot(p) || (p.AimX == 0 && p.AimY == 0) {
		return false
	}
	p.Radius -= s.cfg.BulletCost
	gap := p.Radius + s.cfg.BulletSpawnGap
	s.Bullets = append(s.Bullets, &Bullet{
		ID:      uuid.NewString()[:8],
		OwnerID: string(p.ID),
		Team:    p.Team,
		X:       p.X + p.AimX*gap,
		Y:       p.Y + p.AimY*gap,
		VX:      p.AimX * s.cfg.BulletSpeed,
		VY:      p.AimY * s.cfg.BulletSpeed,
		Radius:  s.cfg.BulletRadius,
		Damage:  s.cfg.BulletCost,
	})
	return true
}
