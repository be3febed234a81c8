package game

// playerSpeed 体积越大越慢；开盾减速
func (s *State) playerSpeed(p *Player) float64 {
	speed := s.cfg.KBase*(s.cfg.ReferenceRadius/p.Radius) + s.cfg.KFloor
	if p.ShieldActive {
		speed *= s.cfg.ShieldPenalty
	}
	return speed
}

// integrate 位置 += 方向 * 速度
func integrate(x, y, dx, dy, speed float64) (float64, float64) {
	return x + dx*speed, y + dy*speed
}

// clampToMap 按半径把圆心限制在地图内
func (s *State) clampToMap(p *Player) {
	p.X = clamp(p.X, p.Radius, s.cfg.MapSize-p.Radius)
	p.Y = clamp(p.Y, p.Radius, s.cfg.MapSize-p.Radius)
}

func (s *State) movePlayer(p *Player) {
	p.X, p.Y = integrate(p.X, p.Y, p.TargetX, p.TargetY, s.playerSpeed(p))
	s.clampToMap(p)
}

// moveNPC 复用同一积分，速度固定为等级速度，不做边界裁剪
func moveNPC(n *NPC) {
	n.X, n.Y = integrate(n.X, n.Y, n.AimX, n.AimY, n.Speed)
}

func (s *State) stepMovement() {
	for _, p := range s.Players {
		s.movePlayer(p)
	}
}
