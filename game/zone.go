package game

// 进度累加存在浮点误差，完成判定留一点余量
const progressEpsilon = 1e-9

// contains 边界包含在内
func (z *Zone) contains(x, y float64) bool {
	return x >= z.X && x <= z.X+z.Size && y >= z.Y && y <= z.Y+z.Size
}

// stepZones 统计各区域内双方人数并推进占领状态
func (s *State) stepZones() {
	for _, z := range s.Zones {
		var red, blue int
		for _, p := range s.Players {
			if !z.contains(p.X, p.Y) {
				continue
			}
			switch p.Team {
			case TeamRed:
				red++
			case TeamBlue:
				blue++
			}
		}
		s.updateZone(z, red, blue)
	}
}

// updateZone 单一队伍在场且不是拥有者时推进，否则衰减
func (s *State) updateZone(z *Zone, red, blue int) {
	var team Team
	var count int
	switch {
	case red > 0 && blue == 0:
		team, count = TeamRed, red
	case blue > 0 && red == 0:
		team, count = TeamBlue, blue
	}
	if team != TeamNone && z.Owner != team {
		z.CapturingTeam = team
		z.CaptureProgress += float64(count) * s.cfg.CaptureRatePerSec / s.cfg.tickRate()
		if z.CaptureProgress >= 100-progressEpsilon {
			s.log.Infow("zone captured", "zone", z.ID, "from", z.Owner, "to", team)
			z.Owner = team
			z.CaptureProgress = 0
			z.CapturingTeam = TeamNone
		}
		return
	}
	z.CaptureProgress -= s.cfg.DecayRatePerSec / s.cfg.tickRate()
	if z.CaptureProgress <= 0 {
		z.CaptureProgress = 0
		z.CapturingTeam = TeamNone
	}
}
