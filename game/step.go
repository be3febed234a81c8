package game

// Step 推进一个 Tick，返回本 Tick 内死亡并重生的玩家。
// 顺序：移动 → 食物/玩家碰撞 → 区域占领 → 子弹 → NPC → 爆炸计时 → 清理。
func (s *State) Step() []Death {
	s.Tick++
	s.stepMovement()
	s.stepCollisions()
	s.stepZones()
	s.stepBullets()
	s.stepNPCs()
	s.stepExplosions()
	s.cleanup()

	deaths := s.deaths
	s.deaths = nil
	return deaths
}

// cleanup 移除标记为死亡的子弹与 NPC
func (s *State) cleanup() {
	bullets := s.Bullets[:0]
	for _, b := range s.Bullets {
		if !b.Dead {
			bullets = append(bullets, b)
		}
	}
	for i := len(bullets); i < len(s.Bullets); i++ {
		s.Bullets[i] = nil
	}
	s.Bullets = bullets

	npcs := s.NPCs[:0]
	for _, n := range s.NPCs {
		if !n.Dead {
			npcs = append(npcs, n)
		}
	}
	for i := len(npcs); i < len(s.NPCs); i++ {
		s.NPCs[i] = nil
	}
	s.NPCs = npcs
}
