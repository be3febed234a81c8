package game

import "math"

// Segment 线段
type Segment struct {
	X1, Y1, X2, Y2 float64
}

// circlesOverlap 圆心距严格小于半径和
func circlesOverlap(x1, y1, r1, x2, y2, r2 float64) bool {
	return math.Hypot(x1-x2, y1-y2) < r1+r2
}

// segmentCircleOverlap 端点在圆内，或最近点（投影截断到 [0,1]）在圆内
func segmentCircleOverlap(seg Segment, cx, cy, r float64) bool {
	if math.Hypot(cx-seg.X1, cy-seg.Y1) <= r || math.Hypot(cx-seg.X2, cy-seg.Y2) <= r {
		return true
	}
	dx, dy := seg.X2-seg.X1, seg.Y2-seg.Y1
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return false
	}
	t := ((cx-seg.X1)*dx + (cy-seg.Y1)*dy) / lenSq
	t = clamp(t, 0, 1)
	closeX := seg.X1 + t*dx
	closeY := seg.Y1 + t*dy
	return math.Hypot(cx-closeX, cy-closeY) <= r
}

// shieldSegment 护盾：垂直于瞄准方向、长 2r、中心在 pos + aim*(r+offset)
func shieldSegment(x, y, aimX, aimY, radius, offset float64) Segment {
	perpX, perpY := -aimY, aimX
	cx := x + aimX*(radius+offset)
	cy := y + aimY*(radius+offset)
	return Segment{
		X1: cx + perpX*radius,
		Y1: cy + perpY*radius,
		X2: cx - perpX*radius,
		Y2: cy - perpY*radius,
	}
}

func (s *State) playerShield(p *Player) Segment {
	return shieldSegment(p.X, p.Y, p.AimX, p.AimY, p.Radius, s.cfg.ShieldOffset)
}

func (s *State) npcShield(n *NPC) Segment {
	return shieldSegment(n.X, n.Y, n.AimX, n.AimY, n.Radius, s.cfg.ShieldOffset)
}

func (s *State) outOfBounds(x, y float64) bool {
	return x < 0 || x > s.cfg.MapSize || y < 0 || y > s.cfg.MapSize
}
