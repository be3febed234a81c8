package game

import (
	"math"
	"math/rand"
	"testing"
)

func addNPC(s *State, id string, tier int, x, y float64) *NPC {
	t := s.cfg.NPCTiers[tier]
	n := &NPC{
		ID:            id,
		Tier:          t.Name,
		X:             x,
		Y:             y,
		Radius:        t.Radius,
		MaxRadius:     t.Radius,
		Speed:         t.Speed,
		ShootInterval: t.ShootInterval,
		ShootCooldown: t.ShootInterval,
		BlastRadius:   t.BlastRadius,
		BlastDamage:   t.BlastDamage,
		Reward:        t.Reward,
		TimeLeft:      s.cfg.NPCLifespanTicks,
		tier:          t,
	}
	s.NPCs = append(s.NPCs, n)
	return n
}

func TestExplosionFalloffAndKnockback(t *testing.T) {
	s, _ := newTestState(t)
	n := addNPC(s, "npc_1", 1, 600, 600)
	p := addPlayer(s, "p1", TeamRed, 675, 600, 30)

	s.explode(n)

	if !approx(p.Radius, 23) {
		t.Fatalf("radius = %f, want 30 - floor(7.5) = 23", p.Radius)
	}
	if !approx(p.X, 697.5) || !approx(p.Y, 600) {
		t.Fatalf("position = (%f,%f), want pushed to (697.5,600)", p.X, p.Y)
	}
	if !n.Dead || len(s.Explosions) != 1 || s.Explosions[0].Timer != s.cfg.ExplosionTicks {
		t.Fatalf("explode should mark npc dead and record one explosion")
	}
}

func TestExplosionAtSameCenterSkipsKnockback(t *testing.T) {
	s, _ := newTestState(t)
	n := addNPC(s, "npc_1", 1, 600, 600)
	p := addPlayer(s, "p1", TeamRed, 600, 600, 30)

	s.explode(n)

	if math.IsNaN(p.X) || math.IsNaN(p.Y) {
		t.Fatalf("position became NaN")
	}
	if !approx(p.X, 600) || !approx(p.Y, 600) || !approx(p.Radius, 15) {
		t.Fatalf("player = (%f,%f) r=%f, want unmoved with radius 15", p.X, p.Y, p.Radius)
	}
	if len(s.deaths) != 0 {
		t.Fatalf("radius 15 is not below the death threshold")
	}
}

func TestLethalExplosionAttribution(t *testing.T) {
	s, ledger := newTestState(t)
	n := addNPC(s, "npc_1", 1, 600, 600)
	p := addPlayer(s, "p1", TeamBlue, 600, 600, 20)
	p.Score = 8

	s.explode(n)

	if len(s.deaths) != 1 || s.deaths[0].KilledBy != "a Strong NPC explosion!" {
		t.Fatalf("deaths = %+v, want strong explosion attribution", s.deaths)
	}
	if ledger.best["p1"] != 8 {
		t.Fatalf("finalized = %d, want 8", ledger.best["p1"])
	}
}

func TestExplosionOutsideRadiusIsHarmless(t *testing.T) {
	s, _ := newTestState(t)
	n := addNPC(s, "npc_1", 0, 600, 600)
	p := addPlayer(s, "p1", TeamRed, 680, 600, 30)

	s.explode(n)

	if !approx(p.Radius, 30) || !approx(p.X, 680) {
		t.Fatalf("player at exactly blast radius should be untouched: %+v", p)
	}
}

func TestBossShieldDutyCycle(t *testing.T) {
	s, _ := newTestState(t)
	n := addNPC(s, "boss", 2, 600, 600)
	n.ShieldActive = true

	for i := 1; i < 180; i++ {
		s.cycleShield(n)
		if !n.ShieldActive {
			t.Fatalf("shield dropped after %d ticks, want 180", i)
		}
	}
	s.cycleShield(n)
	if n.ShieldActive {
		t.Fatalf("shield should drop after 180 ticks")
	}
	for i := 1; i < 120; i++ {
		s.cycleShield(n)
		if n.ShieldActive {
			t.Fatalf("shield raised after %d ticks, want 120", i)
		}
	}
	s.cycleShield(n)
	if !n.ShieldActive {
		t.Fatalf("shield should come back after 120 ticks")
	}
}

func TestNPCSpawnCadence(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FoodCount = 0
	cfg.NPCWarmupTicks = 10
	cfg.NPCSpawnIntervalTicks = 20
	s := NewState(cfg, rand.New(rand.NewSource(3)), nil, nil)

	counts := map[uint64]int{}
	for s.Tick < 50 {
		s.Step()
		counts[s.Tick] = len(s.NPCs)
	}
	want := map[uint64]int{9: 0, 10: 1, 29: 1, 30: 2, 49: 2, 50: 3}
	for tick, n := range want {
		if counts[tick] != n {
			t.Fatalf("npcs at tick %d = %d, want %d", tick, counts[tick], n)
		}
	}
}

func TestSpawnedNPCStartsOutsideMap(t *testing.T) {
	s, _ := newTestState(t)
	for i := 0; i < 20; i++ {
		n := s.spawnNPC()
		inside := n.X >= 0 && n.X <= s.cfg.MapSize && n.Y >= 0 && n.Y <= s.cfg.MapSize
		if inside {
			t.Fatalf("npc spawned inside the map at (%f,%f)", n.X, n.Y)
		}
		if n.ShieldActive != (n.Tier == TierBoss) {
			t.Fatalf("%s npc shield = %v", n.Tier, n.ShieldActive)
		}
		if n.TimeLeft != s.cfg.NPCLifespanTicks {
			t.Fatalf("lifespan = %d", n.TimeLeft)
		}
	}
}

func TestPickTierDistribution(t *testing.T) {
	s, _ := newTestState(t)
	counts := map[Tier]int{}
	const draws = 10000
	for i := 0; i < draws; i++ {
		counts[s.pickTier().Name]++
	}
	want := map[Tier]float64{TierWeak: 0.6, TierStrong: 0.3, TierBoss: 0.1}
	for tier, p := range want {
		got := float64(counts[tier]) / draws
		if math.Abs(got-p) > 0.03 {
			t.Fatalf("%s frequency = %.3f, want about %.2f", tier, got, p)
		}
	}
}

func TestBossShieldAbsorbsPlayerBullet(t *testing.T) {
	s, _ := newTestState(t)
	n := addNPC(s, "boss", 2, 600, 600)
	n.AimX, n.AimY = 1, 0
	n.ShieldActive = true
	addPlayer(s, "shooter", TeamRed, 100, 100, 30)
	b := &Bullet{ID: "b1", OwnerID: "shooter", Team: TeamRed, X: 700, Y: 600, Radius: 6, Damage: 5}
	s.Bullets = append(s.Bullets, b)

	s.npcTakeHits(n)

	if !b.Dead {
		t.Fatalf("boss shield should absorb the bullet")
	}
	if !approx(n.Radius, 80) {
		t.Fatalf("boss radius = %f, want 80", n.Radius)
	}
	if s.Players["shooter"].Score != 0 {
		t.Fatalf("absorbed bullet must not reward the shooter")
	}
}

func TestNPCBodyHitRewardsShooter(t *testing.T) {
	s, _ := newTestState(t)
	n := addNPC(s, "weak", 0, 600, 600)
	addPlayer(s, "shooter", TeamRed, 100, 100, 30)
	b := &Bullet{ID: "b1", OwnerID: "shooter", Team: TeamRed, X: 610, Y: 600, Radius: 6, Damage: 5}
	s.Bullets = append(s.Bullets, b)

	s.npcTakeHits(n)

	if !approx(n.Radius, 15) || !b.Dead {
		t.Fatalf("npc radius = %f dead bullet = %v, want 15/true", n.Radius, b.Dead)
	}
	shooter := s.Players["shooter"]
	if !approx(shooter.Score, 10) || !approx(shooter.Radius, 31.5) {
		t.Fatalf("shooter score/radius = %f/%f, want 10/31.5", shooter.Score, shooter.Radius)
	}
}

func TestNPCIgnoresNPCBullets(t *testing.T) {
	s, _ := newTestState(t)
	n := addNPC(s, "weak", 0, 600, 600)
	b := &Bullet{ID: "b1", OwnerID: "other", Team: TeamNPC, X: 600, Y: 600, Radius: 6, Damage: 5}
	s.Bullets = append(s.Bullets, b)

	s.npcTakeHits(n)

	if b.Dead || !approx(n.Radius, 20) {
		t.Fatalf("npc bullets must not hurt npcs")
	}
}

func TestNPCBulletAttribution(t *testing.T) {
	s, _ := newTestState(t)
	addNPC(s, "npc_far", 0, 100, 1100)
	addPlayer(s, "target", TeamRed, 600, 600, 17)
	s.Bullets = append(s.Bullets, &Bullet{ID: "b1", OwnerID: "npc_far", Team: TeamNPC, X: 585, Y: 600, Radius: 6, Damage: 5})

	deaths := s.Step()

	if len(deaths) != 1 || deaths[0].KilledBy != "a bullet from a Weak NPC" {
		t.Fatalf("deaths = %+v, want weak npc attribution", deaths)
	}
}

func TestNPCExpiresAfterLifespan(t *testing.T) {
	s, _ := newTestState(t)
	n := addNPC(s, "weak", 0, 600, 600)
	n.TimeLeft = 1

	s.Step()

	if len(s.NPCs) != 0 {
		t.Fatalf("expired npc should be removed")
	}
	if len(s.Explosions) != 1 || s.Explosions[0].Timer != s.cfg.ExplosionTicks-1 {
		t.Fatalf("explosions = %+v, want one with timer counting down", s.Explosions)
	}
}

func TestExplosionTimerExpires(t *testing.T) {
	s, _ := newTestState(t)
	s.Explosions = append(s.Explosions, &Explosion{Timer: 2})
	s.Step()
	if len(s.Explosions) != 1 {
		t.Fatalf("explosion removed too early")
	}
	s.Step()
	if len(s.Explosions) != 0 {
		t.Fatalf("explosion should expire once the timer reaches zero")
	}
}

func TestNPCSteersTowardNearestPlayer(t *testing.T) {
	s, _ := newTestState(t)
	n := addNPC(s, "weak", 0, 600, 600)
	addPlayer(s, "far", TeamRed, 600, 1000, 30)
	addPlayer(s, "near", TeamBlue, 700, 600, 30)

	s.stepNPCs()

	if !approx(n.AimX, 1) || !approx(n.AimY, 0) {
		t.Fatalf("aim = (%f,%f), want toward nearest player", n.AimX, n.AimY)
	}
	if !approx(n.X, 604) {
		t.Fatalf("x = %f, want moved by tier speed 4", n.X)
	}
}
