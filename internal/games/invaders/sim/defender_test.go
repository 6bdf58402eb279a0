package sim

import (
	"testing"

	"github.com/vovakirdan/tui-invaders/internal/config"
	"github.com/vovakirdan/tui-invaders/internal/core"
)

func testDefender(autopilot bool) *Defender {
	cfg := config.DefaultInvadersConfig()
	cfg.Defender.Autopilot = autopilot
	return NewDefender(cfg, 640, 516, cfg.Defender.Lives, NewRNG(5))
}

func TestNewDefenderPlacement(t *testing.T) {
	d := testDefender(true)
	if d.X != 305 || d.Y != 498 {
		t.Errorf("defender at (%v, %v), expected (305, 498)", d.X, d.Y)
	}
	if d.Lives != 3 || d.Mode != ModePatrol {
		t.Errorf("lives %d mode %v", d.Lives, d.Mode)
	}
	if m := testDefender(false); m.Mode != ModeManual || m.Direction != 0 {
		t.Errorf("manual defender mode %v direction %v", m.Mode, m.Direction)
	}
}

func TestDefenderEvadesThreat(t *testing.T) {
	tests := []struct {
		name    string
		bulletX float64
		wantDir float64
	}{
		{"bullet on the left", 300, 1},
		{"bullet on the right", 330, -1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := testDefender(true)
			threat := &Bullet{Rect: core.NewRect(tc.bulletX, d.Y-40, 4, 10), Owner: OwnerAttacker}
			x0 := d.X
			d.Update(0.1, []*Bullet{threat}, NewRNG(1))
			if d.Mode != ModeEvade {
				t.Fatalf("mode = %v, expected evade", d.Mode)
			}
			if d.Direction != tc.wantDir {
				t.Errorf("direction = %v, expected %v", d.Direction, tc.wantDir)
			}
			d.Update(0.1, nil, NewRNG(1))
			if (d.X-x0)*tc.wantDir <= 0 {
				t.Errorf("defender did not move away: %v -> %v", x0, d.X)
			}
		})
	}
}

func TestDefenderIgnoresDistantAndFriendlyBullets(t *testing.T) {
	d := testDefender(true)
	far := &Bullet{Rect: core.NewRect(320, d.Y-200, 4, 10), Owner: OwnerAttacker}
	beside := &Bullet{Rect: core.NewRect(20, d.Y-40, 4, 10), Owner: OwnerAttacker}
	own := &Bullet{Rect: core.NewRect(320, d.Y-40, 4, 10), Owner: OwnerDefender}
	d.Update(0.01, []*Bullet{far, beside, own}, NewRNG(1))
	if d.Mode == ModeEvade {
		t.Error("defender evaded a bullet that is not a threat")
	}
}

func TestDefenderEvasionEnds(t *testing.T) {
	d := testDefender(true)
	threat := &Bullet{Rect: core.NewRect(320, d.Y-40, 4, 10), Owner: OwnerAttacker}
	d.Update(0.05, []*Bullet{threat}, NewRNG(1))
	for range 6 {
		d.Update(0.1, nil, NewRNG(1))
	}
	if d.Mode != ModePatrol {
		t.Errorf("mode = %v, expected patrol after the evade duration", d.Mode)
	}
}

func TestDefenderAutoFire(t *testing.T) {
	d := testDefender(true)
	rng := NewRNG(1)
	var shots []*Bullet
	for range 20 {
		if b := d.Update(0.1, nil, rng); b != nil {
			shots = append(shots, b)
		}
	}
	if len(shots) != 1 {
		t.Fatalf("shots in 2s = %d, expected 1", len(shots))
	}
	if shots[0].Owner != OwnerDefender || shots[0].VY >= 0 {
		t.Errorf("shot = %+v", shots[0])
	}
	if shots[0].Bottom() > d.Y+0.001 {
		t.Error("shot should spawn above the defender")
	}
}

func TestDefenderManualControl(t *testing.T) {
	d := testDefender(false)
	rng := NewRNG(1)
	for range 30 {
		if b := d.Update(0.1, nil, rng); b != nil {
			t.Fatal("manual defender must not auto-fire")
		}
	}
	if d.X != 305 {
		t.Errorf("idle manual defender drifted to %v", d.X)
	}

	d.SetDirection(-1)
	for range 50 {
		d.Update(0.1, nil, rng)
	}
	if d.X != 0 {
		t.Errorf("defender should be pinned to the left edge, x = %v", d.X)
	}
	if d.Velocity != 0 {
		t.Errorf("velocity at the wall = %v", d.Velocity)
	}

	d.Release()
	if d.Mode != ModePatrol {
		t.Errorf("Release left mode %v", d.Mode)
	}
}

func TestDefenderFireNowCooldown(t *testing.T) {
	d := testDefender(false)
	if d.FireNow() == nil {
		t.Fatal("first shot should fire")
	}
	if d.FireNow() != nil {
		t.Error("second shot should be blocked by the cooldown")
	}
	d.Update(0.31, nil, NewRNG(1))
	if d.FireNow() == nil {
		t.Error("shot should fire once the cooldown passed")
	}
}

func TestDefenderTakeDamage(t *testing.T) {
	d := testDefender(true)
	for i := 1; i <= 2; i++ {
		if d.TakeDamage() {
			t.Fatalf("hit %d reported fatal", i)
		}
	}
	if !d.TakeDamage() || d.Lives != 0 {
		t.Errorf("third hit should be fatal, lives = %d", d.Lives)
	}
	d.TakeDamage()
	if d.Lives != 0 {
		t.Errorf("lives went negative: %d", d.Lives)
	}
}

func TestDefenderAdjust(t *testing.T) {
	d := testDefender(true)
	dm := config.NewDifficultyManager(config.DefaultInvadersConfig().Difficulty)
	d.Adjust(dm, 1, NewRNG(1))
	if d.Speed != 300 {
		t.Errorf("speed = %v, expected 300", d.Speed)
	}
	if d.ShootInterval != 0.5 {
		t.Errorf("shoot interval = %v, expected 0.5", d.ShootInterval)
	}
}
