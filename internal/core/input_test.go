package core

import "testing"

func TestInputFrameSetHasClear(t *testing.T) {
	var f InputFrame // zero value must be usable

	if f.Has(ActionFire) {
		t.Fatal("zero frame should have no actions")
	}

	f.Set(ActionFire)
	f.Set(ActionLeft)
	f.AddTap(3, 4)

	if !f.Has(ActionFire) || !f.Has(ActionLeft) {
		t.Error("Set actions should be reported by Has")
	}
	if len(f.Taps) != 1 || f.Taps[0] != (Tap{X: 3, Y: 4}) {
		t.Errorf("Taps = %v", f.Taps)
	}

	clone := f.Clone()
	f.Clear()

	if f.Has(ActionFire) || len(f.Taps) != 0 {
		t.Error("Clear should drop actions and taps")
	}
	if !clone.Has(ActionFire) || len(clone.Taps) != 1 {
		t.Error("Clone should be independent of the original")
	}
}

func TestActionString(t *testing.T) {
	tests := []struct {
		action Action
		want   string
	}{
		{ActionLaunch, "Launch"},
		{ActionAutopilot, "Autopilot"},
		{Action(99), "Unknown"},
	}
	for _, tc := range tests {
		if got := tc.action.String(); got != tc.want {
			t.Errorf("%d.String() = %q, expected %q", tc.action, got, tc.want)
		}
	}
}

func TestColorNames(t *testing.T) {
	if ColorBrightMagenta.String() != "bright-magenta" {
		t.Errorf("String() = %q", ColorBrightMagenta.String())
	}
	if ParseColor("orange") != ColorOrange {
		t.Error("ParseColor(orange) mismatch")
	}
	if ParseColor("nope") != ColorDefault {
		t.Error("unknown names should map to default")
	}
}
