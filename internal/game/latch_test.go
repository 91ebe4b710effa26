package game

import "testing"

func TestJumpLatch_HoldFiresOnce(t *testing.T) {
	l := NewJumpLatch()
	fires := 0
	for i := 0; i < 120; i++ {
		if l.Update(true, true) {
			fires++
		}
	}
	if fires != 1 {
		t.Fatalf("expected exactly one jump while holding, got %d", fires)
	}
	if l.State() != LatchHeld {
		t.Fatalf("expected held, got %s", l.State())
	}
	l.Update(true, false)
	if l.State() != LatchArmed {
		t.Fatalf("expected armed after grounded release, got %s", l.State())
	}
}

func TestJumpLatch_PressReleaseCyclesFireEachTime(t *testing.T) {
	l := NewJumpLatch()
	fires := 0
	for cycle := 0; cycle < 3; cycle++ {
		for i := 0; i < 5; i++ {
			if l.Update(true, true) {
				fires++
			}
		}
		for i := 0; i < 5; i++ {
			l.Update(true, false)
		}
	}
	if fires != 3 {
		t.Fatalf("expected 3 jumps for 3 cycles, got %d", fires)
	}
}

func TestJumpLatch_AirbornePressDoesNotFire(t *testing.T) {
	l := NewJumpLatch()
	fires := 0
	for i := 0; i < 10; i++ {
		if l.Update(false, true) {
			fires++
		}
	}
	// Still holding on landing: the press was consumed in the air.
	for i := 0; i < 10; i++ {
		if l.Update(true, true) {
			fires++
		}
	}
	if fires != 0 {
		t.Fatalf("expected no jump from an airborne press, got %d", fires)
	}
	l.Update(true, false)
	if !l.Update(true, true) {
		t.Fatal("expected a fresh grounded press to fire")
	}
}

func TestJumpLatch_NoMidAirRetrigger(t *testing.T) {
	l := NewJumpLatch()
	if !l.Update(true, true) {
		t.Fatal("expected first grounded press to fire")
	}
	l.Update(false, false)
	if l.State() != LatchCooling {
		t.Fatalf("expected cooling after airborne release, got %s", l.State())
	}
	if l.Update(false, true) {
		t.Fatal("second press in the air must not fire")
	}
}

func TestJumpLatch_ReleasedInAirRearmsOnLanding(t *testing.T) {
	l := NewJumpLatch()
	l.Update(true, true)
	l.Update(false, true)
	l.Update(false, false)
	l.Update(true, false)
	if l.State() != LatchArmed {
		t.Fatalf("expected armed after landing, got %s", l.State())
	}
	if !l.Update(true, true) {
		t.Fatal("expected jump after landing and pressing")
	}
}

func TestJumpLatch_StaleGroundContactSkipsFire(t *testing.T) {
	l := NewJumpLatch()
	l.Update(true, true)
	l.Update(true, false)
	// Ground contact reported late: the press lands on an airborne tick.
	if l.Update(false, true) {
		t.Fatal("press without ground contact must not fire")
	}
}

func TestJumpLatch_ZeroValueNeedsRelease(t *testing.T) {
	var l JumpLatch
	if l.Update(true, true) {
		t.Fatal("zero-value latch should not fire before a release")
	}
	l.Update(true, false)
	if !l.Update(true, true) {
		t.Fatal("expected fire after release")
	}
}

func TestJumpResolver_SourcesAreIndependent(t *testing.T) {
	r := NewJumpResolver(2)
	kb := Intent{Jump: true}
	touch := Intent{}
	if !r.Resolve(true, []Intent{kb, touch}) {
		t.Fatal("keyboard press should fire")
	}
	// Keyboard still held through landing; touch pressed separately.
	r.Resolve(false, []Intent{kb, touch})
	r.Resolve(true, []Intent{kb, touch})
	touch.Jump = true
	if !r.Resolve(true, []Intent{kb, touch}) {
		t.Fatal("touch press should fire while keyboard is held")
	}
	if r.Resolve(true, []Intent{kb, touch}) {
		t.Fatal("holding both must not fire again")
	}
	if r.Latch(0).State() != LatchHeld || r.Latch(1).State() != LatchHeld {
		t.Fatal("expected both latches held")
	}
}

func TestJumpResolver_SimultaneousPressFiresOnce(t *testing.T) {
	r := NewJumpResolver(2)
	both := []Intent{{Jump: true}, {Jump: true}}
	if !r.Resolve(true, both) {
		t.Fatal("expected fire")
	}
	if r.Resolve(true, both) {
		t.Fatal("expected no repeat while both held")
	}
}

func TestJumpResolver_MissingIntentIsReleased(t *testing.T) {
	r := NewJumpResolver(2)
	if !r.Resolve(true, []Intent{{Jump: true}}) {
		t.Fatal("expected fire from the first source")
	}
	if r.Latch(1).State() != LatchArmed {
		t.Fatalf("missing source should read as released, got %s", r.Latch(1).State())
	}
}

func TestMoveDirection(t *testing.T) {
	cases := []struct {
		in   []Intent
		want float64
	}{
		{nil, 0},
		{[]Intent{{Left: true}}, -1},
		{[]Intent{{Right: true}}, 1},
		{[]Intent{{Left: true}, {Right: true}}, -1},
		{[]Intent{{}, {Right: true}}, 1},
	}
	for i, c := range cases {
		if got := moveDirection(c.in); got != c.want {
			t.Fatalf("case %d: expected %.0f, got %.0f", i, c.want, got)
		}
	}
}
