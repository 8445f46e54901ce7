package notoriety

import "testing"

// stubHandler claims every pair and answers with fixed values.
type stubHandler struct {
	classification Classification
	allow          bool
	handled        bool
	calls          int
}

func (s *stubHandler) ResolveHostility(a, b uint32) (Classification, bool) {
	s.calls++
	return s.classification, s.handled
}

func (s *stubHandler) AllowBeneficial(a, b uint32) (bool, bool) {
	s.calls++
	return s.allow, s.handled
}

func (s *stubHandler) AllowHarmful(a, b uint32) (bool, bool) {
	s.calls++
	return s.allow, s.handled
}

func TestClassificationString(t *testing.T) {
	cases := []struct {
		c    Classification
		want string
	}{
		{Neutral, "Neutral"},
		{Friendly, "Friendly"},
		{Hostile, "Hostile"},
		{Classification(99), "Neutral"},
	}
	for _, c := range cases {
		if got := c.c.String(); got != c.want {
			t.Errorf("%d.String() = %q; want %q", c.c, got, c.want)
		}
	}
}

func TestRegister_Validation(t *testing.T) {
	d := New()

	if err := d.Register("", 0, &stubHandler{}); err == nil {
		t.Error("empty name accepted")
	}
	if err := d.Register("x", 0, nil); err == nil {
		t.Error("nil handler accepted")
	}
	if err := d.Register("x", 0, &stubHandler{}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := d.Register("x", 5, &stubHandler{}); err == nil {
		t.Error("duplicate name accepted")
	}
	if d.Count() != 1 {
		t.Errorf("Count() = %d; want 1", d.Count())
	}
}

func TestDispatch_PriorityOrder(t *testing.T) {
	d := New()

	low := &stubHandler{classification: Friendly, handled: true}
	high := &stubHandler{classification: Hostile, handled: true}
	// Registered out of order; the lower priority must still win.
	d.Register("battles", PriorityBattles, high)
	d.Register("server-rules", 10, low)

	if got := d.ResolveHostility(1, 2, Neutral); got != Friendly {
		t.Errorf("ResolveHostility = %v; want Friendly from the low-priority handler", got)
	}
	if high.calls != 0 {
		t.Error("high-priority handler consulted despite an earlier claim")
	}
}

func TestDispatch_Fallthrough(t *testing.T) {
	d := New()

	pass := &stubHandler{classification: Friendly, handled: false}
	claim := &stubHandler{classification: Hostile, handled: true}
	d.Register("pass", 10, pass)
	d.Register("claim", 20, claim)

	if got := d.ResolveHostility(1, 2, Neutral); got != Hostile {
		t.Errorf("ResolveHostility = %v; want Hostile from the claiming handler", got)
	}
	if pass.calls != 1 {
		t.Errorf("pass handler calls = %d; want 1", pass.calls)
	}
}

func TestDispatch_Defaults(t *testing.T) {
	d := New()
	d.Register("pass", 0, &stubHandler{handled: false})

	if got := d.ResolveHostility(1, 2, Hostile); got != Hostile {
		t.Errorf("ResolveHostility default = %v; want Hostile", got)
	}
	if !d.AllowBeneficial(1, 2, true) {
		t.Error("AllowBeneficial default lost")
	}
	if d.AllowHarmful(1, 2, false) {
		t.Error("AllowHarmful default lost")
	}
}

func TestDispatch_Permissions(t *testing.T) {
	d := New()
	d.Register("deny", 0, &stubHandler{allow: false, handled: true})

	if d.AllowBeneficial(1, 2, true) {
		t.Error("handler denial overridden by default")
	}
	if d.AllowHarmful(1, 2, true) {
		t.Error("handler denial overridden by default")
	}
}

func TestUnregister(t *testing.T) {
	d := New()
	d.Register("battles", PriorityBattles, &stubHandler{classification: Hostile, handled: true})

	if !d.Unregister("battles") {
		t.Fatal("Unregister = false; want true")
	}
	if d.Unregister("battles") {
		t.Error("second Unregister = true; want false")
	}
	if got := d.ResolveHostility(1, 2, Neutral); got != Neutral {
		t.Errorf("ResolveHostility after Unregister = %v; want the default", got)
	}
}
