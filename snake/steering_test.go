package snake

import "testing"

func TestSteering_OneChangePerTick(t *testing.T) {
	s := NewSteering(right)

	if !s.Request(up) {
		t.Fatal("First change in a tick should be applied")
	}
	if s.Request(left) {
		t.Error("Second change in the same tick should be ignored")
	}
	if got := s.BeginTick(); got != up {
		t.Errorf("Expected up, got %v", got)
	}

	if !s.Request(left) {
		t.Error("A new tick should accept a change again")
	}
	if got := s.BeginTick(); got != left {
		t.Errorf("Expected left, got %v", got)
	}
}

func TestSteering_RejectsReverse(t *testing.T) {
	s := NewSteering(right)

	if s.Request(left) {
		t.Error("Reverse direction should be rejected")
	}
	// A rejected request does not use up the tick.
	if !s.Request(down) {
		t.Error("Valid change after a rejected one should be applied")
	}
	if got := s.BeginTick(); got != down {
		t.Errorf("Expected down, got %v", got)
	}
}

func TestSteering_SameDirectionKeepsWindowOpen(t *testing.T) {
	s := NewSteering(right)

	if s.Request(right) {
		t.Error("Request for the current direction should be a no-op")
	}
	if !s.Request(up) {
		t.Error("Valid change after a no-op request should be applied")
	}
	if got := s.BeginTick(); got != up {
		t.Errorf("Expected up, got %v", got)
	}
}

func TestSteering_QuickTurnCannotReverse(t *testing.T) {
	s := NewSteering(right)

	s.Request(up)
	s.Request(left)
	if got := s.BeginTick(); got != up {
		t.Errorf("Expected up after debounced input, got %v", got)
	}
}

func TestSteering_Reset(t *testing.T) {
	s := NewSteering(right)
	s.Request(up)
	s.Reset(right)

	if s.Direction() != right {
		t.Errorf("Expected right after reset, got %v", s.Direction())
	}
	if !s.Request(down) {
		t.Error("Reset should clear the debounce flag")
	}
}
