package domain

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusTentative, StatusQuoted, true},
		{StatusTentative, StatusCancelled, true},
		{StatusTentative, StatusConfirmed, false},
		{StatusQuoted, StatusConfirmed, true},
		{StatusQuoted, StatusCancelled, true},
		{StatusQuoted, StatusTentative, false},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusQuoted, false},
		{StatusCancelled, StatusQuoted, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusTentative, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestCancelledIsTerminal(t *testing.T) {
	if !StatusCancelled.Terminal() {
		t.Fatal("cancelled must be terminal")
	}
	for _, s := range []Status{StatusTentative, StatusQuoted, StatusConfirmed} {
		if s.Terminal() {
			t.Fatalf("%s must not be terminal", s)
		}
	}
}

func TestActiveStatuses(t *testing.T) {
	if StatusCancelled.Active() {
		t.Fatal("cancelled bookings must not occupy calendar capacity")
	}
	for _, s := range []Status{StatusTentative, StatusQuoted, StatusConfirmed} {
		if !s.Active() {
			t.Fatalf("%s bookings must occupy calendar capacity", s)
		}
	}
}
