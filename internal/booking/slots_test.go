package booking

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestGenerateSlots(t *testing.T) {
	date := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

	t.Run("covers the operating window with no gaps or overlaps", func(t *testing.T) {
		slots, err := GenerateSlots("A101", date, 30, 9, 18)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(slots) != 18 {
			t.Fatalf("expected 18 slots, got %d", len(slots))
		}

		open := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
		close := time.Date(2026, time.March, 2, 18, 0, 0, 0, time.UTC)

		if !slots[0].Start.Equal(open) {
			t.Fatalf("first slot starts at %v, want %v", slots[0].Start, open)
		}
		if !slots[len(slots)-1].End.Equal(close) {
			t.Fatalf("last slot ends at %v, want %v", slots[len(slots)-1].End, close)
		}

		for i, slot := range slots {
			if slot.End.Sub(slot.Start) != 30*time.Minute {
				t.Fatalf("slot %d has length %v, want 30m", i, slot.End.Sub(slot.Start))
			}
			if slot.Status != SlotAvailable {
				t.Fatalf("slot %d generated with status %q", i, slot.Status)
			}
			if i > 0 && !slots[i-1].End.Equal(slot.Start) {
				t.Fatalf("gap between slot %d and %d: %v != %v", i-1, i, slots[i-1].End, slot.Start)
			}
		}
	})

	t.Run("count equals floor of window over granularity", func(t *testing.T) {
		cases := []struct {
			granularity, open, close, want int
		}{
			{30, 9, 18, 18},
			{60, 9, 18, 9},
			{50, 9, 18, 10},
			{45, 8, 22, 18},
			{90, 9, 10, 0},
		}
		for _, tc := range cases {
			slots, err := GenerateSlots("A101", date, tc.granularity, tc.open, tc.close)
			if err != nil {
				t.Fatalf("granularity %d: unexpected error: %v", tc.granularity, err)
			}
			if len(slots) != tc.want {
				t.Fatalf("granularity %d over [%d,%d): got %d slots, want %d",
					tc.granularity, tc.open, tc.close, len(slots), tc.want)
			}
		}
	})

	t.Run("drops a trailing slot past the closing hour", func(t *testing.T) {
		slots, err := GenerateSlots("A101", date, 50, 9, 18)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		last := slots[len(slots)-1]
		close := time.Date(2026, time.March, 2, 18, 0, 0, 0, time.UTC)
		if last.End.After(close) {
			t.Fatalf("last slot ends at %v, past closing %v", last.End, close)
		}
	})

	t.Run("rejects invalid ranges", func(t *testing.T) {
		cases := []struct {
			name                     string
			granularity, open, close int
		}{
			{"open equals close", 30, 9, 9},
			{"open after close", 30, 18, 9},
			{"zero granularity", 0, 9, 18},
			{"negative granularity", -15, 9, 18},
			{"negative open hour", 30, -1, 18},
			{"close past midnight", 30, 9, 25},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				if _, err := GenerateSlots("A101", date, tc.granularity, tc.open, tc.close); !errors.Is(err, ErrInvalidRange) {
					t.Fatalf("expected ErrInvalidRange, got %v", err)
				}
			})
		}
	})

	t.Run("deterministic for identical inputs", func(t *testing.T) {
		first, err := GenerateSlots("A101", date, 30, 9, 18)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := GenerateSlots("A101", date, 30, 9, 18)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Fatal("repeated generation produced different slots")
		}
	})

	t.Run("keeps the date's location", func(t *testing.T) {
		loc := time.FixedZone("CST", 8*60*60)
		local := time.Date(2026, time.March, 2, 0, 0, 0, 0, loc)
		slots, err := GenerateSlots("A101", local, 30, 9, 18)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := slots[0].Start.Location(); got != loc {
			t.Fatalf("slot generated in %v, want %v", got, loc)
		}
		if slots[0].Start.Hour() != 9 {
			t.Fatalf("first slot starts at hour %d, want 9", slots[0].Start.Hour())
		}
	})
}
