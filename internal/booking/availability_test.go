package booking

import (
	"reflect"
	"testing"
	"time"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, time.March, 2, hour, minute, 0, 0, time.UTC)
}

func TestAnnotate(t *testing.T) {
	date := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

	t.Run("marks overlapping booked windows under the half-open rule", func(t *testing.T) {
		slots, err := GenerateSlots("A101", date, 30, 9, 18)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		annotated := Annotate(slots, []BookedWindow{
			{BookingID: "b1", Start: at(10, 0), End: at(11, 0), Status: StatusApproved},
		}, nil)

		byStart := indexByStart(annotated)

		// A slot ending exactly at the booking's start does not collide.
		if got := byStart[at(9, 30)].Status; got != SlotAvailable {
			t.Fatalf("slot [09:30,10:00) has status %q, want available", got)
		}
		if got := byStart[at(10, 0)].Status; got != SlotBooked {
			t.Fatalf("slot [10:00,10:30) has status %q, want booked", got)
		}
		if got := byStart[at(10, 30)].Status; got != SlotBooked {
			t.Fatalf("slot [10:30,11:00) has status %q, want booked", got)
		}
		if got := byStart[at(11, 0)].Status; got != SlotAvailable {
			t.Fatalf("slot [11:00,11:30) has status %q, want available", got)
		}
	})

	t.Run("ignores bookings in non-blocking statuses", func(t *testing.T) {
		slots, err := GenerateSlots("A101", date, 30, 9, 18)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		annotated := Annotate(slots, []BookedWindow{
			{BookingID: "b1", Start: at(10, 0), End: at(11, 0), Status: StatusPending},
			{BookingID: "b2", Start: at(12, 0), End: at(13, 0), Status: StatusRejected},
			{BookingID: "b3", Start: at(14, 0), End: at(15, 0), Status: StatusCancelled},
		}, nil)

		for _, slot := range annotated {
			if slot.Status != SlotAvailable {
				t.Fatalf("slot starting %v has status %q, want available", slot.Start, slot.Status)
			}
		}
	})

	t.Run("resolves priority maintenance over class over booked", func(t *testing.T) {
		slots, err := GenerateSlots("A101", date, 30, 9, 12)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		bookings := []BookedWindow{
			{BookingID: "b1", Start: at(9, 0), End: at(12, 0), Status: StatusKeyIssued},
		}
		blocks := []BlockedWindow{
			{Kind: BlockClass, Start: at(10, 0), End: at(12, 0)},
			{Kind: BlockMaintenance, Start: at(11, 0), End: at(12, 0)},
		}

		annotated := Annotate(slots, bookings, blocks)
		byStart := indexByStart(annotated)

		if got := byStart[at(9, 0)].Status; got != SlotBooked {
			t.Fatalf("slot at 09:00 has status %q, want booked", got)
		}
		if got := byStart[at(10, 0)].Status; got != SlotClass {
			t.Fatalf("slot at 10:00 has status %q, want class", got)
		}
		if got := byStart[at(11, 0)].Status; got != SlotMaintenance {
			t.Fatalf("slot at 11:00 has status %q, want maintenance", got)
		}
	})

	t.Run("maintenance wins a tie with class", func(t *testing.T) {
		slots, err := GenerateSlots("A101", date, 30, 10, 11)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		blocks := []BlockedWindow{
			{Kind: BlockMaintenance, Start: at(10, 0), End: at(11, 0)},
			{Kind: BlockClass, Start: at(10, 0), End: at(11, 0)},
		}

		for _, slot := range Annotate(slots, nil, blocks) {
			if slot.Status != SlotMaintenance {
				t.Fatalf("slot starting %v has status %q, want maintenance", slot.Start, slot.Status)
			}
		}
	})

	t.Run("idempotent for identical inputs", func(t *testing.T) {
		slots, err := GenerateSlots("A101", date, 30, 9, 18)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		bookings := []BookedWindow{
			{BookingID: "b1", Start: at(10, 0), End: at(11, 0), Status: StatusApproved},
		}
		blocks := []BlockedWindow{
			{Kind: BlockClass, Start: at(13, 0), End: at(15, 0)},
		}

		first := Annotate(slots, bookings, blocks)
		second := Annotate(slots, bookings, blocks)

		if !reflect.DeepEqual(first, second) {
			t.Fatal("annotating twice produced different results")
		}
	})

	t.Run("does not mutate the input slots", func(t *testing.T) {
		slots, err := GenerateSlots("A101", date, 30, 9, 18)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		original := make([]TimeSlot, len(slots))
		copy(original, slots)

		Annotate(slots, []BookedWindow{
			{BookingID: "b1", Start: at(9, 0), End: at(18, 0), Status: StatusApproved},
		}, nil)

		if !reflect.DeepEqual(slots, original) {
			t.Fatal("input slice was mutated")
		}
	})
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     time.Time
		want                           bool
	}{
		{"identical", at(10, 0), at(11, 0), at(10, 0), at(11, 0), true},
		{"contained", at(10, 0), at(12, 0), at(10, 30), at(11, 0), true},
		{"partial overlap", at(10, 0), at(11, 0), at(10, 30), at(11, 30), true},
		{"adjacent before", at(9, 0), at(10, 0), at(10, 0), at(11, 0), false},
		{"adjacent after", at(11, 0), at(12, 0), at(10, 0), at(11, 0), false},
		{"disjoint", at(8, 0), at(9, 0), at(10, 0), at(11, 0), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
				t.Fatalf("Overlaps = %v, want %v", got, tc.want)
			}
		})
	}
}

func indexByStart(slots []TimeSlot) map[time.Time]TimeSlot {
	out := make(map[time.Time]TimeSlot, len(slots))
	for _, slot := range slots {
		out[slot.Start] = slot
	}
	return out
}
