package booking

// Annotate resolves the status of each candidate slot against existing
// bookings and externally blocked windows. Resolution priority per slot is
// maintenance > class > booked > available; the more restrictive source wins
// when several cover the same slot. Only bookings in a blocking status mark a
// slot booked.
//
// The input slice is never mutated and the function is idempotent: annotating
// the same inputs twice yields identical results.
func Annotate(slots []TimeSlot, bookings []BookedWindow, blocks []BlockedWindow) []TimeSlot {
	if len(slots) == 0 {
		return nil
	}

	out := make([]TimeSlot, len(slots))
	copy(out, slots)

	for i := range out {
		out[i].Status = resolveSlotStatus(out[i], bookings, blocks)
	}
	return out
}

func resolveSlotStatus(slot TimeSlot, bookings []BookedWindow, blocks []BlockedWindow) SlotStatus {
	status := SlotAvailable

	for _, window := range bookings {
		if !window.Status.Blocks() {
			continue
		}
		if Overlaps(slot.Start, slot.End, window.Start, window.End) {
			status = SlotBooked
			break
		}
	}

	for _, block := range blocks {
		if !Overlaps(slot.Start, slot.End, block.Start, block.End) {
			continue
		}
		if block.Kind == BlockMaintenance {
			return SlotMaintenance
		}
		status = SlotClass
	}

	return status
}
