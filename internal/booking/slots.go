package booking

import "time"

// GenerateSlots derives the candidate booking slots for a room on the given
// date. Slots are contiguous, non-overlapping, each exactly granularityMinutes
// long, and together span [openHour, closeHour) in the date's location; a
// trailing slot that would extend past closeHour is dropped.
//
// The function is pure: identical inputs always yield identical output.
func GenerateSlots(roomID string, date time.Time, granularityMinutes, openHour, closeHour int) ([]TimeSlot, error) {
	if granularityMinutes <= 0 {
		return nil, ErrInvalidRange
	}
	if openHour < 0 || closeHour > 24 || openHour >= closeHour {
		return nil, ErrInvalidRange
	}

	loc := date.Location()
	open := time.Date(date.Year(), date.Month(), date.Day(), openHour, 0, 0, 0, loc)
	close := time.Date(date.Year(), date.Month(), date.Day(), closeHour, 0, 0, 0, loc)
	step := time.Duration(granularityMinutes) * time.Minute

	count := int(close.Sub(open) / step)
	slots := make([]TimeSlot, 0, count)
	for start := open; ; start = start.Add(step) {
		end := start.Add(step)
		if end.After(close) {
			break
		}
		slots = append(slots, TimeSlot{
			RoomID: roomID,
			Start:  start,
			End:    end,
			Status: SlotAvailable,
		})
	}

	return slots, nil
}
