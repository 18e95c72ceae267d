package booking

import (
	"fmt"
	"strconv"
	"strings"

	"booked/models"
)

// InvalidRangeError reports an unusable slot-generation range.
type InvalidRangeError struct {
	Start    string
	End      string
	Interval int
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid slot range [%s, %s) at %d minute interval", e.Start, e.End, e.Interval)
}

// MinutesFromMidnight parses an "HH:MM" string into minutes from midnight.
func MinutesFromMidnight(t string) (int, error) {
	parts := strings.Split(t, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed time %q, want HH:MM", t)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("malformed time %q, want HH:MM", t)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("malformed time %q, want HH:MM", t)
	}
	return hours*60 + minutes, nil
}

// FormatMinutes renders minutes from midnight as "HH:MM".
func FormatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// GenerateSlots produces the canonical ordered slot times from startTime
// inclusive to endTime exclusive, stepping by intervalMinutes.
func GenerateSlots(startTime, endTime string, intervalMinutes int) ([]string, error) {
	start, err := MinutesFromMidnight(startTime)
	if err != nil {
		return nil, err
	}
	end, err := MinutesFromMidnight(endTime)
	if err != nil {
		return nil, err
	}
	if end <= start || intervalMinutes <= 0 {
		return nil, &InvalidRangeError{Start: startTime, End: endTime, Interval: intervalMinutes}
	}

	slots := make([]string, 0, (end-start)/intervalMinutes)
	for m := start; m < end; m += intervalMinutes {
		slots = append(slots, FormatMinutes(m))
	}
	return slots, nil
}

// EnsureSlot returns the existing slot for the given time, appending a new one
// with the given default availability when the day has none. This is the
// single place the default-availability policy is decided, per call site.
func EnsureSlot(day *models.DayAvailability, slotTime string, defaultAvailable bool) *models.Slot {
	if slot := day.SlotAt(slotTime); slot != nil {
		return slot
	}
	day.Slots = append(day.Slots, models.Slot{Time: slotTime, Available: defaultAvailable})
	return &day.Slots[len(day.Slots)-1]
}
