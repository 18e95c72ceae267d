package booking

import "booked/models"

// Overlaps reports whether the half-open ranges [aStart, aEnd) and
// [bStart, bEnd) intersect. Back-to-back ranges (aEnd == bStart) do not.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// HasConflict reports whether the proposed appointment's time range conflicts
// with any existing non-cancelled appointment for the same professional and
// date. The proposed appointment itself is skipped when it already appears in
// the existing set.
func HasConflict(existing []models.Appointment, proposed models.Appointment) bool {
	for _, appt := range existing {
		if appt.ID != "" && appt.ID == proposed.ID {
			continue
		}
		if appt.ProfessionalID != proposed.ProfessionalID || appt.Date != proposed.Date {
			continue
		}
		if !appt.Status.IsLive() {
			continue
		}
		if Overlaps(appt.StartMinute, appt.EndMinute, proposed.StartMinute, proposed.EndMinute) {
			return true
		}
	}
	return false
}
