package booking

import (
	"testing"

	"booked/models"

	"github.com/stretchr/testify/assert"
)

func TestOverlapsHalfOpenSemantics(t *testing.T) {
	cases := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd int
		want                       bool
	}{
		{"identical ranges", 540, 570, 540, 570, true},
		{"b starts inside a", 540, 600, 570, 630, true},
		{"a starts inside b", 570, 630, 540, 600, true},
		{"a contains b", 540, 660, 570, 600, true},
		{"b contains a", 570, 600, 540, 660, true},
		{"back to back, a first", 540, 570, 570, 600, false},
		{"back to back, b first", 570, 600, 540, 570, false},
		{"fully disjoint", 540, 570, 630, 660, false},
		{"one minute overlap", 540, 571, 570, 600, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd))
		})
	}
}

func TestHasConflict(t *testing.T) {
	existing := []models.Appointment{
		{
			ID:             "a1",
			ProfessionalID: "P1",
			Date:           "2025-06-10",
			StartMinute:    600, // 10:00
			EndMinute:      630,
			Status:         models.StatusConfirmed,
		},
		{
			ID:             "a2",
			ProfessionalID: "P1",
			Date:           "2025-06-10",
			StartMinute:    660, // 11:00
			EndMinute:      690,
			Status:         models.StatusCancelled,
		},
	}

	base := models.Appointment{
		ID:             "new",
		ProfessionalID: "P1",
		Date:           "2025-06-10",
		Status:         models.StatusPending,
	}

	overlapping := base
	overlapping.StartMinute, overlapping.EndMinute = 615, 645
	assert.True(t, HasConflict(existing, overlapping))

	// Cancelled appointments do not hold their time.
	ontoCancelled := base
	ontoCancelled.StartMinute, ontoCancelled.EndMinute = 660, 690
	assert.False(t, HasConflict(existing, ontoCancelled))

	backToBack := base
	backToBack.StartMinute, backToBack.EndMinute = 630, 660
	assert.False(t, HasConflict(existing, backToBack))

	otherPro := overlapping
	otherPro.ProfessionalID = "P2"
	assert.False(t, HasConflict(existing, otherPro))

	otherDate := overlapping
	otherDate.Date = "2025-06-11"
	assert.False(t, HasConflict(existing, otherDate))

	// An appointment never conflicts with itself.
	self := existing[0]
	assert.False(t, HasConflict(existing, self))
}
