package models

import "time"

// Slot is one discrete bookable unit on a professional's calendar for one date.
type Slot struct {
	Time      string `bson:"time" json:"time"` // "HH:MM", 24h
	Available bool   `bson:"available" json:"available"`
}

// SlotRecord is the persisted form of a slot: one document per
// (professionalId, date, time). Only exceptions to the default are stored —
// absence of a record means the slot is available.
type SlotRecord struct {
	ProfessionalID string    `bson:"professionalId" json:"professionalId"`
	Date           string    `bson:"date" json:"date"` // "YYYY-MM-DD"
	Time           string    `bson:"time" json:"time"` // "HH:MM"
	Available      bool      `bson:"available" json:"available"`
	// Blocked marks slots held unavailable by provisioning rather than by a
	// booking claim. The reconciliation sweep never frees blocked slots.
	Blocked bool `bson:"blocked,omitempty" json:"blocked,omitempty"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

// DayAvailability aggregates all slots for one professional on one date.
// At most one aggregate exists per (professionalId, date); slots are ordered
// by time and unique by time.
type DayAvailability struct {
	ProfessionalID string `bson:"professionalId" json:"professionalId"`
	Date           string `bson:"date" json:"date"`
	Slots          []Slot `bson:"slots" json:"slots"`
}

// SlotAt returns the slot with the given time, or nil if the day has none.
func (d *DayAvailability) SlotAt(timeStr string) *Slot {
	for i := range d.Slots {
		if d.Slots[i].Time == timeStr {
			return &d.Slots[i]
		}
	}
	return nil
}
