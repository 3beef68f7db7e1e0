package dto

import domainroom "stayhub/internal/domain/room"

type Availability struct {
	RoomID    string      `json:"room_id"`
	Available bool        `json:"available"`
	Conflicts []DateRange `json:"conflicts,omitempty"`
}

func MapAvailability(roomID string, conflicts []domainroom.ReservationRecord) Availability {
	out := Availability{RoomID: roomID, Available: len(conflicts) == 0}
	for _, rec := range conflicts {
		out.Conflicts = append(out.Conflicts, DateRange{CheckIn: rec.Range.CheckIn, CheckOut: rec.Range.CheckOut})
	}
	return out
}
