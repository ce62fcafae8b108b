package models

// Slot name constants shared by the contest templates
const (
	SlotFlex    = "FLEX"
	SlotCaptain = "CPT"
)

// RosterSlot represents a single slot in a contest roster template
type RosterSlot struct {
	SlotName         string   `json:"slot_name"`         // e.g., "RB", "FLEX", "CPT"
	AllowedPositions []string `json:"allowed_positions"` // e.g., ["RB"] or ["RB", "WR", "TE"]
	Priority         int      `json:"priority"`          // Fill order (1 = first)
	IsRequired       bool     `json:"is_required"`       // Must be filled
}

// CanFill checks if a player can fill this slot
func (s RosterSlot) CanFill(player Player) bool {
	for _, allowedPos := range s.AllowedPositions {
		if player.Position == allowedPos {
			return true
		}
	}
	return false
}

// RosterTemplate describes the roster shape of a contest
type RosterTemplate struct {
	Name  string       `json:"name"`
	Slots []RosterSlot `json:"slots"`
}

// Size returns the number of roster slots per lineup
func (t RosterTemplate) Size() int {
	return len(t.Slots)
}

// SlotCounts returns how many roster slots carry each slot name, so a
// classic template reports RB twice and FLEX once.
func (t RosterTemplate) SlotCounts() map[string]int {
	counts := make(map[string]int)
	for _, slot := range t.Slots {
		counts[slot.SlotName]++
	}
	return counts
}

// Positions returns the distinct primary positions the template draws from,
// in canonical order. Used for deterministic per-position walks.
func (t RosterTemplate) Positions() []string {
	seen := make(map[string]bool)
	for _, slot := range t.Slots {
		for _, pos := range slot.AllowedPositions {
			seen[pos] = true
		}
	}
	ordered := make([]string, 0, len(seen))
	for _, pos := range PositionOrder {
		if seen[pos] {
			ordered = append(ordered, pos)
		}
	}
	return ordered
}

// ClassicTemplate returns the standard nine-slot roster template
func ClassicTemplate() RosterTemplate {
	return RosterTemplate{
		Name: "classic",
		Slots: []RosterSlot{
			{SlotName: "QB", AllowedPositions: []string{PositionQB}, Priority: 1, IsRequired: true},
			{SlotName: "RB", AllowedPositions: []string{PositionRB}, Priority: 2, IsRequired: true},
			{SlotName: "RB", AllowedPositions: []string{PositionRB}, Priority: 3, IsRequired: true},
			{SlotName: "WR", AllowedPositions: []string{PositionWR}, Priority: 4, IsRequired: true},
			{SlotName: "WR", AllowedPositions: []string{PositionWR}, Priority: 5, IsRequired: true},
			{SlotName: "WR", AllowedPositions: []string{PositionWR}, Priority: 6, IsRequired: true},
			{SlotName: "TE", AllowedPositions: []string{PositionTE}, Priority: 7, IsRequired: true},
			{SlotName: SlotFlex, AllowedPositions: []string{PositionRB, PositionWR, PositionTE}, Priority: 8, IsRequired: true},
			{SlotName: "DST", AllowedPositions: []string{PositionDST}, Priority: 9, IsRequired: true},
		},
	}
}

// ShowdownTemplate returns the single-game roster template: one captain
// slot plus five FLEX slots fillable by any position.
func ShowdownTemplate() RosterTemplate {
	allPositions := []string{PositionQB, PositionRB, PositionWR, PositionTE, PositionDST}
	slots := []RosterSlot{
		{SlotName: SlotCaptain, AllowedPositions: allPositions, Priority: 1, IsRequired: true},
	}
	for i := 0; i < 5; i++ {
		slots = append(slots, RosterSlot{
			SlotName:         SlotFlex,
			AllowedPositions: allPositions,
			Priority:         i + 2,
			IsRequired:       true,
		})
	}
	return RosterTemplate{Name: "showdown", Slots: slots}
}
