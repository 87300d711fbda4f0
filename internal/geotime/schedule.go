package geotime

import (
	"fmt"
	"sort"

	"github.com/FACorreiaa/go-itinerary-health/internal/types"
)

// Slot is a timed activity with its position in the day's activity list.
type Slot struct {
	Index    int
	Activity types.Activity
	Interval
}

// Timeline returns the day's timed activities ordered by start minute.
// Activities sharing a start keep their source order.
func Timeline(day types.Day) []Slot {
	slots := make([]Slot, 0, len(day.Activities))
	for i, a := range day.Activities {
		if !a.HasStart() {
			continue
		}
		slots = append(slots, Slot{Index: i, Activity: a, Interval: ActivityInterval(a)})
	}
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].Start < slots[j].Start
	})
	return slots
}

// Span is the minutes from the first start to the latest end of a timeline.
func Span(slots []Slot) int {
	if len(slots) == 0 {
		return 0
	}
	end := slots[0].End
	for _, s := range slots[1:] {
		end = max(end, s.End)
	}
	return end - slots[0].Start
}

// Key identifies the slot's activity in issue IDs, falling back to its
// position when the activity has no ID.
func (s Slot) Key() string {
	if s.Activity.ID != "" {
		return s.Activity.ID
	}
	return fmt.Sprintf("#%d", s.Index)
}
