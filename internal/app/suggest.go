package app

import (
	"fmt"
	"time"

	"github.com/medhadesawale/Interview-Slot-Conflict-Resolver/internal/domain"
)

var suggestionOffsets = []time.Duration{
	2 * time.Hour,
	4 * time.Hour,
	24 * time.Hour,
}

// suggestSlots proposes alternative slots when the requested one
// conflicts: the same duration shifted by +2h, +4h and +1 day. The
// candidates are heuristic only and are not re-checked for conflicts;
// a caller picks one and submits it through the normal booking path.
func suggestSlots(requested domain.TimeSlot) []string {
	suggestions := make([]string, 0, len(suggestionOffsets))
	for _, offset := range suggestionOffsets {
		suggestions = append(suggestions, formatSlot(requested.Shift(offset)))
	}
	return suggestions
}

func formatSlot(s domain.TimeSlot) string {
	return fmt.Sprintf("%s to %s",
		s.Start.UTC().Format(time.RFC3339),
		s.End.UTC().Format(time.RFC3339),
	)
}
