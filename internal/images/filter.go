// Package images implements the premium image pipeline: relevance filtering
// and capping of visual placements, resilient concurrent batch generation
// with an in-run content cache, and compression to a printable size budget.
package images

import (
	"github.com/theronnieguidry/teachers-assistant/internal/types"
)

// minPriority is the relevance threshold below which placements are dropped.
const minPriority = 0.4

// CapFor derives the maximum image count from the visual-richness setting and
// the question count.
func CapFor(richness types.VisualRichness, questionCount int) int {
	if questionCount < 1 {
		questionCount = 1
	}
	switch richness {
	case types.RichnessMinimal:
		return capped(1+questionCount/8, 2)
	case types.RichnessRich:
		return capped(3+questionCount/3, 8)
	default: // standard
		return capped(2+questionCount/5, 4)
	}
}

func capped(n, max int) int {
	if n > max {
		return max
	}
	if n < 1 {
		return 1
	}
	return n
}

// Filter drops placements below the relevance threshold and caps the
// remainder to the richness-derived quota. Higher-priority placements win.
func Filter(placements []types.VisualPlacement, richness types.VisualRichness, questionCount int) ([]types.VisualPlacement, types.FilterStats) {
	stats := types.FilterStats{Reasons: make(map[string]int)}

	var relevant []types.VisualPlacement
	for _, p := range placements {
		if p.Description == "" {
			stats.Rejected++
			stats.Reasons["empty_description"]++
			continue
		}
		if p.Priority < minPriority {
			stats.Rejected++
			stats.Reasons["low_priority"]++
			continue
		}
		relevant = append(relevant, p)
	}

	// Stable selection sort by priority: placement order is planner output
	// order, which ties should preserve.
	for i := 0; i < len(relevant); i++ {
		best := i
		for j := i + 1; j < len(relevant); j++ {
			if relevant[j].Priority > relevant[best].Priority {
				best = j
			}
		}
		if best != i {
			picked := relevant[best]
			copy(relevant[i+1:best+1], relevant[i:best])
			relevant[i] = picked
		}
	}

	cap := CapFor(richness, questionCount)
	if len(relevant) > cap {
		stats.Rejected += len(relevant) - cap
		stats.Reasons["over_quota"] += len(relevant) - cap
		relevant = relevant[:cap]
	}

	stats.Accepted = len(relevant)
	return relevant, stats
}
