package images

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theronnieguidry/teachers-assistant/internal/types"
)

func placement(id string, priority float64) types.VisualPlacement {
	return types.VisualPlacement{ID: id, Description: "illustration " + id, Priority: priority}
}

func TestCapFor_RichnessBounds(t *testing.T) {
	assert.Equal(t, 2, CapFor(types.RichnessMinimal, 50), "minimal never exceeds 2")
	assert.Equal(t, 4, CapFor(types.RichnessStandard, 50), "standard never exceeds 4")
	assert.Equal(t, 8, CapFor(types.RichnessRich, 50), "rich never exceeds 8")

	assert.Equal(t, 1, CapFor(types.RichnessMinimal, 1))
	assert.Equal(t, 2, CapFor(types.RichnessStandard, 1))
	assert.Equal(t, 3, CapFor(types.RichnessRich, 1))

	assert.Equal(t, 1, CapFor(types.RichnessMinimal, 0), "degenerate question counts still allow one image")
}

func TestFilter_DropsLowPriorityAndEmptyDescriptions(t *testing.T) {
	placements := []types.VisualPlacement{
		placement("keep", 0.9),
		placement("low", 0.39),
		{ID: "blank", Priority: 0.8},
		placement("edge", 0.4),
	}

	accepted, stats := Filter(placements, types.RichnessStandard, 10)

	require.Len(t, accepted, 2)
	assert.Equal(t, "keep", accepted[0].ID)
	assert.Equal(t, "edge", accepted[1].ID, "the threshold itself is inclusive")
	assert.Equal(t, 2, stats.Accepted)
	assert.Equal(t, 2, stats.Rejected)
	assert.Equal(t, 1, stats.Reasons["low_priority"])
	assert.Equal(t, 1, stats.Reasons["empty_description"])
}

func TestFilter_CapsByPriority(t *testing.T) {
	placements := []types.VisualPlacement{
		placement("a", 0.5),
		placement("b", 0.95),
		placement("c", 0.7),
		placement("d", 0.6),
	}

	// minimal richness at 10 questions caps at 2
	accepted, stats := Filter(placements, types.RichnessMinimal, 10)

	require.Len(t, accepted, 2)
	assert.Equal(t, "b", accepted[0].ID)
	assert.Equal(t, "c", accepted[1].ID)
	assert.Equal(t, 2, stats.Reasons["over_quota"])
}

func TestFilter_TiesPreservePlannerOrder(t *testing.T) {
	placements := []types.VisualPlacement{
		placement("first", 0.8),
		placement("second", 0.8),
		placement("third", 0.8),
	}

	accepted, _ := Filter(placements, types.RichnessMinimal, 10)

	require.Len(t, accepted, 2)
	assert.Equal(t, "first", accepted[0].ID)
	assert.Equal(t, "second", accepted[1].ID)
}

func TestFilter_Empty(t *testing.T) {
	accepted, stats := Filter(nil, types.RichnessStandard, 10)

	assert.Empty(t, accepted)
	assert.Zero(t, stats.Accepted)
	assert.Zero(t, stats.Rejected)
}
