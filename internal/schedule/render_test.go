package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderWeek_SingleNonEmptyDay(t *testing.T) {
	week := NewWeek()
	week.SetDay("Monday", Day{"09:00": {Subject: "Math", Room: "Room 101"}})
	week.SetDay("Tuesday", Day{})
	week.SetDay("Wednesday", Day{})
	week.SetDay("Thursday", Day{})
	week.SetDay("Friday", Day{})
	week.SetDay("Saturday", Day{})
	week.SetDay("Sunday", Day{})

	blocks := RenderWeek(week)

	require.Len(t, blocks, 1)
	assert.Equal(t, "Monday:\n\n09:00:\nMath\nRoom 101\n\n", blocks[0])
}

func TestRenderWeek_SlotsInChronologicalOrder(t *testing.T) {
	week := NewWeek()
	week.SetDay("пн", Day{
		"10:40 - 12:10": {Subject: "Физика", Room: "202"},
		"09:00 - 10:30": {Subject: "Математика", Room: "101"},
	})

	blocks := RenderWeek(week)

	require.Len(t, blocks, 1)
	assert.Equal(t,
		"пн:\n\n09:00 - 10:30:\nМатематика\n101\n\n10:40 - 12:10:\nФизика\n202\n\n",
		blocks[0])
}

func TestRenderWeek_FollowsPortalDayOrder(t *testing.T) {
	// The portal's week can start on any day; rendering must not reorder it.
	week := NewWeek()
	week.SetDay("вс", Day{"09:00": {Subject: "А", Room: "1"}})
	week.SetDay("пн", Day{"09:00": {Subject: "Б", Room: "2"}})

	blocks := RenderWeek(week)

	require.Len(t, blocks, 2)
	assert.Equal(t, "вс:\n\n09:00:\nА\n1\n\n", blocks[0])
	assert.Equal(t, "пн:\n\n09:00:\nБ\n2\n\n", blocks[1])
}

func TestRenderWeek_EmptyWeekRendersNothing(t *testing.T) {
	assert.Empty(t, RenderWeek(NewWeek()))
}
