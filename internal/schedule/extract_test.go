package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func column(entries ...[3]string) string {
	html := `<div class="fc-content-col">`
	for _, e := range entries {
		if e[0] != "" {
			html += `<span class="fc-title">` + e[0] + `</span>`
		}
		if e[1] != "" {
			html += `<small>` + e[1] + `</small>`
		}
		if e[2] != "" {
			html += `<div class="fc-time"><span>` + e[2] + `</span></div>`
		}
	}
	return html + `</div>`
}

func header(days ...string) string {
	html := ""
	for _, d := range days {
		html += `<div class="fc-day-header"><span>` + d + `</span></div>`
	}
	return html
}

func TestExtractWeek_PairsParallelLists(t *testing.T) {
	markup := header("пн, 1 сентября", "вт, 2 сентября") +
		column(
			[3]string{"Математический анализ", "Ауд. 101", "09:00 - 10:30"},
			[3]string{"Физика", "Ауд. 202", "10:40 - 12:10"},
		) +
		column(
			[3]string{"История", "Ауд. 303", "12:50 - 14:20"},
		)

	week, err := ExtractWeek(markup)
	require.NoError(t, err)

	require.Equal(t, []string{"пн, 1 сентября", "вт, 2 сентября"}, week.Order)

	monday := week.Days["пн, 1 сентября"]
	require.Len(t, monday, 2)
	assert.Equal(t, Slot{Subject: "Математический анализ", Room: "Ауд. 101"}, monday["09:00 - 10:30"])
	assert.Equal(t, Slot{Subject: "Физика", Room: "Ауд. 202"}, monday["10:40 - 12:10"])

	tuesday := week.Days["вт, 2 сентября"]
	require.Len(t, tuesday, 1)
	assert.Equal(t, Slot{Subject: "История", Room: "Ауд. 303"}, tuesday["12:50 - 14:20"])
}

func TestExtractWeek_PadsShortLabelsForSortOrder(t *testing.T) {
	markup := header("пн") + column([3]string{"Математика", "101", "9:00"})

	week, err := ExtractWeek(markup)
	require.NoError(t, err)

	day := week.Days["пн"]
	require.Len(t, day, 1)
	// "9:00" is 4 runes, padded to width 13.
	assert.Contains(t, day, "0000000009:00")
}

func TestExtractWeek_MismatchedListsYieldSentinel(t *testing.T) {
	// Two time labels but only one title and one room: the missing
	// positions must be filled with the NoData sentinel, not dropped.
	markup := header("пн") + `<div class="fc-content-col">` +
		`<span class="fc-title">Математика</span>` +
		`<small>101</small>` +
		`<div class="fc-time"><span>09:00 - 10:30</span></div>` +
		`<div class="fc-time"><span>10:40 - 12:10</span></div>` +
		`</div>`

	week, err := ExtractWeek(markup)
	require.NoError(t, err)

	day := week.Days["пн"]
	require.Len(t, day, 2)
	assert.Equal(t, Slot{Subject: "Математика", Room: "101"}, day["09:00 - 10:30"])
	assert.Equal(t, NoDataSlot(), day["10:40 - 12:10"])
}

func TestExtractWeek_DuplicateTimeLabelFirstWins(t *testing.T) {
	markup := header("пн") + column(
		[3]string{"Математика", "101", "09:00 - 10:30"},
		[3]string{"Физика", "202", "09:00 - 10:30"},
	)

	week, err := ExtractWeek(markup)
	require.NoError(t, err)

	day := week.Days["пн"]
	require.Len(t, day, 1)
	assert.Equal(t, Slot{Subject: "Математика", Room: "101"}, day["09:00 - 10:30"])
}

func TestExtractWeek_EmptyColumnsRetained(t *testing.T) {
	markup := header("сб", "вс") +
		column([3]string{"Математика", "101", "09:00 - 10:30"}) +
		column()

	week, err := ExtractWeek(markup)
	require.NoError(t, err)

	require.Equal(t, []string{"сб", "вс"}, week.Order)
	assert.Len(t, week.Days["сб"], 1)
	assert.NotNil(t, week.Days["вс"])
	assert.Empty(t, week.Days["вс"])
}

func TestExtractWeek_MoreHeadersThanColumns(t *testing.T) {
	// The portal occasionally renders headers before the columns hydrate;
	// missing columns become empty days rather than an error.
	markup := header("пн", "вт") + column([3]string{"Математика", "101", "09:00 - 10:30"})

	week, err := ExtractWeek(markup)
	require.NoError(t, err)

	require.Len(t, week.Order, 2)
	assert.Empty(t, week.Days["вт"])
}

func TestExtractWeek_NoHeadersIsAnError(t *testing.T) {
	_, err := ExtractWeek("<html><body></body></html>")
	assert.Error(t, err)
}
