package schedule

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekJSON_RoundTripPreservesDayOrder(t *testing.T) {
	week := NewWeek()
	week.SetDay("вт, 2 сентября", Day{
		"10:40 - 12:10": {Subject: "Физика", Room: "202"},
	})
	week.SetDay("пн, 1 сентября", Day{
		"09:00 - 10:30": {Subject: "Математика", Room: "101"},
	})
	week.SetDay("ср, 3 сентября", Day{})

	data, err := json.Marshal(week)
	require.NoError(t, err)

	var decoded Week
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, week.Order, decoded.Order)
	assert.Equal(t, week.Days, decoded.Days)
}

func TestWeekJSON_PersistedLayout(t *testing.T) {
	week := NewWeek()
	week.SetDay("пн", Day{
		"09:00 - 10:30": {Subject: "Математика", Room: "101"},
	})

	data, err := json.Marshal(week)
	require.NoError(t, err)

	assert.JSONEq(t, `{"пн":{"09:00 - 10:30":["Математика","101"]}}`, string(data))
}

func TestWeekJSON_RejectsNonObject(t *testing.T) {
	var week Week
	assert.Error(t, json.Unmarshal([]byte(`[1,2,3]`), &week))
}

func TestSlotJSON_RejectsWrongArity(t *testing.T) {
	var slot Slot
	assert.Error(t, json.Unmarshal([]byte(`["only subject"]`), &slot))
}

func TestDayTimes_SortedChronologically(t *testing.T) {
	day := Day{
		padTime("10:40 - 12:10"): {},
		padTime("9:00"):          {},
		padTime("09:00 - 10:30"): {},
	}
	assert.Equal(t, []string{
		padTime("9:00"),
		padTime("09:00 - 10:30"),
		padTime("10:40 - 12:10"),
	}, day.Times())
}

func TestPadTime(t *testing.T) {
	assert.Equal(t, "0000000009:00", padTime("9:00"))
	assert.Equal(t, "09:00 - 10:30", padTime("09:00 - 10:30"))
	// Padding counts runes, not bytes.
	assert.Equal(t, "000"+NoData, padTime(NoData))
}
