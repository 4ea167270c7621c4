package gapfill_test

import (
	"math"
	"testing"
	"time"

	"github.com/mashiike/gapfill"
	"github.com/stretchr/testify/require"
)

func TestTimeSeriesFillGaps(t *testing.T) {
	roundHalf := []*gapfill.DerivedField{{Target: 2, Source: 0, RoundTo: 0.5}}
	cases := []struct {
		name                string
		input               string
		step                time.Duration
		derived             []*gapfill.DerivedField
		expected            string
		expectedSynthesized int
	}{
		{
			name: "three hour gap",
			input: `Time,Value
2021-10-01 00:00:00,10
2021-10-01 03:00:00,16
`,
			step: time.Hour,
			expected: `Time,Value
2021-10-01 00:00:00,10
2021-10-01 01:00:00,12
2021-10-01 02:00:00,14
2021-10-01 03:00:00,16
`,
			expectedSynthesized: 2,
		},
		{
			name: "exactly one step apart",
			input: `Time,Value
2021-10-01 00:00:00,10
2021-10-01 01:00:00,16
2021-10-01 02:00:00,3
`,
			step: time.Hour,
			expected: `Time,Value
2021-10-01 00:00:00,10
2021-10-01 01:00:00,16
2021-10-01 02:00:00,3
`,
		},
		{
			name: "derived field is rounded from the first field",
			input: `Time,WindSpeed,Power,WindSpeedRounded
2021-10-01 00:00:00,1,10,100
2021-10-01 04:00:00,2,20,200
`,
			step:    time.Hour,
			derived: roundHalf,
			expected: `Time,WindSpeed,Power,WindSpeedRounded
2021-10-01 00:00:00,1,10,100
2021-10-01 01:00:00,1.25,12.5,1
2021-10-01 02:00:00,1.5,15,1.5
2021-10-01 03:00:00,1.75,17.5,2
2021-10-01 04:00:00,2,20,200
`,
			expectedSynthesized: 3,
		},
		{
			name: "missing bound stays missing and derived keeps interpolation",
			input: `Time,WindSpeed,Power,WindSpeedRounded
2021-10-01 00:00:00,,10,4
2021-10-01 02:00:00,2,,6
`,
			step:    time.Hour,
			derived: roundHalf,
			expected: `Time,WindSpeed,Power,WindSpeedRounded
2021-10-01 00:00:00,,10,4
2021-10-01 01:00:00,,,5
2021-10-01 02:00:00,2,,6
`,
			expectedSynthesized: 1,
		},
		{
			name: "partial step counts whole steps only",
			input: `Time,Value
2021-10-01 00:00:00,0
2021-10-01 02:30:00,10
`,
			step: time.Hour,
			expected: `Time,Value
2021-10-01 00:00:00,0
2021-10-01 01:00:00,5
2021-10-01 02:30:00,10
`,
			expectedSynthesized: 1,
		},
		{
			name: "out of order rows are kept as is",
			input: `Time,Value
2021-10-01 05:00:00,1
2021-10-01 01:00:00,2
2021-10-01 01:00:00,3
`,
			step: time.Hour,
			expected: `Time,Value
2021-10-01 05:00:00,1
2021-10-01 01:00:00,2
2021-10-01 01:00:00,3
`,
		},
		{
			name: "thirty minute step",
			input: `Time,Value
2021-10-01 00:00:00,1
2021-10-01 01:30:00,4
`,
			step: 30 * time.Minute,
			expected: `Time,Value
2021-10-01 00:00:00,1
2021-10-01 00:30:00,2
2021-10-01 01:00:00,3
2021-10-01 01:30:00,4
`,
			expectedSynthesized: 2,
		},
		{
			name: "unpadded timestamps are read",
			input: `Time,Value
2021-10-1 0:00:00,10
2021-10-01 3:0:0,16
`,
			step: time.Hour,
			expected: `Time,Value
2021-10-1 0:00:00,10
2021-10-01 01:00:00,12
2021-10-01 02:00:00,14
2021-10-01 3:0:0,16
`,
			expectedSynthesized: 2,
		},
		{
			name: "header only",
			input: `Time,Value
`,
			step: time.Hour,
			expected: `Time,Value
`,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			captureLog(t)
			series, err := gapfill.NewTimeSeries(loadTableFromString(t, c.input), 0, gapfill.DefaultTimeFormat)
			require.NoError(t, err)
			filled := series.FillGaps(c.step, c.derived)
			require.Equal(t, c.expectedSynthesized, filled.Len()-series.Len())
			require.Equal(t, c.expected, tableToString(t, filled.Table()))
		})
	}
}

func TestTimeSeriesFillGapsProperties(t *testing.T) {
	captureLog(t)
	table, err := gapfill.ReadCSVFile("testdata/hourly.csv")
	require.NoError(t, err)
	series, err := gapfill.NewTimeSeries(table, 0, gapfill.DefaultTimeFormat)
	require.NoError(t, err)
	require.Equal(t, 2, series.Dropped())
	require.Equal(t, 6, series.Len())

	step := time.Hour
	filled := series.FillGaps(step, []*gapfill.DerivedField{{Target: 2, Source: 0, RoundTo: 0.5}})
	records := filled.Records()
	require.Len(t, records, 13)

	var prev *gapfill.Record
	for i, r := range records {
		if i > 0 {
			require.True(t, r.Time.After(records[i-1].Time), "records are ordered")
		}
		if !r.Synthesized() {
			prev = r
			continue
		}
		require.NotNil(t, prev)
		require.Equal(t, step, r.Time.Sub(records[i-1].Time))
		ws := r.Values[0]
		if gapfill.IsMissing(ws) {
			continue
		}
		require.Equal(t, math.RoundToEven(2*ws)/2, r.Values[2], "derived field at %s", r.Time)
	}
}

func TestTimeSeriesFillGapsNoGapsIsIdentity(t *testing.T) {
	captureLog(t)
	input := readFile(t, "testdata/complete.csv")
	series, err := gapfill.NewTimeSeries(loadTableFromString(t, input), 0, gapfill.DefaultTimeFormat)
	require.NoError(t, err)
	filled := series.FillGaps(time.Hour, []*gapfill.DerivedField{{Target: 2, Source: 0, RoundTo: 0.5}})
	require.Equal(t, series.Len(), filled.Len())
	require.Equal(t, input, tableToString(t, filled.Table()))
}

func TestNewTimeSeriesDropsRows(t *testing.T) {
	buf := captureLog(t)
	table := loadTableFromString(t, `Time,Value,Other
2021-10-01 00:00:00,1,2
2021/10/01 01:00:00,1,2
2021-10-01 02:00:00,x,2
,1,2
2021-10-01 03:00:00,,2
2021-10-01 04:00:00,4
`)
	series, err := gapfill.NewTimeSeries(table, 0, "")
	require.NoError(t, err)
	require.Equal(t, 3, series.Dropped())
	require.Equal(t, 3, series.Len())
	records := series.Records()
	require.True(t, gapfill.IsMissing(records[1].Values[0]))
	require.True(t, gapfill.IsMissing(records[2].Values[1]), "short rows are padded")
	require.Contains(t, buf.String(), "[debug] drop line 4: column `Value`")
}

func TestNewTimeSeriesTimeColumn(t *testing.T) {
	captureLog(t)
	table := loadTableFromString(t, `Value,Time
10,2021-10-01 00:00:00
16,2021-10-01 03:00:00
`)
	timeColumn, err := gapfill.ResolveTimeColumn(table.Header, "Time")
	require.NoError(t, err)
	require.Equal(t, 1, timeColumn)
	series, err := gapfill.NewTimeSeries(table, timeColumn, gapfill.DefaultTimeFormat)
	require.NoError(t, err)
	require.Equal(t, `Value,Time
10,2021-10-01 00:00:00
12,2021-10-01 01:00:00
14,2021-10-01 02:00:00
16,2021-10-01 03:00:00
`, tableToString(t, series.FillGaps(time.Hour, nil).Table()))

	_, err = gapfill.ResolveTimeColumn(table.Header, "Timestamp")
	require.Error(t, err)
	_, err = gapfill.NewTimeSeries(table, 2, gapfill.DefaultTimeFormat)
	require.Error(t, err)
}

func TestResolveDerived(t *testing.T) {
	header := []string{"Time", "WindSpeed", "Power", "WindSpeedRounded"}
	cases := []struct {
		name        string
		cfgs        []*gapfill.DerivedConfig
		expected    []*gapfill.DerivedField
		expectedErr bool
	}{
		{
			name: "by position",
			cfgs: []*gapfill.DerivedConfig{
				{Column: "3", Source: "1", RoundTo: 0.5},
			},
			expected: []*gapfill.DerivedField{
				{Target: 2, Source: 0, RoundTo: 0.5},
			},
		},
		{
			name: "by name",
			cfgs: []*gapfill.DerivedConfig{
				{Column: "WindSpeedRounded", Source: "WindSpeed", RoundTo: 1},
			},
			expected: []*gapfill.DerivedField{
				{Target: 2, Source: 0, RoundTo: 1},
			},
		},
		{
			name: "time column is not a value field",
			cfgs: []*gapfill.DerivedConfig{
				{Column: "Time", Source: "WindSpeed", RoundTo: 1},
			},
			expectedErr: true,
		},
		{
			name: "position out of range",
			cfgs: []*gapfill.DerivedConfig{
				{Column: "4", Source: "1", RoundTo: 0.5},
			},
			expectedErr: true,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			actual, err := gapfill.ResolveDerived(header, 0, c.cfgs)
			if c.expectedErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.EqualValues(t, c.expected, actual)
		})
	}
}

func TestResolveDerivedDefaultIsOptional(t *testing.T) {
	buf := captureLog(t)
	cfg := gapfill.NewDefaultConfig()
	actual, err := gapfill.ResolveDerived([]string{"Time", "Value"}, 0, cfg.TimeGap.Derived)
	require.NoError(t, err)
	require.Empty(t, actual)
	require.Contains(t, buf.String(), "[warn] skip derived field")
}
