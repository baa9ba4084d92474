package seatmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveLayout(t *testing.T) {
	tests := []struct {
		screen string
		want   string
	}{
		{"IMAX", "IMAX"},
		{"IMAX Deluxe", "IMAX"},
		{"STANDARD", "STANDARD"},
		{"GOLD Lounge", "GOLD"},
		{"Gold Class", "STANDARD"},
		{"imax", "STANDARD"},
		{"", "STANDARD"},
		{"3D", "STANDARD"},
		{"STANDARD IMAX", "IMAX"},
	}
	for _, tt := range tests {
		t.Run(tt.screen, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveLayout(tt.screen).Key)
		})
	}
}

func TestLayouts_HonourRowBudget(t *testing.T) {
	for _, l := range Layouts() {
		assert.LessOrEqual(t, l.VIPRows+l.PremiumRows, l.Rows, l.Key)
	}
}

func TestLayouts_ReturnsCopy(t *testing.T) {
	ls := Layouts()
	ls[0].Rows = 99
	l, ok := LookupLayout("IMAX")
	assert.True(t, ok)
	assert.Equal(t, 10, l.Rows)
}

func TestRowLabel(t *testing.T) {
	tests := []struct {
		idx  int
		want string
	}{
		{0, "A"}, {7, "H"}, {25, "Z"}, {26, "AA"}, {27, "AB"}, {51, "AZ"}, {52, "BA"}, {701, "ZZ"}, {702, "AAA"}, {-1, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RowLabel(tt.idx), "index %d", tt.idx)
		if tt.idx >= 0 {
			got, ok := RowIndex(tt.want)
			assert.True(t, ok)
			assert.Equal(t, tt.idx, got)
		}
	}

	_, ok := RowIndex("A1")
	assert.False(t, ok)
	got, ok := RowIndex(" ab ")
	assert.True(t, ok)
	assert.Equal(t, 27, got)
}

func TestTierInfos(t *testing.T) {
	infos := TierInfos()
	if assert.Len(t, infos, 3) {
		for _, info := range infos {
			assert.Equal(t, Multiplier(info.Tier), info.Multiplier)
		}
	}
	assert.Zero(t, Multiplier(Tier("balcony")))
}
