package seatmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_IsDeterministic(t *testing.T) {
	for _, screen := range []string{"IMAX", "Standard", "GOLD", "Dolby Atmos"} {
		for _, seed := range []int64{0, 1, 7, 42, 1234} {
			a := Generate(screen, seed)
			b := Generate(screen, seed)
			assert.Equal(t, a, b, "screen=%s seed=%d", screen, seed)
		}
	}
}

func TestGenerate_SeatCountMatchesLayout(t *testing.T) {
	for _, l := range Layouts() {
		m := Generate(l.Key, 99)
		assert.Equal(t, l.Rows*l.Cols, m.TotalSeats, l.Key)
		assert.Equal(t, m.TotalSeats, countSeats(m), l.Key)
		require.Len(t, m.Rows, l.Rows, l.Key)
		for _, row := range m.Rows {
			assert.Len(t, row.Seats, l.Cols, l.Key)
		}
	}
}

func TestGenerate_TierPartition(t *testing.T) {
	for _, l := range Layouts() {
		m := Generate(l.Key, 5)
		counts := map[Tier]int{}
		for _, row := range m.Rows {
			tier := row.Seats[0].Tier
			for _, s := range row.Seats {
				require.Equal(t, tier, s.Tier, "row %s mixes tiers", row.Label)
				require.Equal(t, Multiplier(tier), s.PriceMultiplier)
			}
			counts[tier]++
		}
		assert.Equal(t, l.VIPRows, counts[TierVIP], l.Key)
		assert.Equal(t, l.PremiumRows, counts[TierPremium], l.Key)
		assert.Equal(t, l.Rows-l.VIPRows-l.PremiumRows, counts[TierStandard], l.Key)
	}
}

func TestGenerate_ImaxScenario(t *testing.T) {
	m := Generate("IMAX Deluxe", 7)

	assert.Equal(t, "IMAX Deluxe", m.ScreenName)
	assert.Equal(t, 160, m.TotalSeats)
	require.Len(t, m.Rows, 10)

	for r, row := range m.Rows {
		want := TierStandard
		switch {
		case r >= 8:
			want = TierVIP
		case r >= 5:
			want = TierPremium
		}
		assert.Equal(t, want, row.Seats[0].Tier, "row %d", r)
		assert.Equal(t, RowLabel(r), row.Label)
	}

	tests := []struct {
		id     string
		tier   Tier
		status Status
	}{
		{"A1", TierStandard, StatusSold},
		{"A15", TierStandard, StatusHeld},
		{"B1", TierStandard, StatusSold},
		{"B2", TierStandard, StatusAvailable},
		{"B13", TierStandard, StatusSold},
		{"F1", TierPremium, StatusAvailable},
		{"J1", TierVIP, StatusAvailable},
	}
	for _, tt := range tests {
		s, ok := m.Seat(tt.id)
		require.True(t, ok, tt.id)
		assert.Equal(t, tt.tier, s.Tier, tt.id)
		assert.Equal(t, tt.status, s.Status, tt.id)
	}
}

func TestGenerate_NeverEmitsSelected(t *testing.T) {
	for seed := int64(-50); seed < 50; seed++ {
		counts := Generate("IMAX", seed).CountByStatus()
		assert.Zero(t, counts[StatusSelected])
	}
}

func TestGenerate_UnknownScreenFallsBackToStandard(t *testing.T) {
	want := Generate("STANDARD", 42)
	got := Generate("Unknown Screen", 42)

	assert.Equal(t, want.TotalSeats, got.TotalSeats)
	assert.Equal(t, want.Rows, got.Rows)
	assert.Equal(t, "Unknown Screen", got.ScreenName)
	assert.Equal(t, Generate("Standard", 42).Rows, got.Rows)
}

func TestGenerate_StandardGolden(t *testing.T) {
	counts := Generate("STANDARD", 42).CountByStatus()
	assert.Equal(t, 20, counts[StatusSold])
	assert.Equal(t, 3, counts[StatusHeld])
	assert.Equal(t, 73, counts[StatusAvailable])
}

// The front row ignores the seed, so it is left out of the sample.
func TestGenerate_StatusDistributionIsApproximate(t *testing.T) {
	for _, l := range Layouts() {
		total, sold, held := 0, 0, 0
		for seed := int64(1); seed <= 1000; seed++ {
			for _, row := range Generate(l.Key, seed).Rows[1:] {
				for _, s := range row.Seats {
					total++
					switch s.Status {
					case StatusSold:
						sold++
					case StatusHeld:
						held++
					}
				}
			}
		}
		assert.InDelta(t, 0.15, float64(sold)/float64(total), 0.02, l.Key)
		assert.InDelta(t, 0.02, float64(held)/float64(total), 0.01, l.Key)
	}
}

func TestWithSold_LeavesSourceUntouched(t *testing.T) {
	m := Generate("IMAX", 7)
	before, _ := m.Seat("B2")
	require.Equal(t, StatusAvailable, before.Status)

	out := m.WithSold([]string{"B2", "Z99"})

	s, _ := out.Seat("B2")
	assert.Equal(t, StatusSold, s.Status)
	after, _ := m.Seat("B2")
	assert.Equal(t, StatusAvailable, after.Status)
	assert.Equal(t, m.TotalSeats, out.TotalSeats)
	assert.Equal(t, countSeats(m), countSeats(out))
}

func TestSeat_Lookup(t *testing.T) {
	m := Generate("GOLD", 1)
	s, ok := m.Seat("F8")
	require.True(t, ok)
	assert.Equal(t, "F", s.Row)
	assert.Equal(t, 8, s.Number)
	assert.Equal(t, TierVIP, s.Tier)

	_, ok = m.Seat("G1")
	assert.False(t, ok)
}

func countSeats(m SeatMap) int {
	n := 0
	for _, row := range m.Rows {
		n += len(row.Seats)
	}
	return n
}

func TestSeat_DirectLookupMatchesScan(t *testing.T) {
	for _, l := range Layouts() {
		m := Generate(l.Key, 11)
		for _, row := range m.Rows {
			for _, want := range row.Seats {
				got, ok := m.Seat(want.ID)
				require.True(t, ok, want.ID)
				assert.Equal(t, want, got)
			}
		}
	}
}

func TestSeat_RejectsMalformedIDs(t *testing.T) {
	m := Generate("IMAX", 7)
	for _, id := range []string{"", "b2", "B0", "B17", "B+2", "K1", "AA1", "2B", "B", "B02"} {
		_, ok := m.Seat(id)
		assert.False(t, ok, id)
	}
}

func TestSeat_FallsBackToScan(t *testing.T) {
	m := SeatMap{Rows: []Row{{Label: "X", Seats: []Seat{{ID: "X5", Row: "X", Number: 5}}}}}
	s, ok := m.Seat("X5")
	require.True(t, ok)
	assert.Equal(t, 5, s.Number)
}
