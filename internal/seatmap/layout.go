package seatmap

import "strings"

// ScreenLayout is the seating preset of a screen category. The last
// VIPRows rows are VIP, the PremiumRows rows in front of them are Premium
// and every row before that is Standard.
type ScreenLayout struct {
	Key         string `json:"key"`
	Rows        int    `json:"rows"`
	Cols        int    `json:"cols"`
	VIPRows     int    `json:"vip_rows"`
	PremiumRows int    `json:"premium_rows"`
}

// DefaultLayoutKey names the layout used for screen types that match no key.
const DefaultLayoutKey = "STANDARD"

// Keys are matched in this order, so a label containing both IMAX and
// STANDARD resolves to IMAX.
var layouts = [...]ScreenLayout{
	{Key: "IMAX", Rows: 10, Cols: 16, VIPRows: 2, PremiumRows: 3},
	{Key: "STANDARD", Rows: 8, Cols: 12, VIPRows: 1, PremiumRows: 2},
	{Key: "GOLD", Rows: 6, Cols: 8, VIPRows: 6, PremiumRows: 0},
}

// Layouts returns a copy of the layout presets in matching order.
func Layouts() []ScreenLayout {
	out := make([]ScreenLayout, len(layouts))
	copy(out, layouts[:])
	return out
}

// LookupLayout returns the preset registered under key exactly.
func LookupLayout(key string) (ScreenLayout, bool) {
	for _, l := range layouts {
		if l.Key == key {
			return l, true
		}
	}
	return ScreenLayout{}, false
}

// ResolveLayout picks the first preset whose key is a substring of
// screenType. Matching is case-sensitive: "IMAX Deluxe" is IMAX while
// "Gold Class" is not GOLD and falls back to the default layout.
func ResolveLayout(screenType string) ScreenLayout {
	for _, l := range layouts {
		if strings.Contains(screenType, l.Key) {
			return l
		}
	}
	l, _ := LookupLayout(DefaultLayoutKey)
	return l
}

// TierOfRow returns the tier of zero-based row r counted from the front.
func (l ScreenLayout) TierOfRow(r int) Tier {
	switch {
	case r >= l.Rows-l.VIPRows:
		return TierVIP
	case r >= l.Rows-l.VIPRows-l.PremiumRows:
		return TierPremium
	default:
		return TierStandard
	}
}

// TotalSeats is rows times columns.
func (l ScreenLayout) TotalSeats() int {
	return l.Rows * l.Cols
}

// RowLabel converts a zero-based row index into its label: A..Z, then AA,
// AB and so on. Negative indices give an empty label.
func RowLabel(i int) string {
	if i < 0 {
		return ""
	}
	var res []byte
	for {
		res = append(res, byte('A'+i%26))
		i = i/26 - 1
		if i < 0 {
			break
		}
	}
	for j, k := 0, len(res)-1; j < k; j, k = j+1, k-1 {
		res[j], res[k] = res[k], res[j]
	}
	return string(res)
}

// RowIndex is the inverse of RowLabel. Lower-case letters are accepted.
func RowIndex(label string) (int, bool) {
	s := strings.ToUpper(strings.TrimSpace(label))
	if s == "" {
		return -1, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch < 'A' || ch > 'Z' {
			return -1, false
		}
		n = n*26 + int(ch-'A'+1)
	}
	return n - 1, true
}
