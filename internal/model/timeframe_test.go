package model

import "testing"

func TestParseTimeframe(t *testing.T) {
	tests := []struct {
		in   string
		want Timeframe
		ok   bool
	}{
		{"1M", OneMonth, true},
		{"3m", ThreeMonths, true},
		{" 5y ", FiveYears, true},
		{"1D", "", false},
		{"", "", false},
		{"2W", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseTimeframe(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseTimeframe(%q) = %q, %v; expected %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTimeframeCode(t *testing.T) {
	if OneYear.Code() != "1y" {
		t.Errorf("expected 1y, got %q", OneYear.Code())
	}
	if len(Timeframes()) != 6 {
		t.Errorf("expected six selectable timeframes, got %d", len(Timeframes()))
	}
}
