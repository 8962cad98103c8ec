package app

import "testing"

func TestSessionCapabilities(t *testing.T) {
	tests := []struct {
		name         string
		capabilities []string
		viewTx       bool
		viewAll      bool
		viewChart    bool
	}{
		{"NoCapabilities", nil, false, false, false},
		{"OwnOnly", []string{CapViewOwnTransactions}, true, false, false},
		{"AllOnly", []string{CapViewAllTransactions}, true, true, false},
		{"ChartOnly", []string{CapViewServerChart}, false, false, true},
		{"Everything", []string{CapViewOwnTransactions, CapViewAllTransactions, CapViewServerChart}, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession("p1", tt.capabilities)
			if s.CanViewTransactions() != tt.viewTx {
				t.Errorf("CanViewTransactions = %v, want %v", s.CanViewTransactions(), tt.viewTx)
			}
			if s.CanViewAllTransactions() != tt.viewAll {
				t.Errorf("CanViewAllTransactions = %v, want %v", s.CanViewAllTransactions(), tt.viewAll)
			}
			if s.CanViewServerChart() != tt.viewChart {
				t.Errorf("CanViewServerChart = %v, want %v", s.CanViewServerChart(), tt.viewChart)
			}
		})
	}
}

func TestNewSessionNormalizesCapabilities(t *testing.T) {
	s := NewSession("p1", []string{" ledger.server-chart.view ", "", "ledger.server-chart.view"})

	caps := s.Capabilities()
	if len(caps) != 1 || caps[0] != CapViewServerChart {
		t.Errorf("Expected a single trimmed capability, got %v", caps)
	}

	// The returned slice is a copy
	caps[0] = CapViewAllTransactions
	if s.CanViewAllTransactions() {
		t.Error("Mutating Capabilities() result must not change the session")
	}
}

func TestParseCapabilities(t *testing.T) {
	if got := ParseCapabilities("  "); got != nil {
		t.Errorf("Expected nil for blank input, got %v", got)
	}
	if got := ParseCapabilities("a,b"); len(got) != 2 {
		t.Errorf("Expected two entries, got %v", got)
	}
}
