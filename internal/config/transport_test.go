package config

import (
	"testing"
	"time"
)

func TestDefaultTransportConfig(t *testing.T) {
	if DefaultTransportConfig.Timeout != 30*time.Second {
		t.Errorf("Expected default Timeout 30s, got %v", DefaultTransportConfig.Timeout)
	}

	if DefaultTransportConfig.RequestsPerSecond != 5.0 {
		t.Errorf("Expected default RequestsPerSecond 5, got %f", DefaultTransportConfig.RequestsPerSecond)
	}

	if DefaultTransportConfig.Burst != 5 {
		t.Errorf("Expected default Burst 5, got %d", DefaultTransportConfig.Burst)
	}
}

func TestTransportConfigNormalize(t *testing.T) {
	t.Run("ZeroValueUsesDefaults", func(t *testing.T) {
		got := TransportConfig{}.Normalize()
		if got != DefaultTransportConfig {
			t.Errorf("Expected %+v, got %+v", DefaultTransportConfig, got)
		}
	})

	t.Run("ExplicitValuesKept", func(t *testing.T) {
		in := TransportConfig{Timeout: time.Second, RequestsPerSecond: 1, Burst: 2}
		if got := in.Normalize(); got != in {
			t.Errorf("Expected %+v, got %+v", in, got)
		}
	})
}
