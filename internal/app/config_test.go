package app

import (
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoadConfig(t *testing.T) {
	// Save original environment
	keys := []string{"LEDGER_API_URL", "LEDGER_API_TOKEN", "LEDGER_PLAYER_ID", "LEDGER_PERMISSIONS", "GOOGLE_CREDENTIALS_FILE", "SPREADSHEET_ID"}
	originals := make(map[string]string, len(keys))
	for _, key := range keys {
		originals[key] = os.Getenv(key)
	}

	// Cleanup function
	defer func() {
		for key, value := range originals {
			setOrUnset(key, value)
		}
	}()

	t.Run("ValidConfiguration", func(t *testing.T) {
		os.Setenv("LEDGER_API_URL", "https://ledger.example.com/api/")
		os.Setenv("LEDGER_API_TOKEN", "token")
		os.Setenv("LEDGER_PLAYER_ID", "player-1")
		os.Setenv("LEDGER_PERMISSIONS", "ledger.transactions.view-own, ledger.server-chart.view")
		os.Setenv("GOOGLE_CREDENTIALS_FILE", "test_credentials.json")
		os.Setenv("SPREADSHEET_ID", "sheet")

		config, err := LoadConfig()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if config.APIBaseURL != "https://ledger.example.com/api" {
			t.Errorf("Expected trailing slash to be trimmed, got '%s'", config.APIBaseURL)
		}

		if config.CredentialsFile != "test_credentials.json" {
			t.Errorf("Expected CredentialsFile to be 'test_credentials.json', got '%s'", config.CredentialsFile)
		}

		session := config.Session()
		if session.PlayerID() != "player-1" {
			t.Errorf("Expected session player 'player-1', got '%s'", session.PlayerID())
		}
		if !session.Has(CapViewOwnTransactions) || !session.Has(CapViewServerChart) {
			t.Errorf("Expected both capabilities, got %v", session.Capabilities())
		}
		if session.CanViewAllTransactions() {
			t.Error("Expected session without view-all")
		}
	})

	t.Run("DefaultCredentialsFile", func(t *testing.T) {
		os.Setenv("LEDGER_API_URL", "https://ledger.example.com")
		os.Unsetenv("GOOGLE_CREDENTIALS_FILE")

		config, err := LoadConfig()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if config.CredentialsFile != "credentials.json" {
			t.Errorf("Expected CredentialsFile to default to 'credentials.json', got '%s'", config.CredentialsFile)
		}
	})

	t.Run("MissingAPIURL", func(t *testing.T) {
		os.Unsetenv("LEDGER_API_URL")

		_, err := LoadConfig()
		if err == nil {
			t.Fatal("Expected error for missing LEDGER_API_URL, got nil")
		}

		if !strings.Contains(err.Error(), "LEDGER_API_URL") {
			t.Errorf("Expected error message to contain 'LEDGER_API_URL', got '%s'", err.Error())
		}
	})

	t.Run("InvalidAPIURL", func(t *testing.T) {
		os.Setenv("LEDGER_API_URL", "not a url")

		_, err := LoadConfig()
		if err == nil {
			t.Fatal("Expected validation error for malformed LEDGER_API_URL, got nil")
		}
	})
}

func TestSetupEnvironment(t *testing.T) {
	// Save original environment
	originalENV := os.Getenv("ENV")
	originalLOGLEVEL := os.Getenv("LOGLEVEL")
	originalLevel := zerolog.GlobalLevel()

	// Cleanup function
	defer func() {
		setOrUnset("ENV", originalENV)
		setOrUnset("LOGLEVEL", originalLOGLEVEL)
		zerolog.SetGlobalLevel(originalLevel)
	}()

	testCases := []struct {
		name          string
		env           string
		logLevel      string
		expectedLevel zerolog.Level
	}{
		{"ProductionDebug", "production", "debug", zerolog.DebugLevel},
		{"ProductionWarning", "production", "warning", zerolog.WarnLevel},
		{"ProductionDisabled", "production", "disabled", zerolog.Disabled},
		{"ProductionDefault", "production", "", zerolog.WarnLevel},
		{"ProductionUnknown", "production", "unknown", zerolog.InfoLevel},
		{"DevelopmentDebug", "development", "debug", zerolog.DebugLevel},
		{"DevelopmentDefault", "development", "", zerolog.InfoLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			setOrUnset("ENV", tc.env)
			setOrUnset("LOGLEVEL", tc.logLevel)

			SetupEnvironment()

			if zerolog.GlobalLevel() != tc.expectedLevel {
				t.Errorf("Expected log level %v, got %v", tc.expectedLevel, zerolog.GlobalLevel())
			}
		})
	}
}

// Helper function to set environment variable or unset if value is empty
func setOrUnset(key, value string) {
	if value == "" {
		os.Unsetenv(key)
	} else {
		os.Setenv(key, value)
	}
}
