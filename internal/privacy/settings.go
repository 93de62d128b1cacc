// Package privacy gates sensitive tool execution behind user-controlled
// settings and an explicit approval step. Settings persist as JSON and
// survive restarts; updates are atomic from the caller's point of view.
package privacy

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Settings holds the user's privacy preferences.
// The JSON field names match the on-disk privacy_settings.json record.
type Settings struct {
	EncryptEmails              bool `json:"encrypt_emails"`
	EncryptCalendar            bool `json:"encrypt_calendar"`
	EncryptDocuments           bool `json:"encrypt_documents"`
	EncryptPayment             bool `json:"encrypt_payment"`
	DataRetentionDays          int  `json:"data_retention_days"`
	AskPermissionBeforeSharing bool `json:"ask_permission_before_sharing"`
}

// DefaultSettings returns the conservative out-of-the-box preferences:
// everything sensitive, 30-day retention, always ask.
func DefaultSettings() Settings {
	return Settings{
		EncryptEmails:              true,
		EncryptCalendar:            true,
		EncryptDocuments:           true,
		EncryptPayment:             true,
		DataRetentionDays:          30,
		AskPermissionBeforeSharing: true,
	}
}

// sensitive reports whether the named data category requires gating.
// Unknown categories are not sensitive.
func (s Settings) sensitive(category string) bool {
	switch category {
	case "emails":
		return s.EncryptEmails
	case "calendar":
		return s.EncryptCalendar
	case "documents":
		return s.EncryptDocuments
	case "payment":
		return s.EncryptPayment
	default:
		return false
	}
}

// apply merges one settings key into s. Unknown keys fail so a typo in
// an update never silently disappears.
func (s *Settings) apply(key string, value any) error {
	switch key {
	case "encrypt_emails":
		return setBool(&s.EncryptEmails, key, value)
	case "encrypt_calendar":
		return setBool(&s.EncryptCalendar, key, value)
	case "encrypt_documents":
		return setBool(&s.EncryptDocuments, key, value)
	case "encrypt_payment":
		return setBool(&s.EncryptPayment, key, value)
	case "ask_permission_before_sharing":
		return setBool(&s.AskPermissionBeforeSharing, key, value)
	case "data_retention_days":
		switch v := value.(type) {
		case int:
			s.DataRetentionDays = v
		case float64: // JSON numbers decode as float64
			s.DataRetentionDays = int(v)
		default:
			return fmt.Errorf("%w: %s wants an integer, got %T", ErrInvalidSettingValue, key, value)
		}
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownSettingKey, key)
	}
}

func setBool(dst *bool, key string, value any) error {
	v, ok := value.(bool)
	if !ok {
		return fmt.Errorf("%w: %s wants a boolean, got %T", ErrInvalidSettingValue, key, value)
	}
	*dst = v
	return nil
}

// loadSettings reads settings from path, writing defaults on first use.
func loadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		defaults := DefaultSettings()
		if err := saveSettings(path, defaults); err != nil {
			return Settings{}, err
		}
		return defaults, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("reading privacy settings: %w", err)
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parsing privacy settings: %w", err)
	}
	return s, nil
}

// saveSettings persists settings atomically: write a temp file in the
// same directory, then rename over the target. A failed save leaves the
// previous file intact.
func saveSettings(path string, s Settings) error {
	data, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding privacy settings: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".privacy_settings-*.json")
	if err != nil {
		return fmt.Errorf("creating temp settings file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing privacy settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp settings file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing privacy settings: %w", err)
	}
	return nil
}
