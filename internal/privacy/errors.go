package privacy

import "errors"

var (
	// ErrUnknownSettingKey is returned when an update names a setting
	// that does not exist.
	ErrUnknownSettingKey = errors.New("unknown privacy setting")

	// ErrInvalidSettingValue is returned when an update value has the
	// wrong type for its key.
	ErrInvalidSettingValue = errors.New("invalid privacy setting value")
)
