package problems

import "fmt"

// ConfigurationError reports an invalid preset name, an unrecognized override
// key, or a non-positive density or pressure. It is surfaced to the caller
// before any simulation starts and is never recovered internally.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Key, e.Reason)
}
