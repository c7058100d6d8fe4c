package configutil

import (
	"fmt"
	"os"
	"strconv"
)

// OverrideString replaces *dst with the value of the environment variable
// when it is set and non-empty.
func OverrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// OverrideInt replaces *dst with the parsed value of the environment
// variable when it is set and non-empty.
func OverrideInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	*dst = parsed
	return nil
}
