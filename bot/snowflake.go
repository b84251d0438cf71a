package bot

import (
	"fmt"
	"strconv"
)

// ParseSnowflake converts a Discord id string to int64
func ParseSnowflake(id string) (int64, error) {
	value, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid snowflake %q: %w", id, err)
	}
	return value, nil
}

// FormatSnowflake converts an int64 id to its Discord string form
func FormatSnowflake(id int64) string {
	return strconv.FormatInt(id, 10)
}
