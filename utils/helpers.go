package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSnowflake validates a Discord id and returns it as an integer.
func ParseSnowflake(id string) (int64, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(id), 10, 63)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("invalid snowflake %q", id)
	}
	return int64(v), nil
}

// OptionalSnowflake parses id, returning nil for an empty or invalid one.
func OptionalSnowflake(id string) *int64 {
	v, err := ParseSnowflake(id)
	if err != nil {
		return nil
	}
	return &v
}

// Mention formats a user mention.
func Mention(userID string) string {
	return "<@" + userID + ">"
}
