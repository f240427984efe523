package util

import "time"

const defaultTimeout = 30 * time.Second

func secondsOrDefault(seconds int) time.Duration {
	if seconds <= 0 {
		return defaultTimeout
	}
	return time.Duration(seconds) * time.Second
}
