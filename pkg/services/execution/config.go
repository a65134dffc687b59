package execution

import (
	"fmt"
	"time"
)

// PollConfig bounds how long and how often an execution is polled.
type PollConfig struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	MaxAttempts  int
	Timeout      time.Duration
}

func DefaultPollConfig() PollConfig {
	return PollConfig{
		InitialDelay: time.Second,
		MaxDelay:     8 * time.Second,
		Multiplier:   2,
		MaxAttempts:  20,
		Timeout:      2 * time.Minute,
	}
}

func (c PollConfig) Validate() error {
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("max attempts must be positive")
	}
	if c.InitialDelay < 0 || c.MaxDelay < 0 {
		return fmt.Errorf("delays must not be negative")
	}
	if c.Multiplier < 1 {
		return fmt.Errorf("multiplier must be at least 1")
	}
	return nil
}

// delay returns the wait before poll number attempt+1 (attempt counts from 1).
func (c PollConfig) delay(attempt int) time.Duration {
	d := float64(c.InitialDelay)
	for i := 1; i < attempt; i++ {
		d *= c.Multiplier
		if c.MaxDelay > 0 && d >= float64(c.MaxDelay) {
			return c.MaxDelay
		}
	}
	if c.MaxDelay > 0 && time.Duration(d) > c.MaxDelay {
		return c.MaxDelay
	}
	return time.Duration(d)
}
