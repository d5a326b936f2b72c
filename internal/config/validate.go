package config

import (
	"fmt"
	"path/filepath"

	"github.com/rileyhilliard/termdash/internal/errors"
)

// Validate checks settings for values the dashboard can't run with.
func (s *Settings) Validate() error {
	if s.Interval < MinInterval {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Refresh interval %s is too short", s.Interval),
			fmt.Sprintf("Use --interval %s or longer.", MinInterval))
	}

	if s.History < 1 || s.History > MaxHistory {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("History length %d is out of range", s.History),
			fmt.Sprintf("Pick a --history between 1 and %d samples.", MaxHistory))
	}

	if s.Processes < 0 || s.Processes > MaxProcesses {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Process count %d is out of range", s.Processes),
			fmt.Sprintf("Pick --processes between 0 and %d. Use 0 to hide the list.", MaxProcesses))
	}

	if s.SampleTimeout <= 0 {
		return errors.New(errors.ErrConfig,
			"Sample timeout must be positive",
			fmt.Sprintf("Try --sample-timeout %s.", DefaultSampleTimeout))
	}
	if s.SampleTimeout >= s.Interval {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Sample timeout %s isn't shorter than the interval %s", s.SampleTimeout, s.Interval),
			"A sample has to finish before the next one starts. Lower --sample-timeout or raise --interval.")
	}

	for _, m := range s.Mounts {
		if !filepath.IsAbs(m) {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Mount point '%s' isn't an absolute path", m),
				"Pass mount points as shown by 'df', e.g. --mount / --mount /home.")
		}
	}

	return nil
}
