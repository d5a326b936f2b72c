// Package config loads dashboard settings from flags and TERMDASH_*
// environment variables.
package config

import (
	"strings"
	"time"

	"github.com/rileyhilliard/termdash/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. TERMDASH_INTERVAL.
const EnvPrefix = "TERMDASH"

// Setting keys. Flags use the same names.
const (
	KeyInterval      = "interval"
	KeyHistory       = "history"
	KeyMount         = "mount"
	KeyProcesses     = "processes"
	KeySampleTimeout = "sample-timeout"
	KeyNoColor       = "no-color"
	KeyLogFile       = "log-file"
	KeyDebug         = "debug"
)

// Defaults and limits.
const (
	DefaultInterval      = time.Second
	MinInterval          = 250 * time.Millisecond
	DefaultHistory       = 60
	MaxHistory           = 3600
	DefaultProcesses     = 5
	MaxProcesses         = 50
	DefaultSampleTimeout = 800 * time.Millisecond
)

// Settings is the resolved configuration of one run.
type Settings struct {
	Interval      time.Duration
	History       int
	Mounts        []string // empty means discover physical partitions
	Processes     int      // 0 hides the process section
	SampleTimeout time.Duration
	NoColor       bool
	LogFile       string
	Debug         bool
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Settings {
	return Settings{
		Interval:      DefaultInterval,
		History:       DefaultHistory,
		Processes:     DefaultProcesses,
		SampleTimeout: DefaultSampleTimeout,
	}
}

// RegisterFlags adds the dashboard flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Defaults()
	fs.Duration(KeyInterval, d.Interval, "time between samples (min 250ms)")
	fs.Int(KeyHistory, d.History, "samples kept per graph")
	fs.StringSlice(KeyMount, nil, "mount point to show (repeatable; default: all physical partitions)")
	fs.Int(KeyProcesses, d.Processes, "top processes to list (0 hides the section)")
	fs.Duration(KeySampleTimeout, d.SampleTimeout, "how long one sample may take (must be below --interval)")
	fs.Bool(KeyNoColor, false, "disable colors")
	fs.String(KeyLogFile, "", "append logs to this file")
	fs.Bool(KeyDebug, false, "log debug messages")
}

// Load resolves settings from flags, environment and defaults, in that
// order of precedence, and validates them. fs may be nil.
func Load(fs *pflag.FlagSet) (*Settings, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault(KeyInterval, d.Interval)
	v.SetDefault(KeyHistory, d.History)
	v.SetDefault(KeyMount, []string{})
	v.SetDefault(KeyProcesses, d.Processes)
	v.SetDefault(KeySampleTimeout, d.SampleTimeout)
	v.SetDefault(KeyNoColor, false)
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyDebug, false)

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Couldn't read command line flags",
				"Run 'termdash --help' to see the supported flags.")
		}
	}

	s := &Settings{
		Interval:      v.GetDuration(KeyInterval),
		History:       v.GetInt(KeyHistory),
		Mounts:        splitMounts(v.GetStringSlice(KeyMount)),
		Processes:     v.GetInt(KeyProcesses),
		SampleTimeout: v.GetDuration(KeySampleTimeout),
		NoColor:       v.GetBool(KeyNoColor),
		LogFile:       v.GetString(KeyLogFile),
		Debug:         v.GetBool(KeyDebug),
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// splitMounts accepts both repeated values and comma separated lists, so
// TERMDASH_MOUNT="/,/home" works like --mount / --mount /home.
func splitMounts(raw []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, entry := range raw {
		for _, m := range strings.Split(entry, ",") {
			m = strings.TrimSpace(m)
			if m == "" || seen[m] {
				continue
			}
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}
