// Package config provides persistent configuration for the prayer-times CLI.
//
// Configuration is stored as TOML at ~/.config/prayer-times/config.toml
// (XDG-compliant). The merge priority is: CLI flags > environment > config
// file > defaults. Environment overrides use the PRAYER_TIMES_ prefix and may
// come from a .env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/smokyabdulrahman/prayer-times/internal/logger"
	"github.com/smokyabdulrahman/prayer-times/internal/prayer"
)

const (
	configDirName  = "prayer-times"
	configFileName = "config.toml"
	dbFileName     = "timetable.db"

	// EnvPrefix prefixes every environment override, e.g. PRAYER_TIMES_METHOD.
	EnvPrefix = "PRAYER_TIMES_"
)

// ValidKeys lists all config keys that can be set via `config set`.
var ValidKeys = []string{
	"city", "country",
	"latitude", "longitude",
	"timezone",
	"method", "madhab",
	"high_latitude_rule", "shafaq",
	"fajr_angle", "isha_angle", "isha_interval",
	"adjustments.fajr", "adjustments.sunrise", "adjustments.dhuhr",
	"adjustments.asr", "adjustments.maghrib", "adjustments.isha",
	"hijri_adjustment",
	"time_format",
	"prayers",
	"cache_dir",
	"log_level",
}

// Config holds all user-configurable settings.
// Zero values mean "not set" (use defaults or auto-detect).
type Config struct {
	City             string             `toml:"city,omitempty"`
	Country          string             `toml:"country,omitempty"`
	Latitude         float64            `toml:"latitude,omitzero"`
	Longitude        float64            `toml:"longitude,omitzero"`
	Timezone         string             `toml:"timezone,omitempty"` // IANA name, e.g. "Asia/Riyadh"
	Method           string             `toml:"method,omitempty"`   // preset name or Al Adhan id
	Madhab           string             `toml:"madhab,omitempty"`   // "shafi" or "hanafi"
	HighLatitudeRule string             `toml:"high_latitude_rule,omitempty"`
	Shafaq           string             `toml:"shafaq,omitempty"`
	FajrAngle        float64            `toml:"fajr_angle,omitzero"`
	IshaAngle        float64            `toml:"isha_angle,omitzero"`
	IshaInterval     int                `toml:"isha_interval,omitzero"`
	HijriAdjustment  int                `toml:"hijri_adjustment,omitzero"`
	TimeFormat       string             `toml:"time_format,omitempty"` // "12h" or "24h"
	Prayers          string             `toml:"prayers,omitempty"`     // comma-separated list
	CacheDir         string             `toml:"cache_dir,omitempty"`
	LogLevel         string             `toml:"log_level,omitempty"`
	Adjustments      prayer.Adjustments `toml:"adjustments,omitempty"`
}

// Defaults returns a Config with all default values applied.
func Defaults() Config {
	return Config{
		Method:     prayer.MuslimWorldLeague.String(),
		Madhab:     prayer.Shafi.String(),
		Shafaq:     prayer.ShafaqGeneral.String(),
		TimeFormat: "24h",
		LogLevel:   "warn",
	}
}

// WithDefaults returns a copy of c with every unset string option filled from
// Defaults. The high latitude rule stays empty so it can follow the location.
func (c Config) WithDefaults() Config {
	d := Defaults()
	if c.Method == "" {
		c.Method = d.Method
	}
	if c.Madhab == "" {
		c.Madhab = d.Madhab
	}
	if c.Shafaq == "" {
		c.Shafaq = d.Shafaq
	}
	if c.TimeFormat == "" {
		c.TimeFormat = d.TimeFormat
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	return c
}

// Dir returns the config directory path.
// It respects $XDG_CONFIG_HOME if set, otherwise uses ~/.config/.
func Dir() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, configDirName), nil
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// DataDir returns the data directory, honouring $XDG_DATA_HOME.
func DataDir() (string, error) {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dir, configDirName), nil
}

// DefaultDBPath is where exported timetables are stored.
func DefaultDBPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, dbFileName), nil
}

// Load reads the config file from disk.
// If the file does not exist, it returns an empty Config (not an error).
// If the file exists but is invalid TOML, it returns an error.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	return LoadFrom(path)
}

// LoadFrom reads the config from a specific file path.
func LoadFrom(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given files (".env" when none are
// given) into the process environment. Missing files are ignored and variables
// that are already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// EnvName returns the environment variable that overrides key.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// ApplyEnv overrides c with every PRAYER_TIMES_* variable lookup reports.
// Invalid values are collected and returned together.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	var errs []error
	for _, key := range ValidKeys {
		value, ok := lookup(EnvName(key))
		if !ok {
			continue
		}
		if err := c.Set(key, value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvName(key), err))
		}
	}
	return errors.Join(errs...)
}

// Save writes the config to disk, creating the directory if needed.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}

	return c.SaveTo(path)
}

// SaveTo writes the config to a specific file path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory %s: %w", dir, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// Reset deletes the config file.
func Reset() error {
	path, err := Path()
	if err != nil {
		return err
	}

	return ResetAt(path)
}

// ResetAt deletes the config file at a specific path.
func ResetAt(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete config file: %w", err)
	}
	return nil
}

// Set sets a config key to the given value.
// It validates the key name and parses the value into the correct type.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)

	if name, ok := strings.CutPrefix(key, "adjustments."); ok {
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid %s %q: must be a whole number of minutes", key, value)
		}
		field := adjustmentField(&c.Adjustments, name)
		if field == nil {
			return unknownKey(key)
		}
		*field = v
		return nil
	}

	switch key {
	case "city":
		c.City = value
	case "country":
		c.Country = value
	case "latitude":
		v, err := parseRange(key, value, -90, 90)
		if err != nil {
			return err
		}
		c.Latitude = v
	case "longitude":
		v, err := parseRange(key, value, -180, 180)
		if err != nil {
			return err
		}
		c.Longitude = v
	case "timezone":
		if _, err := time.LoadLocation(value); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", value, err)
		}
		c.Timezone = value
	case "method":
		if _, ok := prayer.LookupMethod(value); !ok {
			return fmt.Errorf("invalid method %q: run `prayer-times methods` for the list", value)
		}
		c.Method = value
	case "madhab", "school":
		m, err := prayer.ParseMadhab(value)
		if err != nil {
			return err
		}
		c.Madhab = m.String()
	case "high_latitude_rule":
		r, err := prayer.ParseHighLatitudeRule(value)
		if err != nil {
			return err
		}
		c.HighLatitudeRule = r.String()
	case "shafaq":
		s, err := prayer.ParseShafaq(value)
		if err != nil {
			return err
		}
		c.Shafaq = s.String()
	case "fajr_angle":
		v, err := parseRange(key, value, 0, 30)
		if err != nil {
			return err
		}
		c.FajrAngle = v
	case "isha_angle":
		v, err := parseRange(key, value, 0, 30)
		if err != nil {
			return err
		}
		c.IshaAngle = v
	case "isha_interval":
		v, err := strconv.Atoi(value)
		if err != nil || v < 0 || v > 180 {
			return fmt.Errorf("invalid isha_interval %q: must be between 0 and 180 minutes", value)
		}
		c.IshaInterval = v
	case "hijri_adjustment":
		v, err := strconv.Atoi(value)
		if err != nil || v < -3 || v > 3 {
			return fmt.Errorf("invalid hijri_adjustment %q: must be between -3 and 3 days", value)
		}
		c.HijriAdjustment = v
	case "time_format":
		if value != "12h" && value != "24h" {
			return fmt.Errorf("invalid time_format %q: must be \"12h\" or \"24h\"", value)
		}
		c.TimeFormat = value
	case "prayers":
		names, err := prayer.ParsePrayerNames(value)
		if err != nil {
			return fmt.Errorf("invalid prayers list: %w", err)
		}
		c.Prayers = strings.Join(names, ",")
	case "cache_dir":
		c.CacheDir = value
	case "log_level":
		if !logger.ValidLevel(value) {
			return fmt.Errorf("invalid log_level %q: must be debug, info, warn, error or off", value)
		}
		c.LogLevel = strings.ToLower(value)
	default:
		return unknownKey(key)
	}

	return nil
}

// Get returns the string value of a config key.
func (c *Config) Get(key string) (string, error) {
	if name, ok := strings.CutPrefix(key, "adjustments."); ok {
		field := adjustmentField(&c.Adjustments, name)
		if field == nil {
			return "", fmt.Errorf("unknown config key %q", key)
		}
		return formatInt(*field), nil
	}

	switch key {
	case "city":
		return c.City, nil
	case "country":
		return c.Country, nil
	case "latitude":
		return formatFloat(c.Latitude), nil
	case "longitude":
		return formatFloat(c.Longitude), nil
	case "timezone":
		return c.Timezone, nil
	case "method":
		return c.Method, nil
	case "madhab":
		return c.Madhab, nil
	case "high_latitude_rule":
		return c.HighLatitudeRule, nil
	case "shafaq":
		return c.Shafaq, nil
	case "fajr_angle":
		return formatFloat(c.FajrAngle), nil
	case "isha_angle":
		return formatFloat(c.IshaAngle), nil
	case "isha_interval":
		return formatInt(c.IshaInterval), nil
	case "hijri_adjustment":
		return formatInt(c.HijriAdjustment), nil
	case "time_format":
		return c.TimeFormat, nil
	case "prayers":
		return c.Prayers, nil
	case "cache_dir":
		return c.CacheDir, nil
	case "log_level":
		return c.LogLevel, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

// Validate re-checks every set value, reporting all problems at once.
// It catches hand-edited files that bypassed Set.
func (c *Config) Validate() error {
	var errs []error
	check := func(key string) {
		value, _ := c.Get(key)
		if value == "" {
			return
		}
		probe := *c
		if err := probe.Set(key, value); err != nil {
			errs = append(errs, err)
		}
	}
	for _, key := range ValidKeys {
		check(key)
	}
	return errors.Join(errs...)
}

// HasCoordinates reports whether a location was configured.
func (c *Config) HasCoordinates() bool {
	return c.Latitude != 0 || c.Longitude != 0
}

// Parameters builds the calculation parameters for coords. An unset high
// latitude rule follows prayer.RecommendedHighLatitudeRule. A method name
// that Set would reject (a hand-edited file) falls back to prayer.Other; see
// UnknownMethod.
func (c *Config) Parameters(coords prayer.Coordinates) (prayer.CalculationParameters, error) {
	method := prayer.MuslimWorldLeague
	if c.Method != "" {
		method = prayer.ParseMethod(c.Method)
	}

	madhab, err := prayer.ParseMadhab(c.Madhab)
	if err != nil {
		return prayer.CalculationParameters{}, err
	}
	shafaq, err := prayer.ParseShafaq(c.Shafaq)
	if err != nil {
		return prayer.CalculationParameters{}, err
	}
	rule := prayer.RecommendedHighLatitudeRule(coords)
	if c.HighLatitudeRule != "" {
		if rule, err = prayer.ParseHighLatitudeRule(c.HighLatitudeRule); err != nil {
			return prayer.CalculationParameters{}, err
		}
	}

	p := prayer.NewParameters(method).
		WithMadhab(madhab).
		WithShafaq(shafaq).
		WithHighLatitudeRule(rule).
		WithAdjustments(c.Adjustments)
	if c.FajrAngle != 0 || c.IshaAngle != 0 || c.IshaInterval != 0 {
		p = p.WithAngles(c.FajrAngle, c.IshaAngle, c.IshaInterval)
	}
	return p, nil
}

// UnknownMethod reports whether the configured method is set but names no
// preset, in which case Parameters uses prayer.Other.
func (c *Config) UnknownMethod() bool {
	if c.Method == "" {
		return false
	}
	_, ok := prayer.LookupMethod(c.Method)
	return !ok
}

// Location loads the configured timezone, or time.Local when none is set.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// TimeLayout returns the Go layout for the configured time format.
func (c *Config) TimeLayout() string {
	if c.TimeFormat == "12h" {
		return "3:04 PM"
	}
	return "15:04"
}

// PrayerNames returns the tracked prayers, DefaultPrayerNames when unset.
func (c *Config) PrayerNames() ([]string, error) {
	return prayer.ParsePrayerNames(c.Prayers)
}

func adjustmentField(a *prayer.Adjustments, name string) *int {
	switch name {
	case "fajr":
		return &a.Fajr
	case "sunrise":
		return &a.Sunrise
	case "dhuhr":
		return &a.Dhuhr
	case "asr":
		return &a.Asr
	case "maghrib":
		return &a.Maghrib
	case "isha":
		return &a.Isha
	}
	return nil
}

func parseRange(key, value string, lo, hi float64) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be a number", key, value)
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("invalid %s %q: must be between %g and %g", key, value, lo, hi)
	}
	return v, nil
}

func unknownKey(key string) error {
	return fmt.Errorf("unknown config key %q; valid keys: %s", key, strings.Join(ValidKeys, ", "))
}

func formatFloat(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatInt(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}
