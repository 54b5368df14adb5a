package jsondelta

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// ConfigSection is the ini section read by LoadConfig and ParseConfig.
const ConfigSection = "diff"

// LoadConfig reads a Config from the ini file at path. Keys missing from the
// [diff] section keep their DefaultConfig value.
func LoadConfig(path string) (*Config, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file %s: %w", ErrInvalidArgument, path, err)
	}
	return configFromIni(file)
}

// ParseConfig reads a Config from ini data held in memory.
func ParseConfig(data []byte) (*Config, error) {
	file, err := ini.Load(data)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %w", ErrInvalidArgument, err)
	}
	return configFromIni(file)
}

func configFromIni(file *ini.File) (*Config, error) {
	section := file.Section(ConfigSection)
	cfg := DefaultConfig()

	bools := []struct {
		key    string
		target *bool
	}{
		{"ignore_removals", &cfg.IgnoreRemovals},
		{"optimize_patch", &cfg.OptimizePatch},
		{"use_array_diff_algorithm", &cfg.UseArrayDiffAlgorithm},
		{"use_positional_array_patching", &cfg.UsePositionalArrayPatching},
		{"format_output", &cfg.FormatOutput},
	}
	for _, b := range bools {
		if err := boolWithDefault(section, b.key, b.target); err != nil {
			return nil, err
		}
	}

	ints := []struct {
		key    string
		target *int
	}{
		{"max_array_size_for_lcs", &cfg.MaxArraySizeForLcs},
		{"max_depth", &cfg.MaxDepth},
	}
	for _, n := range ints {
		if err := intWithDefault(section, n.key, n.target); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// boolWithDefault overwrites target only when the key is present.
func boolWithDefault(section *ini.Section, key string, target *bool) error {
	if !section.HasKey(key) {
		return nil
	}
	v, err := section.Key(key).Bool()
	if err != nil {
		return fmt.Errorf("%w: config key %s.%s: %w", ErrInvalidArgument, ConfigSection, key, err)
	}
	*target = v
	return nil
}

// intWithDefault overwrites target only when the key is present.
func intWithDefault(section *ini.Section, key string, target *int) error {
	if !section.HasKey(key) {
		return nil
	}
	v, err := section.Key(key).Int()
	if err != nil {
		return fmt.Errorf("%w: config key %s.%s: %w", ErrInvalidArgument, ConfigSection, key, err)
	}
	if v < 0 {
		return fmt.Errorf("%w: config key %s.%s must not be negative", ErrInvalidArgument, ConfigSection, key)
	}
	*target = v
	return nil
}
