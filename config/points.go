package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PointsFile is the on-disk shape of the action points defaults file
type PointsFile struct {
	Actions map[string]int64 `yaml:"actions"`
}

// DefaultActionPoints returns the built-in base points per action type.
// Guild administrators override these per guild or per channel.
func DefaultActionPoints() map[string]int64 {
	return map[string]int64{
		"x_like":           5,
		"x_retweet":        8,
		"x_reply":          10,
		"discord_reaction": 1,
		"discord_message":  1,
		"solana_role":      25,
	}
}

// LoadActionPoints merges the YAML file at path over the built-in defaults.
// An empty path returns the defaults unchanged.
func LoadActionPoints(path string) (map[string]int64, error) {
	points := DefaultActionPoints()
	if path == "" {
		return points, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read points config %s: %w", path, err)
	}

	var file PointsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse points config %s: %w", path, err)
	}

	for action, value := range file.Actions {
		if value < 0 {
			return nil, fmt.Errorf("points config %s: action %q has negative value %d", path, action, value)
		}
		points[action] = value
	}

	return points, nil
}
