package swarmcore

import (
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Config is the process-level configuration read from a YAML file. It
// covers everything init_storage needs to pick a disk adaptor and every
// tunable piecestorage exposes, independent of any specific download.
type Config struct {
	StoreDir string `yaml:"store_dir"`

	PieceLength      uint32 `yaml:"piece_length"`
	EndGameThreshold uint32 `yaml:"end_game_threshold"`

	DirectFileMapping bool `yaml:"direct_file_mapping"`
	EnableDirectIO    bool `yaml:"enable_direct_io"`

	HaveLogMaxAge time.Duration `yaml:"have_log_max_age"`

	// LogLevel names the minimum severity the process logs, one of the
	// names logger.SetLevelByName accepts (debug, info, notice, warning,
	// error, critical). Empty keeps the logger package's own default.
	LogLevel string `yaml:"log_level"`

	filename string
}

// DefaultConfig mirrors the values aria2 ships with: direct mapping on,
// a two-minute have-log retention, and a 10-block endgame threshold.
var DefaultConfig = Config{
	StoreDir:          ".",
	PieceLength:       1 << 18, // 256 KiB
	EndGameThreshold:  10,
	DirectFileMapping: true,
	HaveLogMaxAge:     2 * time.Minute,
	LogLevel:          "info",
}

// LoadConfig reads filename as YAML over DefaultConfig. A missing file is
// not an error: it yields the defaults, remembering filename so a later
// Save writes it into existence.
func LoadConfig(filename string) (*Config, error) {
	c := DefaultConfig
	c.filename = filename
	b, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return &c, nil
	}
	if err != nil {
		return nil, err
	}
	if err = yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.filename = filename
	return &c, nil
}

// Save writes the config back to the file it was loaded from.
func (c *Config) Save() error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(c.filename, b, 0644)
}
