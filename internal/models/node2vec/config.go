package node2vec

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// ErrInvalidConfig is returned by Validate and New for out-of-range settings.
var ErrInvalidConfig = errors.New("node2vec: invalid config")

// Config holds the model and training parameters.
type Config struct {
	Dimension     int     `mapstructure:"dimension"`
	WalkLength    int     `mapstructure:"walk_length"`
	NumWalks      int     `mapstructure:"num_walks"`
	P             float64 `mapstructure:"p"`
	Q             float64 `mapstructure:"q"`
	WindowSize    int     `mapstructure:"window_size"`
	NumNegSamples int     `mapstructure:"num_neg_samples"`
	LearningRate  float64 `mapstructure:"learning_rate"`
	Epochs        int     `mapstructure:"epochs"`

	// NormalizeUpdates renormalizes both vectors after every pair update.
	// Turning it off changes convergence noticeably.
	NormalizeUpdates bool `mapstructure:"normalize_updates"`

	Seed     int64  `mapstructure:"seed"`
	LogLevel string `mapstructure:"log_level"`
}

// DefaultConfig returns the stock parameters.
func DefaultConfig() Config {
	return Config{
		Dimension:        128,
		WalkLength:       80,
		NumWalks:         10,
		P:                1.0,
		Q:                1.0,
		WindowSize:       5,
		NumNegSamples:    5,
		LearningRate:     0.025,
		Epochs:           5,
		NormalizeUpdates: true,
		Seed:             42,
		LogLevel:         "info",
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("dimension", d.Dimension)
	v.SetDefault("walk_length", d.WalkLength)
	v.SetDefault("num_walks", d.NumWalks)
	v.SetDefault("p", d.P)
	v.SetDefault("q", d.Q)
	v.SetDefault("window_size", d.WindowSize)
	v.SetDefault("num_neg_samples", d.NumNegSamples)
	v.SetDefault("learning_rate", d.LearningRate)
	v.SetDefault("epochs", d.Epochs)
	v.SetDefault("normalize_updates", d.NormalizeUpdates)
	v.SetDefault("seed", d.Seed)
	v.SetDefault("log_level", d.LogLevel)
}

// LoadConfig reads a config file (any format viper understands, chosen by extension).
// Missing keys keep their defaults; NODE2VEC_<KEY> environment variables override the file.
// An empty path loads defaults and environment only.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("node2vec")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every parameter range.
func (c Config) Validate() error {
	switch {
	case c.Dimension <= 0:
		return fmt.Errorf("%w: dimension must be positive, got %d", ErrInvalidConfig, c.Dimension)
	case c.WalkLength <= 0:
		return fmt.Errorf("%w: walk_length must be positive, got %d", ErrInvalidConfig, c.WalkLength)
	case c.NumWalks < 0:
		return fmt.Errorf("%w: num_walks must not be negative, got %d", ErrInvalidConfig, c.NumWalks)
	case c.P <= 0 || c.Q <= 0:
		return fmt.Errorf("%w: p and q must be positive, got p=%v q=%v", ErrInvalidConfig, c.P, c.Q)
	case c.WindowSize < 0:
		return fmt.Errorf("%w: window_size must not be negative, got %d", ErrInvalidConfig, c.WindowSize)
	case c.NumNegSamples < 0:
		return fmt.Errorf("%w: num_neg_samples must not be negative, got %d", ErrInvalidConfig, c.NumNegSamples)
	case c.LearningRate <= 0:
		return fmt.Errorf("%w: learning_rate must be positive, got %v", ErrInvalidConfig, c.LearningRate)
	case c.Epochs < 0:
		return fmt.Errorf("%w: epochs must not be negative, got %d", ErrInvalidConfig, c.Epochs)
	}
	return nil
}

// NewLogger creates a console zerolog logger at the given level; unknown levels fall back to info.
func NewLogger(level string, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if w == nil {
		w = os.Stderr
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
	}).Level(lvl).With().Timestamp().Str("service", "node2vec").Logger()
}
