package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/julianstephens/liftlog/internal/constants"
)

// Config holds the tunables read by viper from config.yaml or LIFTLOG_* env vars
type Config struct {
	Timer         TimerConfig         `mapstructure:"timer"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Worker        WorkerConfig        `mapstructure:"worker"`
	Log           LogConfig           `mapstructure:"log"`
}

type TimerConfig struct {
	Tick        time.Duration `mapstructure:"tick"`
	RedrawEvery int           `mapstructure:"redraw_every"`
	RedrawBelow int           `mapstructure:"redraw_below"`
	Threshold   int           `mapstructure:"threshold"`
}

type NotificationsConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	FallbackLabel string `mapstructure:"fallback_label"`
}

type WorkerConfig struct {
	Name string `mapstructure:"name"`
}

type LogConfig struct {
	Debug bool   `mapstructure:"debug"`
	Level string `mapstructure:"level"`
}

// Default returns the configuration used when no file or env overrides exist
func Default() Config {
	return Config{
		Timer: TimerConfig{
			Tick:        constants.DefaultTick,
			RedrawEvery: constants.DefaultRedrawEvery,
			RedrawBelow: constants.DefaultRedrawBelow,
			Threshold:   constants.TimerThreshold,
		},
		Notifications: NotificationsConfig{
			Enabled:       true,
			FallbackLabel: constants.FallbackCardLabel,
		},
		Worker: WorkerConfig{
			Name: constants.WorkerName,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Load reads config.yaml from dir, layering LIFTLOG_* environment variables
// and defaults underneath. A missing file is not an error.
func Load(dir string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// timer.redraw_every -> LIFTLOG_TIMER_REDRAW_EVERY
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := Default()
	v.SetDefault(constants.ConfigTimerTick, def.Timer.Tick.String())
	v.SetDefault(constants.ConfigTimerRedrawEvery, def.Timer.RedrawEvery)
	v.SetDefault(constants.ConfigTimerRedrawBelow, def.Timer.RedrawBelow)
	v.SetDefault(constants.ConfigTimerThreshold, def.Timer.Threshold)
	v.SetDefault(constants.ConfigNotificationsEnabled, def.Notifications.Enabled)
	v.SetDefault(constants.ConfigNotificationsFallback, def.Notifications.FallbackLabel)
	v.SetDefault(constants.ConfigWorkerName, def.Worker.Name)
	v.SetDefault(constants.ConfigLogDebug, false)
	v.SetDefault(constants.ConfigLogLevel, def.Log.Level)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
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

// Validate rejects values the countdown cannot run with
func (c Config) Validate() error {
	if c.Timer.Tick <= 0 {
		return fmt.Errorf("timer.tick must be positive, got %s", c.Timer.Tick)
	}
	if c.Timer.RedrawEvery <= 0 {
		return fmt.Errorf("timer.redraw_every must be positive, got %d", c.Timer.RedrawEvery)
	}
	if c.Timer.RedrawBelow < 0 {
		return fmt.Errorf("timer.redraw_below cannot be negative, got %d", c.Timer.RedrawBelow)
	}
	if c.Timer.Threshold < 0 {
		return fmt.Errorf("timer.threshold cannot be negative, got %d", c.Timer.Threshold)
	}
	if strings.TrimSpace(c.Worker.Name) == "" {
		return errors.New("worker.name cannot be empty")
	}
	if c.Log.Level != "" {
		if _, err := log.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("log.level %q is not a log level", c.Log.Level)
		}
	}
	return nil
}
