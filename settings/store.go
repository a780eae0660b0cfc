package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DefaultPath returns the default settings file location,
// $HOME/.config/dashtune/settings.toml.
func DefaultPath() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "dashtune", "settings.toml")
}

// Load reads settings from the given path, layering environment overrides
// (prefix DASHTUNE_, dots replaced by underscores, e.g.
// DASHTUNE_SERVER_URL) over the file and built-in defaults. An empty path
// selects DefaultPath. A missing file is not an error: defaults plus
// environment apply.
func Load(path string) (Settings, error) {
	if path == "" {
		path = DefaultPath()
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.SetConfigFile(path)

	defaults := Default()
	v.SetDefault("server.url", defaults.Server.URL)
	v.SetDefault("server.username", defaults.Server.Username)
	v.SetDefault("server.password_ref", defaults.Server.PasswordRef)
	v.SetDefault("stream.quality", string(defaults.Stream.Quality))
	v.SetDefault("stream.max_bitrate_kbps", defaults.Stream.MaxBitrateKbps)
	v.SetDefault("browse.page_size", defaults.Browse.PageSize)
	v.SetDefault("browse.offline_mode", defaults.Browse.OfflineMode)
	v.SetDefault("telemetry.traces_enabled", defaults.Telemetry.TracesEnabled)
	v.SetDefault("telemetry.metrics_enabled", defaults.Telemetry.MetricsEnabled)
	v.SetDefault("telemetry.endpoint", defaults.Telemetry.Endpoint)

	v.SetEnvPrefix("DASHTUNE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !os.IsNotExist(err) && !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("settings: read %s: %w", path, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("settings: unmarshal: %w", err)
	}
	return s, nil
}

// Save writes the settings to the given path, creating parent directories
// as needed. An empty path selects DefaultPath.
func Save(s Settings, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("settings: mkdir %s: %w", filepath.Dir(path), err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("server.url", s.Server.URL)
	v.Set("server.username", s.Server.Username)
	v.Set("server.password_ref", s.Server.PasswordRef)
	v.Set("stream.quality", string(s.Stream.Quality))
	v.Set("stream.max_bitrate_kbps", s.Stream.MaxBitrateKbps)
	v.Set("browse.page_size", s.Browse.PageSize)
	v.Set("browse.offline_mode", s.Browse.OfflineMode)
	v.Set("telemetry.traces_enabled", s.Telemetry.TracesEnabled)
	v.Set("telemetry.metrics_enabled", s.Telemetry.MetricsEnabled)
	v.Set("telemetry.endpoint", s.Telemetry.Endpoint)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("settings: write %s: %w", path, err)
	}
	return nil
}
