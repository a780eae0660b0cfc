package settings

import "strings"

// Quality selects the stream transcoding tier requested from the server.
type Quality string

const (
	// QualityLow requests heavily transcoded streams for constrained links.
	QualityLow Quality = "low"
	// QualityMedium requests moderately transcoded streams.
	QualityMedium Quality = "medium"
	// QualityHigh requests lightly transcoded streams.
	QualityHigh Quality = "high"
	// QualityLossless requests the original file without transcoding.
	QualityLossless Quality = "lossless"
)

// MaxBitrate returns the bitrate cap in kbit/s implied by the quality tier.
// Zero means no cap.
func (q Quality) MaxBitrate() int {
	switch q {
	case QualityLow:
		return 96
	case QualityMedium:
		return 192
	case QualityHigh:
		return 320
	default:
		return 0
	}
}

func (q Quality) valid() bool {
	switch q {
	case QualityLow, QualityMedium, QualityHigh, QualityLossless:
		return true
	}
	return false
}

// Server holds connection settings for the streaming server.
type Server struct {
	// URL is the server base URL.
	URL string `mapstructure:"url"`

	// Username is the account name.
	Username string `mapstructure:"username"`

	// PasswordRef is a secret reference resolved at client construction,
	// e.g. "secretref:env:DASHTUNE_PASSWORD". Plaintext values also work
	// but are discouraged.
	PasswordRef string `mapstructure:"password_ref"`
}

// Stream holds playback transport settings.
type Stream struct {
	// Quality is the requested transcoding tier.
	// Default: high
	Quality Quality `mapstructure:"quality"`

	// MaxBitrateKbps caps the stream bitrate. Zero defers to the
	// quality tier's cap.
	MaxBitrateKbps int `mapstructure:"max_bitrate_kbps"`
}

// Browse holds library browsing settings.
type Browse struct {
	// PageSize is the number of items fetched per listing page.
	// Default: 50
	PageSize int `mapstructure:"page_size"`

	// OfflineMode serves only cached content when true.
	OfflineMode bool `mapstructure:"offline_mode"`
}

// Telemetry toggles the observability exporters.
type Telemetry struct {
	// TracesEnabled turns on span export.
	TracesEnabled bool `mapstructure:"traces_enabled"`

	// MetricsEnabled turns on metric export.
	MetricsEnabled bool `mapstructure:"metrics_enabled"`

	// Endpoint is the OTLP collector endpoint, host:port.
	Endpoint string `mapstructure:"endpoint"`
}

// Settings is the full user preference set.
type Settings struct {
	Server    Server    `mapstructure:"server"`
	Stream    Stream    `mapstructure:"stream"`
	Browse    Browse    `mapstructure:"browse"`
	Telemetry Telemetry `mapstructure:"telemetry"`
}

// Default returns the built-in settings used before any file or
// environment override is applied.
func Default() Settings {
	return Settings{
		Stream: Stream{
			Quality: QualityHigh,
		},
		Browse: Browse{
			PageSize: 50,
		},
	}
}

// EffectiveMaxBitrate returns the bitrate cap to request from the server:
// the explicit override when set, otherwise the quality tier's cap.
func (s Settings) EffectiveMaxBitrate() int {
	if s.Stream.MaxBitrateKbps > 0 {
		return s.Stream.MaxBitrateKbps
	}
	return s.Stream.Quality.MaxBitrate()
}

// Validate checks that the settings are complete enough to build a client.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.Server.URL) == "" {
		return ErrMissingServerURL
	}
	if strings.TrimSpace(s.Server.Username) == "" {
		return ErrMissingUsername
	}
	if !s.Stream.Quality.valid() {
		return ErrUnknownQuality
	}
	if s.Stream.MaxBitrateKbps < 0 {
		return ErrInvalidMaxBitrate
	}
	if s.Browse.PageSize < 1 || s.Browse.PageSize > 500 {
		return ErrInvalidPageSize
	}
	return nil
}
