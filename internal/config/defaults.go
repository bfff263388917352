package config

import (
	"net/http"
	"time"
)

const (
	FormatJSON = "json"
	FormatText = "text"

	TracingDisabled = "disabled"
	TracingStdout   = "stdout"
	TracingOTLP     = "otlp"
)

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            "0.0.0.0:3000",
			ShutdownTimeout: Duration(5 * time.Second),
			CORS: CORSConfig{
				Enabled:          true,
				AllowOrigins:     []string{"http://localhost:4200"},
				AllowCredentials: true,
				AllowMethods: []string{
					http.MethodGet,
					http.MethodPost,
					http.MethodPut,
					http.MethodDelete,
					http.MethodOptions,
				},
				AllowHeaders: []string{"Accept", "Content-Type", "Authorization", "X-Request-Id"},
				MaxAge:       Duration(5 * time.Minute),
			},
		},
		Masking: MaskingConfig{
			StripPassthroughDetails: false,
		},
		Diagnostics: DiagnosticsConfig{
			QueueSize:    1024,
			Format:       FormatJSON,
			MaxAge:       Duration(7 * 24 * time.Hour),
			RotationTime: Duration(24 * time.Hour),
		},
		Observability: ObservabilityConfig{
			RequestLogging:  true,
			ResponseLogging: true,
			Tracing:         TracingDisabled,
			SampleRatio:     1,
		},
	}
}
