package config

import (
	"strings"

	"github.com/abgdnv/productapi/pkg/config"
	"github.com/abgdnv/productapi/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	HTTPServer config.HTTPConfig       `koanf:"server"`
	Auth       config.AuthConfig       `koanf:"auth"`
	Log        config.LogConfig        `koanf:"log"`
	Ops        config.OpsConfig        `koanf:"ops"`
	GRPC       config.GrpcServerConfig `koanf:"grpc"`
	Events     config.EventsConfig     `koanf:"events"`
	Telemetry  config.TelemetryConfig  `koanf:"telemetry"`
	Shutdown   config.ShutdownConfig   `koanf:"shutdown"`
}

// Defaults returns the values used when neither config.yaml nor the environment set a key.
func Defaults() map[string]any {
	return map[string]any{
		"server.port":               3000,
		"server.maxHeaderBytes":     1 << 20,
		"server.timeout.read":       "10s",
		"server.timeout.write":      "10s",
		"server.timeout.idle":       "60s",
		"server.timeout.readHeader": "5s",

		"auth.mode":             config.AuthModeStatic,
		"auth.token":            "mysecrettoken123",
		"auth.publicpaths":      []string{"/"},
		"auth.idp.mininterval":  "5m",
		"log.level":             "info",
		"ops.enabled":           false,
		"ops.addr":              ":6060",
		"grpc.enabled":          false,
		"grpc.port":             "50051",
		"grpc.reflection":       false,
		"events.enabled":        false,
		"events.stream":         "PRODUCTS",
		"events.nats.url":       "nats://localhost:4222",
		"events.nats.timeout":   "5s",
		"events.nats.clientname": "product-api",
		"telemetry.enabled":     false,
		"shutdown.timeout":      "15s",

		"events.circuitbreaker.consecutivefailures": 5,
		"events.circuitbreaker.errorratepercent":    60,
		"events.circuitbreaker.opentimeout":         "30s",
		"telemetry.traces.otlphttp.timeout":         "5s",
	}
}

func (c *Config) String() string {
	var b strings.Builder

	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.Auth.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.Ops.String())
	b.WriteString(c.GRPC.String())
	b.WriteString(c.Events.String())
	b.WriteString(c.Telemetry.String())
	b.WriteString(c.Shutdown.String())

	return b.String()
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	validators := []configloader.Validator{
		&c.HTTPServer,
		&c.Auth,
		&c.Log,
		&c.Ops,
		&c.GRPC,
		&c.Events,
		&c.Telemetry,
		&c.Shutdown,
	}
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}
