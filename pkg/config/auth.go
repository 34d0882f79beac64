package config

import (
	"fmt"
	"strings"
)

const (
	AuthModeStatic = "static"
	AuthModeJWT    = "jwt"
)

// AuthConfig selects how bearer credentials are verified.
type AuthConfig struct {
	Mode        string   `koanf:"mode"`
	Token       string   `koanf:"token"`
	PublicPaths []string `koanf:"publicpaths"`
	IdP         IdP      `koanf:"idp"`
}

// String returns a string representation of the auth configuration with the token masked.
func (c *AuthConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Auth ---\n")
	b.WriteString(fmt.Sprintf("  mode: %s\n", c.Mode))
	b.WriteString(fmt.Sprintf("  token: %s\n", maskSecret(c.Token)))
	b.WriteString(fmt.Sprintf("  publicpaths: %v\n", c.PublicPaths))
	if c.Mode == AuthModeJWT {
		b.WriteString(c.IdP.String())
	}
	return b.String()
}

func (c *AuthConfig) Validate() error {
	switch c.Mode {
	case AuthModeStatic:
		if strings.TrimSpace(c.Token) == "" {
			return fmt.Errorf("auth token is not configured")
		}
	case AuthModeJWT:
		if err := c.IdP.Validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown auth mode %q", c.Mode)
	}
	for _, p := range c.PublicPaths {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("public path must start with '/': %s", p)
		}
	}
	return nil
}

func maskSecret(s string) string {
	if s == "" {
		return "<not configured>"
	}
	return "****"
}
