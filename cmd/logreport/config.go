package main

import (
	"github.com/Luiz-Camacho/analyze-logs/internal/accesslog"
	"github.com/Luiz-Camacho/analyze-logs/internal/logsource"
	"github.com/Luiz-Camacho/analyze-logs/internal/model"
)

const (
	defaultMaxLineSize = logsource.DefaultMaxLineSize
	envPrefix          = "LOGREPORT"
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	OutputDir           string `mapstructure:"output-dir"`
	MaxLineSize         int    `mapstructure:"max-line-size"`
	LogFile             string `mapstructure:"log-file"`
	NoBanner            bool   `mapstructure:"no-banner"`
	Grammar             string `mapstructure:"grammar"`
	TopStatusIPs        int    `mapstructure:"top-status-ips"`
	TopEndpointIPs      int    `mapstructure:"top-endpoint-ips"`
	EndpointsPerIP      int    `mapstructure:"endpoints-per-ip"`
	TopSuspiciousIPs    int    `mapstructure:"top-suspicious-ips"`
	PrincipalSuspects   int    `mapstructure:"principal-suspects"`
	EndpointsPerSuspect int    `mapstructure:"endpoints-per-suspect"`
	ConfigPath          string `mapstructure:"-"` // not from config file
}

func (c appConfig) reportLimits() model.ReportLimits {
	return model.ReportLimits{
		TopStatusIPs:        c.TopStatusIPs,
		TopEndpointIPs:      c.TopEndpointIPs,
		EndpointsPerIP:      c.EndpointsPerIP,
		TopSuspiciousIPs:    c.TopSuspiciousIPs,
		PrincipalSuspects:   c.PrincipalSuspects,
		EndpointsPerSuspect: c.EndpointsPerSuspect,
	}
}

// lineParser compiles the configured grammar, or returns the combined-log
// parser when none is set.
func (c appConfig) lineParser() (*accesslog.Parser, error) {
	if c.Grammar == "" {
		return accesslog.DefaultParser(), nil
	}
	return accesslog.NewParser(c.Grammar)
}
