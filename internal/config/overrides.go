package config

import "time"

// RuntimeOverrides holds configuration values that can be overridden at runtime
// via CLI flags or other means
type RuntimeOverrides struct {
	Provider    *string
	Model       *string
	Endpoint    *string
	Temperature *float64
	MaxTokens   *int
	Timeout     *time.Duration
	LogLevel    *string
	LogFile     *string
}

func (o *RuntimeOverrides) apply(cfg *ConfigSchema) {
	if o == nil {
		return
	}
	if o.Provider != nil {
		cfg.Model.Provider = *o.Provider
	}
	if o.Model != nil {
		cfg.Model.Name = *o.Model
	}
	if o.Endpoint != nil {
		cfg.Model.Endpoint = *o.Endpoint
	}
	if o.Temperature != nil {
		cfg.Model.Temperature = o.Temperature
	}
	if o.MaxTokens != nil {
		cfg.Model.MaxTokens = o.MaxTokens
	}
	if o.Timeout != nil {
		cfg.Model.Timeout = *o.Timeout
	}
	if o.LogLevel != nil {
		cfg.Log.Level = *o.LogLevel
	}
	if o.LogFile != nil {
		cfg.Log.File = *o.LogFile
	}
}
