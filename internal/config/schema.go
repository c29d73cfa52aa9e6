package config

import "time"

type Model struct {
	Provider    string        `mapstructure:"provider" json:"provider" validate:"required,oneof=ollama langchain openai" jsonschema:"enum=ollama,enum=langchain,enum=openai,default=ollama,description=Which client talks to the endpoint"`
	Name        string        `mapstructure:"name" json:"name" validate:"required" jsonschema:"default=llama3,description=Model name sent with every request"`
	Endpoint    string        `mapstructure:"endpoint" json:"endpoint" validate:"required,url" jsonschema:"default=http://localhost:11434/api/chat,description=Chat completion URL"`
	Temperature *float64      `mapstructure:"temperature" json:"temperature,omitempty" validate:"omitnil,gte=0,lte=2" jsonschema:"description=Sampling temperature"`
	MaxTokens   *int          `mapstructure:"maxTokens" json:"maxTokens,omitempty" validate:"omitnil,gt=0" jsonschema:"description=Upper bound on generated tokens"`
	Timeout     time.Duration `mapstructure:"timeout" json:"timeout,omitempty" validate:"gte=0" jsonschema:"type=string,description=HTTP timeout such as 90s (0 disables)"`
	APIKey      string        `mapstructure:"apiKey" json:"apiKey,omitempty" jsonschema:"description=Credential for endpoints that need one"`
}

type Log struct {
	Level string `mapstructure:"level" json:"level,omitempty" validate:"omitempty,oneof=DEBUG INFO WARN ERROR" jsonschema:"enum=DEBUG,enum=INFO,enum=WARN,enum=ERROR,default=WARN"`
	File  string `mapstructure:"file" json:"file,omitempty" jsonschema:"description=Log file path (defaults to stderr)"`
}

type ConfigSchema struct {
	Model     Model             `mapstructure:"model" json:"model"`
	Log       Log               `mapstructure:"log" json:"log"`
	Templates []string          `mapstructure:"templates" json:"templates,omitempty" jsonschema:"description=Templates appended after the built-in ones"`
	Variables map[string]string `mapstructure:"variables" json:"variables,omitempty" jsonschema:"description=Initial template variables"`

	// Internal fields for printing
	settings map[string]interface{}
	sources  map[string][]configSource
}
