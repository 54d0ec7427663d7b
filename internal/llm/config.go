// Package llm provides the generation gateway: a prompt goes in, generated text comes out.
package llm

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-1.5-pro"

// Config holds the generation settings for the Gemini client.
type Config struct {
	Model string
	// Temperature is left to the backend default when nil.
	Temperature *float32
}

// DefaultConfig returns the default Gemini configuration.
func DefaultConfig() Config {
	return Config{Model: DefaultModel}
}

// WithTemperature returns a copy of c using the given sampling temperature.
func (c Config) WithTemperature(t float32) Config {
	c.Temperature = &t
	return c
}
