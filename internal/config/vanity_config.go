package config

// VanityConfig defines configuration for generated vanity URLs
type VanityConfig struct {
	Length      int `json:"length,omitempty" yaml:"length,omitempty" validate:"min=3,max=50"`
	MaxAttempts int `json:"max_attempts,omitempty" yaml:"max_attempts,omitempty" validate:"min=1"`
}

// NewDefaultVanityConfig creates default vanity configuration
func NewDefaultVanityConfig() VanityConfig {
	return VanityConfig{
		Length:      DefaultVanityLength,
		MaxAttempts: DefaultVanityMaxAttempts,
	}
}
