package config

import (
	"fmt"
	"os"

	envparser "github.com/caarlos0/env/v11"
)

// Stage is the deployment mode that decides which overlay file is read.
type Stage string

const (
	StageDev        Stage = "dev"
	StageTest       Stage = "test"
	StageProduction Stage = "production"
)

const stageKey = "APP_STAGE"

func (s Stage) IsProduction() bool  { return s == StageProduction }
func (s Stage) IsDevelopment() bool { return s == StageDev }
func (s Stage) IsTesting() bool     { return s == StageTest }

// Environment is a snapshot of key/value process configuration.
type Environment map[string]string

// FromOS copies the current process environment.
func FromOS() Environment {
	return Environment(envparser.ToMap(os.Environ()))
}

// Config stores validated runtime configuration for the service.
type Config struct {
	NodeEnv        string  `env:"NODE_ENV" envDefault:"development" validate:"oneof=development test production"`
	AppStage       Stage   `env:"APP_STAGE" envDefault:"dev" validate:"oneof=dev test production"`
	Port           int     `env:"PORT" envDefault:"3000" validate:"gt=0"`
	DatabaseURL    string  `env:"DATABASE_URL" validate:"required,startswith=mongodb://|startswith=postgresql://"`
	JWTSecret      string  `env:"JWT_SECRET" validate:"omitempty,min=12"`
	JWTExpiresIn   string  `env:"JWT_EXPIRES_IN" envDefault:"7d"`
	BcryptRounds   int     `env:"BCRYPT_ROUNDS" envDefault:"12" validate:"min=10,max=20"`
	LogLevel       string  `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"25" validate:"gte=0"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"50" validate:"gte=1"`
}

func (c Config) IsProd() bool { return c.AppStage.IsProduction() }
func (c Config) IsDev() bool  { return c.AppStage.IsDevelopment() }
func (c Config) IsTest() bool { return c.AppStage.IsTesting() }

// Addr returns the listen address derived from PORT.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Load resolves the stage, applies the stage overlay found in dir and validates
// the result. env is mutated by the first two steps. A failed validation is
// reported as *ValidationError; any other error is unexpected.
func Load(dir string, env Environment) (Config, error) {
	stage := ResolveStage(env)

	if err := LoadOverlay(dir, stage, env); err != nil {
		return Config{}, fmt.Errorf("load %s overlay: %w", stage, err)
	}

	return Validate(env)
}

// ResolveStage defaults APP_STAGE to dev when unset and returns it.
func ResolveStage(env Environment) Stage {
	if env[stageKey] == "" {
		env[stageKey] = string(StageDev)
	}
	return Stage(env[stageKey])
}
