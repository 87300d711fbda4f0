package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode     string `mapstructure:"mode"`
	Dotenv   string `mapstructure:"dotenv"`
	Handlers struct {
		ExternalAPI struct {
			Port string `mapstructure:"port"`
		} `mapstructure:"externalAPI"`
		Prometheus struct {
			Port string `mapstructure:"port"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Repositories struct {
		Postgres struct {
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort       string        `mapstructure:"HTTPPort"`
		Timeout        time.Duration `mapstructure:"HTTPTimeout"`
		AllowedOrigins []string      `mapstructure:"allowedOrigins"`
	} `mapstructure:"server"`
	JWT    JWTConfig    `mapstructure:"jwt"`
	Places PlacesConfig `mapstructure:"places"`
	Engine EngineConfig `mapstructure:"engine"`
}

type JWTConfig struct {
	SecretKey string `mapstructure:"secretKey"`
	Issuer    string `mapstructure:"issuer"`
	Audience  string `mapstructure:"audience"`
}

type PlacesConfig struct {
	RadiusMeters float64       `mapstructure:"radiusMeters"`
	MaxResults   int           `mapstructure:"maxResults"`
	Timeout      time.Duration `mapstructure:"timeout"`
	CacheTTL     time.Duration `mapstructure:"cacheTTL"`
	GeminiModel  string        `mapstructure:"geminiModel"`
	GeminiAPIKey string        `mapstructure:"geminiAPIKey"`
}

type EngineConfig struct {
	MinBufferMinutes  int     `mapstructure:"minBufferMinutes"`
	MaxActivities     int     `mapstructure:"maxActivities"`
	HighCostThreshold float64 `mapstructure:"highCostThreshold"`
	HealthyThreshold  int     `mapstructure:"healthyThreshold"`
	MaxFixPasses      int     `mapstructure:"maxFixPasses"`
	Penalties         struct {
		Critical   int `mapstructure:"critical"`
		Suggestion int `mapstructure:"suggestion"`
		Conflict   int `mapstructure:"conflict"`
		Coverage   int `mapstructure:"coverage"`
		Budget     int `mapstructure:"budget"`
		Overload   int `mapstructure:"overload"`
		Energy     int `mapstructure:"energy"`
	} `mapstructure:"penalties"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// ITINERARY_JWT_SECRETKEY overrides jwt.secretKey, and so on.
	v.SetEnvPrefix("itinerary")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return config, nil
}
