// Ininicializing common application configuration
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	App    AppConfig    `mapstructure:"app"`
	FFmpeg FFmpegConfig `mapstructure:"ffmpeg"`
	Kafka  KafkaConfig  `mapstructure:"kafka"`
}

type ServerConfig struct {
	AppVersion   string        `mapstructure:"app_version"`
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Idle_timeout time.Duration `mapstructure:"idle_timeout"`
	Env          string        `mapstructure:"env"`
	Mode         string        `mapstructure:"mode"`
}

type AppConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	UploadDir         string        `mapstructure:"upload_dir"`
	TempDir           string        `mapstructure:"temp_dir"`
	PublicDir         string        `mapstructure:"public_dir"`
	MaxUploadSize     int64         `mapstructure:"max_upload_size"`
	DefaultFPS        int           `mapstructure:"default_fps"`
	DefaultScale      string        `mapstructure:"default_scale"`
	ConversionTimeout time.Duration `mapstructure:"conversion_timeout"`
	Poster            PosterConfig  `mapstructure:"poster"`
}

// PosterConfig controls the optional PNG thumbnail written next to each GIF.
type PosterConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Width   int  `mapstructure:"width"`
	Height  int  `mapstructure:"height"`
}

type FFmpegConfig struct {
	Path string `mapstructure:"path"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	GroupID string   `mapstructure:"group_id"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.timeout", time.Duration(0))
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.env", "development")
	v.SetDefault("server.mode", "debug")

	v.SetDefault("app.upload_dir", "uploads")
	v.SetDefault("app.temp_dir", ".")
	v.SetDefault("app.public_dir", "public")
	v.SetDefault("app.max_upload_size", 512<<20)
	v.SetDefault("app.default_fps", 10)
	v.SetDefault("app.default_scale", "1200:-1")
	v.SetDefault("app.conversion_timeout", time.Duration(0))
	v.SetDefault("app.poster.enabled", false)
	v.SetDefault("app.poster.width", 320)
	v.SetDefault("app.poster.height", 320)

	v.SetDefault("ffmpeg.path", "ffmpeg")

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9094"})
	v.SetDefault("kafka.topic", "gif-conversions")
	v.SetDefault("kafka.group_id", "gif-conversion-events")
}

// LoadConfig reads ./config/config.yaml when present. Every key can be
// overridden from the environment, e.g. SERVER_PORT or APP_BASE_URL.
func LoadConfig() (*viper.Viper, error) {
	return loadConfig("./config")
}

func loadConfig(paths ...string) (*viper.Viper, error) {

	viperInstance := viper.New()
	setDefaults(viperInstance)

	for _, p := range paths {
		viperInstance.AddConfigPath(p)
	}
	viperInstance.SetConfigName("config")
	viperInstance.SetConfigType("yaml")

	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperInstance.AutomaticEnv()

	err := viperInstance.ReadInConfig()

	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return nil, err
	}
	return viperInstance, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {

	var c Config

	err := v.Unmarshal(&c)
	if err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if c.App.DefaultFPS <= 0 {
		return nil, fmt.Errorf("app.default_fps must be positive, got %d", c.App.DefaultFPS)
	}
	if c.App.DefaultScale == "" {
		return nil, errors.New("app.default_scale must not be empty")
	}
	if err := checkTimeouts(c); err != nil {
		return nil, err
	}
	if c.App.BaseURL == "" {
		c.App.BaseURL = fmt.Sprintf("http://%s:%s", c.Server.Host, c.Server.Port)
	}
	c.App.BaseURL = strings.TrimRight(c.App.BaseURL, "/")

	return &c, nil
}

// writeTimeoutHeadroom is the time a response needs after the encoder exits.
const writeTimeoutHeadroom = 30 * time.Second

// checkTimeouts keeps the server write deadline from cutting off a running
// conversion: server.timeout is either 0 or covers app.conversion_timeout
// plus writeTimeoutHeadroom.
func checkTimeouts(c Config) error {
	if c.Server.Timeout <= 0 {
		return nil
	}
	if c.App.ConversionTimeout <= 0 {
		return fmt.Errorf("server.timeout %s would cut off conversions that have no deadline; set it to 0 or set app.conversion_timeout", c.Server.Timeout)
	}
	if floor := c.App.ConversionTimeout + writeTimeoutHeadroom; c.Server.Timeout < floor {
		return fmt.Errorf("server.timeout %s must be at least app.conversion_timeout + %s (%s)", c.Server.Timeout, writeTimeoutHeadroom, floor)
	}
	return nil
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
