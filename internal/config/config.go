package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

//go:embed base.yaml
var baseConfig []byte

const envPrefix = "PIZZERIA"

type AppSettings struct {
	Name    string `mapstructure:"name" validate:"required"`
	Version string `mapstructure:"version"`
	Env     string `mapstructure:"env" validate:"required,oneof=development test production"`
}

type CORSSettings struct {
	Origins []string `mapstructure:"origins" validate:"min=1,dive,url"`
	Methods []string `mapstructure:"methods" validate:"min=1,dive,oneof=GET POST PUT DELETE OPTIONS PATCH HEAD"`
	Headers []string `mapstructure:"headers" validate:"min=1,dive,required"`
}

type HTTPSettings struct {
	IP              string        `mapstructure:"ip" validate:"required,ip"`
	Port            string        `mapstructure:"port" validate:"required,numeric"`
	Prefix          string        `mapstructure:"prefix" validate:"required,startswith=/"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout" validate:"gt=0s"`
	CORS            CORSSettings  `mapstructure:"cors" validate:"required"`
}

func (h HTTPSettings) Addr() string {
	return h.IP + ":" + h.Port
}

type StoreSettings struct {
	// memory keeps everything in process; postgres persists through gorm.
	Driver          string        `mapstructure:"driver" validate:"required,oneof=memory postgres"`
	DSN             string        `mapstructure:"dsn" validate:"required_if=Driver postgres"`
	MaxOpenConns    int           `mapstructure:"max-open-conns" validate:"gte=1"`
	MaxIdleConns    int           `mapstructure:"max-idle-conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn-max-lifetime" validate:"gte=0s"`
	AutoMigrate     bool          `mapstructure:"auto-migrate"`
}

type PaymentSettings struct {
	ProcessingDelay time.Duration `mapstructure:"processing-delay" validate:"gte=0s"`
	// 0 seeds from the clock.
	Seed uint64 `mapstructure:"seed"`
}

type CatalogSettings struct {
	SeedDefaultMenu bool `mapstructure:"seed-default-menu"`
}

type NatsSettings struct {
	Enabled       bool   `mapstructure:"enabled"`
	URL           string `mapstructure:"url" validate:"required_if=Enabled true"`
	SubjectPrefix string `mapstructure:"subject-prefix" validate:"required_if=Enabled true"`
}

type OpenTelemetryLogSettings struct {
	TimeoutInSec  int64 `mapstructure:"timeout"`
	IntervalInSec int64 `mapstructure:"interval"`
	MaxQueueSize  int   `mapstructure:"maxqueuesize"`
	BatchSize     int   `mapstructure:"batchsize"`
}

type OpenTelemetryTraceSettings struct {
	TimeoutInSec int64 `mapstructure:"timeout"`
	MaxQueueSize int   `mapstructure:"maxqueuesize"`
	BatchSize    int   `mapstructure:"batchsize"`
	SampleRate   int   `mapstructure:"samplerate" validate:"gte=0,lte=100"`
}

type OpenTelemetryMetricSettings struct {
	IntervalInSec int64 `mapstructure:"interval"`
	TimeoutInSec  int64 `mapstructure:"timeout"`
}

type OpenTelemetrySettings struct {
	Enabled  bool                        `mapstructure:"enabled"`
	Endpoint string                      `mapstructure:"endpoint" validate:"required_if=Enabled true"`
	Metrics  OpenTelemetryMetricSettings `mapstructure:"metrics"`
	Traces   OpenTelemetryTraceSettings  `mapstructure:"traces"`
	Logs     OpenTelemetryLogSettings    `mapstructure:"logs"`
}

type LogSettings struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json text"`
}

type PprofSettings struct {
	Enabled bool `mapstructure:"enabled"`
}

type Settings struct {
	App           AppSettings           `mapstructure:"app" validate:"required"`
	HTTP          HTTPSettings          `mapstructure:"http" validate:"required"`
	Store         StoreSettings         `mapstructure:"store" validate:"required"`
	Payment       PaymentSettings       `mapstructure:"payment"`
	Catalog       CatalogSettings       `mapstructure:"catalog"`
	Nats          NatsSettings          `mapstructure:"nats"`
	OpenTelemetry OpenTelemetrySettings `mapstructure:"opentelemetry"`
	Log           LogSettings           `mapstructure:"log"`
	Pprof         PprofSettings         `mapstructure:"pprof"`
}

// Load reads the embedded defaults, then an optional .env file, then
// PIZZERIA_* environment overrides (e.g. PIZZERIA_STORE_DRIVER).
func Load() (*Settings, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(baseConfig)); err != nil {
		return nil, fmt.Errorf("read base config: %w", err)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", ""))
	v.AutomaticEnv()

	var cfg Settings
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}
