package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Остальные секции конфига читаем через envconfig — структур много,
// руками как с БД уже неудобно.

type HTTPConfig struct {
	Addr            string        `envconfig:"HTTP_ADDR" default:":8080"`
	ShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
}

// Настройки регионов кэша. Комнаты и пользователи живут дольше и их мало;
// слоты/доступность/брони меняются чаще — TTL короче, ёмкость больше.
type CacheConfig struct {
	RoomTTL        time.Duration `envconfig:"CACHE_ROOM_TTL" default:"20m"`
	RoomMax        int           `envconfig:"CACHE_ROOM_MAX" default:"64"`
	SlotTTL        time.Duration `envconfig:"CACHE_SLOT_TTL" default:"7m"`
	SlotMax        int           `envconfig:"CACHE_SLOT_MAX" default:"512"`
	ReservationTTL time.Duration `envconfig:"CACHE_RESERVATION_TTL" default:"7m"`
	ReservationMax int           `envconfig:"CACHE_RESERVATION_MAX" default:"512"`
}

type PaymentConfig struct {
	OmisePublicKey string        `envconfig:"OMISE_PUBLIC_KEY"`
	OmiseSecretKey string        `envconfig:"OMISE_SECRET_KEY"`
	Currency       string        `envconfig:"PAYMENT_CURRENCY" default:"usd"`
	RetryBase      time.Duration `envconfig:"PAYMENT_RETRY_BASE" default:"1s"`
	RetryCap       time.Duration `envconfig:"PAYMENT_RETRY_CAP" default:"30s"`
	RetryAttempts  int           `envconfig:"PAYMENT_RETRY_ATTEMPTS" default:"5"`
}

type AMQPConfig struct {
	URL      string `envconfig:"AMQP_URL"`
	Exchange string `envconfig:"AMQP_EXCHANGE" default:"roombook.events"`
}

type AuthConfig struct {
	JWTSecret string `envconfig:"JWT_SECRET" default:"dev-secret"`
}

type AppConfig struct {
	HTTP    HTTPConfig
	Cache   CacheConfig
	Payment PaymentConfig
	AMQP    AMQPConfig
	Auth    AuthConfig
}

func LoadAppConfig() (*AppConfig, error) {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
