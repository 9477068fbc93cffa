package config

import (
	"time"
)

type DB struct {
	Url             string        `envconfig:"URL"`
	Driver          string        `envconfig:"DRIVER" default:"postgres"`
	MaxOpenConns    int           `envconfig:"MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"MAX_IDLE_CONNS" default:"25"`
	ConnMaxLifetime time.Duration `envconfig:"CONN_MAX_LIFETIME" default:"1h"`
	// Migrate applies the embedded SQL migrations on startup (postgres).
	Migrate bool `envconfig:"MIGRATE" default:"false"`
	// AutoMigrate lets GORM create the schema from the models (sqlite, dev).
	AutoMigrate bool `envconfig:"AUTO_MIGRATE" default:"false"`
}

type Jwt struct {
	Secret string        `envconfig:"SECRET" required:"true"`
	Expiry time.Duration `envconfig:"EXPIRY" default:"24h"`
}

type Auth struct {
	Jwt *Jwt `envconfig:"JWT"`
	// PasswordCost is the bcrypt cost for user, account and card secrets.
	PasswordCost int `envconfig:"PASSWORD_COST" default:"14"`
}

type Redis struct {
	URL          string        `envconfig:"URL" default:"redis://localhost:6379/0"`
	KeyPrefix    string        `envconfig:"KEY_PREFIX" default:"backoffice:"`
	PoolSize     int           `envconfig:"POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s"`
}

type Kafka struct {
	Brokers      []string      `envconfig:"BROKERS" default:"localhost:9092"`
	Topic        string        `envconfig:"TOPIC" default:"backoffice.notifications"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"5s"`
}

type Notification struct {
	// Driver selects the transport: memory, redis or kafka.
	Driver string `envconfig:"DRIVER" default:"memory"`
	Stream string `envconfig:"STREAM" default:"notifications"`
	MaxLen int64  `envconfig:"MAX_LEN" default:"10000"`
	Kafka  *Kafka `envconfig:"KAFKA"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

type ExchangeRateApi struct {
	ApiKey       string        `envconfig:"API_KEY"`
	ApiUrl       string        `envconfig:"API_URL" default:"https://v6.exchangerate-api.com/v6"`
	HTTPTimeout  time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
	BaseCurrency string        `envconfig:"BASE_CURRENCY" default:"EUR"`
}

type ExchangeRateCache struct {
	// Driver selects the cache: memory or redis.
	Driver string        `envconfig:"DRIVER" default:"memory"`
	TTL    time.Duration `envconfig:"TTL" default:"15m"`
	Prefix string        `envconfig:"CACHE_PREFIX" default:"exr:rate:"`
}

type Storage struct {
	// Driver selects the backend: local or s3.
	Driver       string `envconfig:"DRIVER" default:"local"`
	Dir          string `envconfig:"DIR" default:"./uploads"`
	PublicURL    string `envconfig:"PUBLIC_URL" default:"/uploads"`
	Bucket       string `envconfig:"BUCKET"`
	Region       string `envconfig:"REGION" default:"eu-west-1"`
	Endpoint     string `envconfig:"ENDPOINT"`
	UsePathStyle bool   `envconfig:"USE_PATH_STYLE" default:"false"`
	MaxSize      int64  `envconfig:"MAX_SIZE" default:"5242880"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"json"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[backoffice]"`
}

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT" default:"3000"`
}

type App struct {
	Env               string             `envconfig:"APP_ENV" default:"development"`
	Server            *Server            `envconfig:"SERVER"`
	Log               *Log               `envconfig:"LOG"`
	DB                *DB                `envconfig:"DATABASE"`
	Auth              *Auth              `envconfig:"AUTH"`
	Redis             *Redis             `envconfig:"REDIS"`
	RateLimit         *RateLimit         `envconfig:"RATE_LIMIT"`
	Notification      *Notification      `envconfig:"NOTIFICATION"`
	ExchangeRateApi   *ExchangeRateApi   `envconfig:"EXCHANGE_RATE"`
	ExchangeRateCache *ExchangeRateCache `envconfig:"EXCHANGE_RATE_CACHE"`
	Storage           *Storage           `envconfig:"STORAGE"`
}
