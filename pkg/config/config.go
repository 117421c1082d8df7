package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Drivers de almacenamiento soportados.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreMySQL    = "mysql"
)

// Drivers de notificación soportados.
const (
	NotifyLog     = "log"
	NotifyEmailJS = "emailjs"
	NotifySMTP    = "smtp"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App    AppConfig
	HTTP   HTTPConfig
	JWT    JWTConfig
	Admin  AdminConfig
	Store  StoreConfig
	DB     DBConfig
	Redis  RedisConfig
	MySQL  MySQLConfig
	Notify NotifyConfig
	Kafka  KafkaConfig
	Mongo  MongoConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	SwaggerFile string // vacío = sin /docs
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// AdminConfig la única cuenta privilegiada del sistema.
type AdminConfig struct {
	Username string
	Password string
	Name     string
	Email    string
}

// StoreConfig selecciona el adaptador del CollectionStore.
type StoreConfig struct {
	Driver string // memory, postgres, redis, mysql
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// RedisConfig conexión a Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MySQLConfig conexión a MySQL.
type MySQLConfig struct {
	DSN          string
	PollInterval time.Duration
}

// NotifyConfig canal lateral de notificaciones.
type NotifyConfig struct {
	Driver        string // log, emailjs, smtp
	AdminEmail    string
	AdminName     string
	SweepInterval time.Duration
	Workers       int
	QueueSize     int
	Timeout       time.Duration
	AdvisoryLimit int
	EmailJS       EmailJSConfig
	SMTP          SMTPConfig
}

// EmailJSConfig credenciales del relay HTTP de correo.
type EmailJSConfig struct {
	Endpoint            string
	ServiceID           string
	PublicKey           string
	PrivateKey          string
	LowStockTemplate    string
	AppointmentTemplate string
	CancelTemplate      string
}

// SMTPConfig servidor SMTP para el notificador por correo directo.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// KafkaConfig publicación de eventos de notificación. Sin brokers no se publica.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// MongoConfig archivo de bitácora. URI vacío = sin archivo.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, STORE_DRIVER, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.MergeInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "warehouse-inventory"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", 8080),
			SwaggerFile: getString(v, "HTTP_SWAGGER_FILE", "./docs/swagger.json"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 480),
			Issuer:     getString(v, "JWT_ISSUER", "warehouse-inventory"),
		},
		Admin: AdminConfig{
			Username: getString(v, "ADMIN_USERNAME", "admin"),
			Password: getString(v, "ADMIN_PASSWORD", ""),
			Name:     getString(v, "ADMIN_NAME", "Administrator"),
			Email:    getString(v, "ADMIN_EMAIL", ""),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getString(v, "STORE_DRIVER", StoreMemory)),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "warehouse_inventory"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 10),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", "localhost:6379"),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		MySQL: MySQLConfig{
			DSN:          getString(v, "MYSQL_DSN", ""),
			PollInterval: getDuration(v, "MYSQL_POLL_INTERVAL", time.Second),
		},
		Notify: NotifyConfig{
			Driver:        strings.ToLower(getString(v, "NOTIFY_DRIVER", NotifyLog)),
			AdminEmail:    getString(v, "NOTIFY_ADMIN_EMAIL", ""),
			AdminName:     getString(v, "NOTIFY_ADMIN_NAME", "Admin"),
			SweepInterval: getDuration(v, "LOW_STOCK_SWEEP_INTERVAL", 30*time.Second),
			Workers:       getInt(v, "NOTIFY_WORKERS", 2),
			QueueSize:     getInt(v, "NOTIFY_QUEUE_SIZE", 100),
			Timeout:       getDuration(v, "NOTIFY_TIMEOUT", 15*time.Second),
			AdvisoryLimit: getInt(v, "NOTIFY_ADVISORY_LIMIT", 200),
			EmailJS: EmailJSConfig{
				Endpoint:            getString(v, "EMAILJS_ENDPOINT", "https://api.emailjs.com/api/v1.0/email/send"),
				ServiceID:           getString(v, "EMAILJS_SERVICE_ID", ""),
				PublicKey:           getString(v, "EMAILJS_PUBLIC_KEY", ""),
				PrivateKey:          getString(v, "EMAILJS_PRIVATE_KEY", ""),
				LowStockTemplate:    getString(v, "EMAILJS_LOW_STOCK_TEMPLATE", ""),
				AppointmentTemplate: getString(v, "EMAILJS_APPOINTMENT_TEMPLATE", ""),
				CancelTemplate:      getString(v, "EMAILJS_CANCEL_TEMPLATE", ""),
			},
			SMTP: SMTPConfig{
				Host:     getString(v, "SMTP_HOST", ""),
				Port:     getInt(v, "SMTP_PORT", 587),
				Username: getString(v, "SMTP_USERNAME", ""),
				Password: getString(v, "SMTP_PASSWORD", ""),
				From:     getString(v, "SMTP_FROM", ""),
			},
		},
		Kafka: KafkaConfig{
			Brokers: getStringSlice(v, "KAFKA_BROKERS"),
			Topic:   getString(v, "KAFKA_TOPIC", "warehouse.notifications"),
		},
		Mongo: MongoConfig{
			URI:        getString(v, "MONGO_URI", ""),
			Database:   getString(v, "MONGO_DATABASE", "warehouse_inventory"),
			Collection: getString(v, "MONGO_COLLECTION", "activity_logs"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case StoreMemory, StorePostgres, StoreRedis, StoreMySQL:
	default:
		return fmt.Errorf("config: STORE_DRIVER desconocido %q", c.Store.Driver)
	}
	switch c.Notify.Driver {
	case NotifyLog, NotifyEmailJS, NotifySMTP:
	default:
		return fmt.Errorf("config: NOTIFY_DRIVER desconocido %q", c.Notify.Driver)
	}
	if c.Store.Driver == StoreMySQL && c.MySQL.DSN == "" {
		return fmt.Errorf("config: MYSQL_DSN requerido con STORE_DRIVER=mysql")
	}
	if c.App.Env == "production" && (c.JWT.Secret == "" || c.Admin.Password == "") {
		return fmt.Errorf("config: JWT_SECRET y ADMIN_PASSWORD son obligatorios en producción")
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

// getDuration acepta "30s", "1m" o un entero en segundos.
func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if !v.IsSet(key) {
		return def
	}
	s := v.GetString(key)
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

// getStringSlice separa una lista por comas; vacío devuelve nil.
func getStringSlice(v *viper.Viper, key string) []string {
	raw := strings.TrimSpace(getString(v, key, ""))
	if raw == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
