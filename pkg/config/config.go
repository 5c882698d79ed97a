package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	DB        DBConfig
	JWT       JWTConfig
	HTTP      HTTPConfig
	AFIP      AFIPConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	SMTP      SMTPConfig
	RateLimit RateLimitConfig
	Firestore FirestoreConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
	Timezone string // zona horaria del negocio para "hoy" (caja diaria, arqueo)
}

// Location devuelve la zona horaria configurada; si no es válida usa America/Argentina/Buenos_Aires
// y, como último recurso, UTC.
func (c AppConfig) Location() *time.Location {
	if loc, err := time.LoadLocation(c.Timezone); err == nil {
		return loc
	}
	if loc, err := time.LoadLocation("America/Argentina/Buenos_Aires"); err == nil {
		return loc
	}
	return time.UTC
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo (ej. DATABASE_URL de Supabase).
type DBConfig struct {
	DatabaseURL    string
	Host           string
	Port           int
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MigrateOnStart bool
	MaxConns       int32
	MinConns       int32
	ForceIPv4      bool // Supabase/Docker sin IPv6
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

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	SwaggerFile string
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AFIPConfig configuración de facturación electrónica AFIP (WSAA + WSFEv1).
type AFIPConfig struct {
	CUIT         string // CUIT del emisor, sin guiones
	PuntoVenta   int
	Environment  string // homologacion | produccion
	CertPath     string // .crt/.pem o .p12; vacío = CAE simulado (modo dev)
	KeyPath      string // llave privada PEM si CertPath es solo el certificado
	CertPassword string // contraseña del .p12
	RazonSocial  string
	Domicilio    string
	CondicionIVA string // "Responsable Inscripto", "Monotributo"
	TimeoutSec   int
	RetryMax     int
}

// Enabled indica si hay certificado configurado; sin él las facturas se simulan.
func (c AFIPConfig) Enabled() bool {
	return c.CertPath != "" && c.CUIT != ""
}

// RedisConfig conexión a Redis (cache del ticket de acceso WSAA).
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Enabled indica si Redis está configurado.
func (c RedisConfig) Enabled() bool { return c.Host != "" }

// Addr devuelve host:port.
func (c RedisConfig) Addr() string { return c.Host + ":" + c.Port }

// KafkaConfig publicación de eventos de dominio.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// SMTPConfig envío de facturas por email.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Enabled indica si el envío de emails está configurado.
func (c SMTPConfig) Enabled() bool { return c.Host != "" }

// RateLimitConfig límite de intentos de login (formato ulule: "10-M", "100-H").
type RateLimitConfig struct {
	Login string
}

// FirestoreConfig origen de turnos heredados de Firebase.
type FirestoreConfig struct {
	ProjectID       string
	CredentialsFile string
	Collection      string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, DB_PORT, JWT_SECRET, AFIP_CUIT, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.MergeInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "motorepuestos-fl"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
			Timezone: getString(v, "APP_TIMEZONE", "America/Argentina/Buenos_Aires"),
		},
		DB: DBConfig{
			DatabaseURL:    getString(v, "DATABASE_URL", ""),
			Host:           getString(v, "DB_HOST", "localhost"),
			Port:           getInt(v, "DB_PORT", 5432),
			User:           getString(v, "DB_USER", "postgres"),
			Password:       getString(v, "DB_PASSWORD", ""),
			DBName:         getString(v, "DB_NAME", "motorepuestos"),
			SSLMode:        getString(v, "DB_SSLMODE", "disable"),
			MigrateOnStart: getBool(v, "DB_MIGRATE_ON_START", true),
			MaxConns:       int32(getInt(v, "DB_MAX_CONNS", 15)),
			MinConns:       int32(getInt(v, "DB_MIN_CONNS", 1)),
			ForceIPv4:      getBool(v, "DB_FORCE_IPV4", false),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 720),
			Issuer:     getString(v, "JWT_ISSUER", "motorepuestos-fl"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", 8080),
			SwaggerFile: getString(v, "HTTP_SWAGGER_FILE", "./docs/swagger.json"),
		},
		AFIP: AFIPConfig{
			CUIT:         getString(v, "AFIP_CUIT", ""),
			PuntoVenta:   getInt(v, "AFIP_PUNTO_VENTA", 1),
			Environment:  getString(v, "AFIP_ENVIRONMENT", "homologacion"),
			CertPath:     getString(v, "AFIP_CERT_PATH", ""),
			KeyPath:      getString(v, "AFIP_KEY_PATH", ""),
			CertPassword: getString(v, "AFIP_CERT_PASSWORD", ""),
			RazonSocial:  getString(v, "AFIP_RAZON_SOCIAL", "Motorepuestos F.L."),
			Domicilio:    getString(v, "AFIP_DOMICILIO", ""),
			CondicionIVA: getString(v, "AFIP_CONDICION_IVA", "Responsable Inscripto"),
			TimeoutSec:   getInt(v, "AFIP_TIMEOUT_SECONDS", 30),
			RetryMax:     getInt(v, "AFIP_RETRY_MAX", 3),
		},
		Redis: RedisConfig{
			Host:     getString(v, "REDIS_HOST", ""),
			Port:     getString(v, "REDIS_PORT", "6379"),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers: getList(v, "KAFKA_BROKERS"),
			Topic:   getString(v, "KAFKA_TOPIC", "motorepuestos.events"),
		},
		SMTP: SMTPConfig{
			Host:     getString(v, "SMTP_HOST", ""),
			Port:     getInt(v, "SMTP_PORT", 587),
			User:     getString(v, "SMTP_USER", ""),
			Password: getString(v, "SMTP_PASSWORD", ""),
			From:     getString(v, "SMTP_FROM", "facturacion@motorepuestos.local"),
		},
		RateLimit: RateLimitConfig{
			Login: getString(v, "RATE_LIMIT_LOGIN", "10-M"),
		},
		Firestore: FirestoreConfig{
			ProjectID:       getString(v, "FIRESTORE_PROJECT_ID", ""),
			CredentialsFile: getString(v, "GOOGLE_APPLICATION_CREDENTIALS", ""),
			Collection:      getString(v, "FIRESTORE_SHIFTS_COLLECTION", "shifts"),
		},
	}

	if cfg.App.Env == "production" && cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET es obligatorio en producción")
	}
	return cfg, nil
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
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
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

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

// getList acepta valores separados por coma ("host1:9092,host2:9092").
func getList(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}
	var out []string
	for _, s := range strings.Split(v.GetString(key), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
