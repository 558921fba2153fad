package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Agenda   AgendaConfig
	Catalog  CatalogConfig
	External ExternalConfig
	Medicos  MedicosConfig
	CORS     CORSConfig
	Redis    RedisConfig
	OTEL     OTELConfig
}

// AppConfig holds process-wide settings
type AppConfig struct {
	Name        string
	Version     string
	Environment string
	LogLevel    string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds Oracle connection and pool settings
type DatabaseConfig struct {
	User            string
	Password        string
	ConnectString   string
	PoolMin         int
	PoolMax         int
	PoolIncrement   int
	PoolTimeout     time.Duration
	EnsureSchema    bool
	AgendasSequence string
}

// AgendaConfig holds slot validation settings
type AgendaConfig struct {
	WorkdayStart          string
	WorkdayEnd            string
	ConflictCheckFailOpen bool
}

// CatalogConfig holds the EDITOR_CUSTOM schema settings
type CatalogConfig struct {
	Schema             string
	AgndAgendaSequence string
	CacheTTLSeconds    int
}

// ExternalConfig holds the remote provider API settings
type ExternalConfig struct {
	BaseURL            string
	MedicosPath        string
	EspecialidadesPath string
	AuthURL            string
	RefreshURL         string
	Username           string
	Password           string
	Timeout            time.Duration
	ProxyRateLimit     int
}

// MedicosConfig selects where provider data is read from
type MedicosConfig struct {
	Source string
}

// CORSConfig holds cross-origin settings
type CORSConfig struct {
	AllowAll       bool
	AllowedOrigins []string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

const (
	MedicosSourceExternal = "external"
	MedicosSourceDatabase = "database"
)

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	return &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "API de Agendas Médicas"),
			Version:     getEnv("API_VERSION", "1.0.0"),
			Environment: getEnv("NODE_ENV", "development"),
			LogLevel:    strings.ToUpper(getEnv("LOG_LEVEL", "INFO")),
		},
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("PORT", 3001),
		},
		Database: DatabaseConfig{
			User:            os.Getenv("DB_USER"),
			Password:        os.Getenv("DB_PASSWORD"),
			ConnectString:   os.Getenv("DB_CONNECT_STRING"),
			PoolMin:         getEnvAsInt("DB_POOL_MIN", 2),
			PoolMax:         getEnvAsInt("DB_POOL_MAX", 10),
			PoolIncrement:   getEnvAsInt("DB_POOL_INCREMENT", 1),
			PoolTimeout:     time.Duration(getEnvAsInt("DB_POOL_TIMEOUT", 300)) * time.Second,
			EnsureSchema:    getEnvAsBool("DB_ENSURE_SCHEMA", false),
			AgendasSequence: getEnv("AGENDAS_SEQUENCE", "SEQ_AGENDAS"),
		},
		Agenda: AgendaConfig{
			WorkdayStart:          getEnv("AGENDA_WORKDAY_START", "08:00"),
			WorkdayEnd:            getEnv("AGENDA_WORKDAY_END", "18:00"),
			ConflictCheckFailOpen: getEnvAsBool("AGENDA_CONFLICT_FAIL_OPEN", false),
		},
		Catalog: CatalogConfig{
			Schema:             getEnv("EDITOR_CUSTOM_SCHEMA", "EDITOR_CUSTOM"),
			AgndAgendaSequence: getEnv("AGND_AGENDA_SEQUENCE", "SEQ_AGND_AGENDA"),
			CacheTTLSeconds:    getEnvAsInt("CATALOG_CACHE_TTL_SECONDS", 600),
		},
		External: ExternalConfig{
			BaseURL:            getEnv("EXTERNAL_API_BASE_URL", "http://10.129.180.161:36560/api3/v1"),
			MedicosPath:        getEnv("EXTERNAL_MEDICOS_ENDPOINT", "/medico"),
			EspecialidadesPath: getEnv("EXTERNAL_ESPECIALIDADES_ENDPOINT", "/especialidades/agenda"),
			AuthURL:            os.Getenv("EXTERNAL_AUTH_URL"),
			RefreshURL:         os.Getenv("EXTERNAL_AUTH_REFRESH_URL"),
			Username:           os.Getenv("EXTERNAL_AUTH_USERNAME"),
			Password:           os.Getenv("EXTERNAL_AUTH_PASSWORD"),
			Timeout:            time.Duration(getEnvAsInt("EXTERNAL_API_TIMEOUT_SECONDS", 15)) * time.Second,
			ProxyRateLimit:     getEnvAsInt("EXTERNAL_PROXY_RATE_LIMIT", 30),
		},
		Medicos: MedicosConfig{
			Source: strings.ToLower(getEnv("MEDICOS_SOURCE", MedicosSourceExternal)),
		},
		CORS: CORSConfig{
			AllowAll:       getEnvAsBool("CORS_ALLOW_ALL", true),
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "agendas-medicas"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}, nil
}

// Validate reports missing mandatory settings.
func (c *Config) Validate() error {
	var missing []string
	if c.Database.User == "" {
		missing = append(missing, "user")
	}
	if c.Database.Password == "" {
		missing = append(missing, "password")
	}
	if c.Database.ConnectString == "" {
		missing = append(missing, "connectString")
	}
	if len(missing) > 0 {
		return fmt.Errorf("Configuración de BD incompleta. Faltan: %s", strings.Join(missing, ", "))
	}

	switch c.Medicos.Source {
	case MedicosSourceExternal, MedicosSourceDatabase:
	default:
		return fmt.Errorf("MEDICOS_SOURCE inválido: %q", c.Medicos.Source)
	}
	return nil
}

// IsProduction reports whether NODE_ENV is production
func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

// IsDevelopment reports whether the service runs outside production
func (c *AppConfig) IsDevelopment() bool {
	return !c.IsProduction()
}

// Addr returns the listen address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
