package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config contiene toda la configuración de la aplicación
type Config struct {
	App      AppConfig      `json:"app"`
	Database DatabaseConfig `json:"database"`
	Uploads  UploadsConfig  `json:"uploads"`
	CORS     CORSConfig     `json:"cors"`
}

type AppConfig struct {
	Env   string `json:"env"`
	Port  string `json:"port"`
	Host  string `json:"host"`
	Debug bool   `json:"debug"`
}

// DatabaseConfig soporta dos motores intercambiables: sqlite (archivo
// embebido) y postgres (servidor). El motor se elige una sola vez al
// arrancar mediante DB_DRIVER.
type DatabaseConfig struct {
	Driver string `json:"driver"` // sqlite, postgres

	// SQLite
	Path string `json:"path"`

	// PostgreSQL
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
	SSLMode  string `json:"ssl_mode"`
}

type UploadsConfig struct {
	Dir         string `json:"dir"`
	MaxFileSize int64  `json:"max_file_size"`
	MaxFiles    int    `json:"max_files"`
}

type CORSConfig struct {
	AllowedOrigins []string `json:"allowed_origins"`
}

// LoadConfig carga la configuración desde variables de entorno
func LoadConfig() (*Config, error) {
	// Cargamos el archivo .env si existe
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Archivo .env no encontrado, se usan variables de entorno del sistema")
	}

	config := &Config{
		App: AppConfig{
			Env:   getEnv("APP_ENV", "development"),
			Port:  getEnv("PORT", "3001"),
			Host:  getEnv("APP_HOST", "0.0.0.0"),
			Debug: getEnvBool("DEBUG_MODE", false),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "sqlite"),
			Path:     getEnv("DB_PATH", "database/bithouse.db"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "bithouse"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Uploads: UploadsConfig{
			Dir:         getEnv("UPLOADS_DIR", "uploads"),
			MaxFileSize: getEnvInt64("UPLOADS_MAX_FILE_SIZE", 5*1024*1024),
			MaxFiles:    getEnvInt("UPLOADS_MAX_FILES", 10),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuración inválida: %w", err)
	}

	return config, nil
}

// Validate verifica la coherencia de la configuración
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("DB_PATH no puede estar vacío con DB_DRIVER=sqlite")
		}
	case "postgres":
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME no puede estar vacío con DB_DRIVER=postgres")
		}
		if c.Database.User == "" {
			return fmt.Errorf("DB_USER no puede estar vacío con DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("DB_DRIVER debe ser sqlite o postgres, recibido: %s", c.Database.Driver)
	}

	if c.Uploads.MaxFiles < 1 {
		return fmt.Errorf("UPLOADS_MAX_FILES debe ser al menos 1")
	}

	return nil
}

// IsDevelopment indica si la aplicación corre en modo desarrollo
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// Funciones auxiliares para leer variables de entorno

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		log.Printf("Advertencia: valor entero inválido para %s: %s, se usa el default: %d", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
		log.Printf("Advertencia: valor entero inválido para %s: %s, se usa el default: %d", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
		log.Printf("Advertencia: valor booleano inválido para %s: %s, se usa el default: %t", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
