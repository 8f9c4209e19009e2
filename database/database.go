package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"bithouse/config"
	"bithouse/models"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// CreateDatabaseIfNotExists crea la base de datos PostgreSQL si no
// existe. Con sqlite no hace falta: el archivo se crea al abrir.
func CreateDatabaseIfNotExists(cfg *config.DatabaseConfig) error {
	if cfg.Driver != "postgres" {
		return nil
	}

	// Nos conectamos a la base "postgres" por defecto
	adminDSN := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=postgres sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.SSLMode)

	db, err := sql.Open("postgres", adminDSN)
	if err != nil {
		return fmt.Errorf("no se pudo conectar a PostgreSQL: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("no se pudo verificar la conexión a PostgreSQL: %w", err)
	}

	var exists bool
	query := "SELECT EXISTS(SELECT datname FROM pg_catalog.pg_database WHERE datname = $1);"
	if err := db.QueryRow(query, cfg.Name).Scan(&exists); err != nil {
		return fmt.Errorf("error al verificar la existencia de la base de datos: %w", err)
	}

	if exists {
		log.Printf("✅ La base de datos '%s' ya existe", cfg.Name)
		return nil
	}

	if _, err := db.Exec(fmt.Sprintf("CREATE DATABASE %s;", cfg.Name)); err != nil {
		return fmt.Errorf("no se pudo crear la base de datos '%s': %w", cfg.Name, err)
	}

	log.Printf("✅ Base de datos '%s' creada exitosamente", cfg.Name)
	return nil
}

// Connect abre la conexión al motor configurado, corre las migraciones
// y devuelve el handle listo para inyectar en servicios y handlers
func Connect(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("no se pudo crear el directorio de la base de datos: %w", err)
			}
		}
		dialector = sqlite.Open(cfg.Path)
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("motor de base de datos no soportado: %s", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("no se pudo conectar a la base de datos: %w", err)
	}

	log.Printf("✅ Conectado a la base de datos (%s)", cfg.Driver)

	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("error en la migración automática: %w", err)
	}

	if err := CreateIndexes(db); err != nil {
		return nil, fmt.Errorf("error al crear índices: %w", err)
	}

	return db, nil
}

// Close cierra la conexión subyacente al terminar el proceso
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// autoMigrate ejecuta la migración automática de todos los modelos
func autoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Cliente{},
		&models.Equipo{},
		&models.Diagnostico{},
		&models.Presupuesto{},
		&models.EstadoHistorial{},
		&models.RetiroEntrega{},
		&models.Foto{},
	)
	if err != nil {
		return err
	}

	log.Println("✅ Migración automática de modelos completada")
	return nil
}
