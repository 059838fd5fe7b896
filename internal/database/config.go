package database

import (
	"fmt"

	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/config"
)

// Config holds database configuration
type Config struct {
	Host          string
	Port          string
	User          string
	Password      string
	DBName        string
	SSLMode       string
	MaxOpenConns  int
	MaxIdleConns  int
	MigrationsDir string
}

// NewConfig derives the database configuration from the application configuration.
func NewConfig(cfg *config.Config) *Config {
	return &Config{
		Host:          cfg.DBHost,
		Port:          cfg.DBPort,
		User:          cfg.DBUser,
		Password:      cfg.DBPassword,
		DBName:        cfg.DBName,
		SSLMode:       cfg.DBSSLMode,
		MaxOpenConns:  cfg.DBMaxOpenConns,
		MaxIdleConns:  cfg.DBMaxIdleConns,
		MigrationsDir: cfg.MigrationsDir,
	}
}

// DSN returns the PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// URL returns the postgres:// form expected by golang-migrate.
func (c *Config) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// MigrationsSource returns the file:// source URL for the migrations directory.
func (c *Config) MigrationsSource() string {
	return "file://" + c.MigrationsDir
}
