package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/akarpov/portfolio-api/internal/logger"
)

const (
	defaultListenAddr   = "localhost:8000"
	defaultLoggingLevel = logger.LevelInfo
	defaultEnvironment  = logger.EnvProduction
	defaultFrontendURL  = "http://localhost:3000"
	defaultSMTPPort     = "587"

	// Per-IP request budgets
	defaultGlobalRateLimit         = 100
	defaultGlobalRateWindowMinutes = 15
	defaultAuthRateLimit           = 5
	defaultAuthRateWindowMinutes   = 60
)

type Config struct {
	// Default logging level
	LogLevel string

	// Address on which the API will be served
	ListenAddr string

	// Database to connect to
	DatabaseDSN string

	// Secret keys for signing JWT tokens. Access and refresh tokens use
	// different keys so one can never be spent as the other.
	AccessSecret  string
	RefreshSecret string

	// Environment
	Environment string

	// Base URL for links embedded in emails (password reset)
	FrontendURL string

	// Where contact form notifications go. Empty disables them.
	AdminEmail string

	// Origins allowed by CORS, empty allows any
	AllowedOrigins []string

	// SMTP delivery settings
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string
}

func NewConfig() *Config {
	return &Config{
		LogLevel:    defaultLoggingLevel,
		ListenAddr:  defaultListenAddr,
		Environment: defaultEnvironment,
		FrontendURL: defaultFrontendURL,
		SMTPPort:    defaultSMTPPort,
	}
}

// Load variable from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		c.LoadEnv(func(key string) string {
			return envMap[key]
		})
		return nil
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) {
		return func(value string) {
			if value != "" {
				*o = value
			}
		}
	}
	setList := func(o *[]string) func(value string) {
		return func(value string) {
			if value == "" {
				return
			}
			items := strings.Split(value, ",")
			for i := range items {
				items[i] = strings.TrimSpace(items[i])
			}
			*o = items
		}
	}

	envMap := map[string]func(string){
		"RUN_ADDRESS":        setString(&c.ListenAddr),
		"DATABASE_URI":       setString(&c.DatabaseDSN),
		"ACCESS_SECRET_KEY":  setString(&c.AccessSecret),
		"REFRESH_SECRET_KEY": setString(&c.RefreshSecret),
		"LOG_LEVEL":          setString(&c.LogLevel),
		"ENVIRONMENT":        setString(&c.Environment),
		"FRONTEND_URL":       setString(&c.FrontendURL),
		"ADMIN_EMAIL":        setString(&c.AdminEmail),
		"ALLOWED_ORIGINS":    setList(&c.AllowedOrigins),
		"SMTP_HOST":          setString(&c.SMTPHost),
		"SMTP_PORT":          setString(&c.SMTPPort),
		"SMTP_USERNAME":      setString(&c.SMTPUsername),
		"SMTP_PASSWORD":      setString(&c.SMTPPassword),
		"SMTP_FROM":          setString(&c.SMTPFrom),
		"SMTP_FROM_NAME":     setString(&c.SMTPFromName),
	}

	for key, parseFn := range envMap {
		parseFn(getenv(key))
	}
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("portfolio", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string")
	fs.StringVar(&c.AccessSecret, "access-secret", c.AccessSecret, "Access token secret key")
	fs.StringVar(&c.RefreshSecret, "refresh-secret", c.RefreshSecret, "Refresh token secret key")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (dev, prod)")
	fs.StringVar(&c.FrontendURL, "frontend-url", c.FrontendURL, "Frontend base URL for email links")
	fs.StringVar(&c.AdminEmail, "admin-email", c.AdminEmail, "Address notified of contact submissions")

	return fs.Parse(args)
}
