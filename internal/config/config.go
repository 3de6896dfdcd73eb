package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time parses the business timezone and check intervals

	"github.com/iliyamo/theatre-backoffice/internal/service"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Engine tunables are grouped in Engine so they
// can be handed to the service constructors as one value.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	DBUser       string // database username
	DBPass       string // database password (optional)
	DBHost       string // database host address
	DBPort       string // database port number
	DBName       string // database name
	DBMigrate    bool   // apply the embedded schema at startup
	JWTSecret    string // secret used to verify (and mint) JWTs
	AccessTTLMin int    // access token time‑to‑live in minutes, used by cmd/admintoken
	LogLevel     string // logrus level name
	LogFormat    string // "json" or "text"
	RabbitMQURL  string // AMQP URL; empty disables the consumer and publisher

	// AlertCheckInterval is how often the background alert loop runs.
	// Zero disables the loop; the alert endpoints still work.
	AlertCheckInterval time.Duration

	Engine service.Config
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:                must("APP_ENV"),
		Port:               must("APP_PORT"),
		DBUser:             must("DB_USER"),
		DBPass:             os.Getenv("DB_PASS"), // empty allowed
		DBHost:             must("DB_HOST"),
		DBPort:             must("DB_PORT"),
		DBName:             must("DB_NAME"),
		DBMigrate:          envBool("DB_MIGRATE", false),
		JWTSecret:          must("JWT_SECRET"),
		AccessTTLMin:       envInt("ACCESS_TOKEN_TTL_MIN", 60),
		LogLevel:           envStr("LOG_LEVEL", "info"),
		LogFormat:          envStr("LOG_FORMAT", "json"),
		RabbitMQURL:        os.Getenv("RABBITMQ_URL"),
		AlertCheckInterval: envDur("ALERT_CHECK_INTERVAL", time.Hour),
		Engine:             LoadEngineConfig(),
	}
}

// LoadEngineConfig builds the reconciliation engine settings.  Unset keys
// keep the values from service.DefaultConfig.
func LoadEngineConfig() service.Config {
	def := service.DefaultConfig()
	return service.Config{
		Location:                mustLocation(envStr("APP_TIMEZONE", "Local")),
		DefaultSeriesDays:       envInt("SERIES_DEFAULT_DAYS", def.DefaultSeriesDays),
		MaxSeriesDays:           envInt("SERIES_MAX_DAYS", def.MaxSeriesDays),
		GoalAlertStartDay:       envInt("GOAL_ALERT_START_DAY", def.GoalAlertStartDay),
		GoalAlertEndDay:         envInt("GOAL_ALERT_END_DAY", def.GoalAlertEndDay),
		GoalAlertPercent:        envFloat("GOAL_ALERT_PERCENT", def.GoalAlertPercent),
		CancellationWindowDays:  envInt("CANCELLATION_WINDOW_DAYS", def.CancellationWindowDays),
		CancellationRatePercent: envFloat("CANCELLATION_RATE_PERCENT", def.CancellationRatePercent),
		SyncLockTTL:             envDur("SYNC_LOCK_TTL", def.SyncLockTTL),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustLocation resolves an IANA zone name.  An unknown zone is fatal since
// every date boundary depends on it.
func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Fatalf("invalid APP_TIMEZONE %q: %v", name, err)
	}
	return loc
}

func envFloat(k string, d float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return d
}
