package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Session      SessionConfig
	Pricing      PricingConfig
	Catalog      CatalogConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if err := cfg.Pricing.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BRAZZAEATS_APP_ENV" required:"true"`
	Port         string `envconfig:"BRAZZAEATS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BRAZZAEATS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BRAZZAEATS_LOG_WARN_STACK" default:"false"`
	CORSOrigins  string `envconfig:"BRAZZAEATS_CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// AllowedOrigins splits the comma separated CORS origin list.
func (a AppConfig) AllowedOrigins() []string {
	var out []string
	for _, origin := range strings.Split(a.CORSOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

type DBConfig struct {
	DSN    string `envconfig:"BRAZZAEATS_DB_DSN"`
	Driver string `envconfig:"BRAZZAEATS_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"BRAZZAEATS_DB_HOST"`
	Port     int    `envconfig:"BRAZZAEATS_DB_PORT" default:"5432"`
	User     string `envconfig:"BRAZZAEATS_DB_USER"`
	Password string `envconfig:"BRAZZAEATS_DB_PASSWORD"`
	Name     string `envconfig:"BRAZZAEATS_DB_NAME"`
	SSLMode  string `envconfig:"BRAZZAEATS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BRAZZAEATS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BRAZZAEATS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BRAZZAEATS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BRAZZAEATS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BRAZZAEATS_REDIS_URL"`
	Address      string        `envconfig:"BRAZZAEATS_REDIS_ADDR"`
	Password     string        `envconfig:"BRAZZAEATS_REDIS_PASSWORD"`
	DB           int           `envconfig:"BRAZZAEATS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BRAZZAEATS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BRAZZAEATS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BRAZZAEATS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BRAZZAEATS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BRAZZAEATS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured. Without one the
// API keeps sessions in process memory.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

// SessionConfig drives session token signing and snapshot retention.
type SessionConfig struct {
	Secret     string `envconfig:"BRAZZAEATS_SESSION_SECRET" required:"true"`
	Issuer     string `envconfig:"BRAZZAEATS_SESSION_ISSUER" default:"brazzaeats"`
	TTLMinutes int    `envconfig:"BRAZZAEATS_SESSION_TTL_MINUTES" default:"10080"`
}

// TTL returns the session lifetime configured in minutes.
func (s SessionConfig) TTL() time.Duration {
	if s.TTLMinutes <= 0 {
		return 0
	}
	return time.Duration(s.TTLMinutes) * time.Minute
}

// PricingConfig holds the constants injected into cart pricing and checkout.
type PricingConfig struct {
	FeePerRestaurant      int64  `envconfig:"BRAZZAEATS_FEE_PER_RESTAURANT" default:"1000"`
	LoyaltyAwardPerOrder  int    `envconfig:"BRAZZAEATS_LOYALTY_AWARD_PER_ORDER" default:"50"`
	StartingLoyaltyPoints int    `envconfig:"BRAZZAEATS_STARTING_LOYALTY_POINTS" default:"120"`
	DeliveryAddress       string `envconfig:"BRAZZAEATS_DELIVERY_ADDRESS" default:"Brazzaville, Poto-Poto"`
	Currency              string `envconfig:"BRAZZAEATS_CURRENCY" default:"FCFA"`
}

func (p PricingConfig) validate() error {
	if p.FeePerRestaurant < 0 {
		return fmt.Errorf("%s must not be negative", EnvFeePerRestaurant)
	}
	if p.LoyaltyAwardPerOrder < 0 {
		return fmt.Errorf("%s must not be negative", EnvLoyaltyAward)
	}
	return nil
}

type CatalogConfig struct {
	SeedFile string `envconfig:"BRAZZAEATS_CATALOG_SEED_FILE" default:"pkg/migrate/seed/catalog.json"`
}

type FeatureFlagsConfig struct {
	UseSQLite     bool `envconfig:"BRAZZAEATS_USE_SQLITE" default:"false"`
	AutoMigrate   bool `envconfig:"BRAZZAEATS_AUTO_MIGRATE" default:"false"`
	ArchiveOrders bool `envconfig:"BRAZZAEATS_ARCHIVE_ORDERS" default:"true"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if useSQLite {
		db.Driver = DriverSQLite
		if db.DSN == "" {
			db.DSN = "file:brazzaeats.db?cache=shared"
		}
		return nil
	}
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range hostDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
