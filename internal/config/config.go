package config // package config loads application configuration from environment variables

import (
    "log" // log is used to report configuration errors and halt execution
    "os"  // os provides access to environment variables
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The remote document store (DB_* variables) is
// optional: when DB_HOST is unset the storefront runs in local-only mode and
// every remote-dependent operation reports the store as unavailable.
type Config struct {
    Env             string // application environment (e.g. "dev", "prod")
    Port            string // HTTP port to listen on
    Instance        string // instance name used as the snapshot source tag
    DBUser          string // remote store username (optional)
    DBPass          string // remote store password (optional)
    DBHost          string // remote store host; empty disables the remote store
    DBPort          string // remote store port number
    DBName          string // remote store database name
    JWTSecret       string // secret used to sign session tokens
    SessionTTLHours int    // session token time-to-live in hours
    BcryptCost      int    // bcrypt cost for credential hashing
    BootstrapUser   string // optional seed super admin username
    BootstrapPass   string // optional seed super admin password
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
    return Config{
        Env:             must("APP_ENV"),                     // environment (dev/test/prod)
        Port:            must("APP_PORT"),                    // port to bind the HTTP server
        Instance:        envStr("INSTANCE_NAME", "clusters"), // snapshot source tag
        DBUser:          os.Getenv("DB_USER"),                // remote store user (empty allowed)
        DBPass:          os.Getenv("DB_PASS"),                // remote store password (empty allowed)
        DBHost:          os.Getenv("DB_HOST"),                // remote store host; empty = local-only
        DBPort:          envStr("DB_PORT", "3306"),           // remote store port
        DBName:          envStr("DB_NAME", "clusters"),       // remote store database
        JWTSecret:       must("JWT_SECRET"),                  // secret used for signing session tokens
        SessionTTLHours: envInt("SESSION_TTL_HOURS", 24*7),   // session lifetime
        BcryptCost:      envInt("BCRYPT_COST", 12),           // bcrypt cost factor
        BootstrapUser:   os.Getenv("ADMIN_BOOTSTRAP_USER"),   // seed super admin (optional)
        BootstrapPass:   os.Getenv("ADMIN_BOOTSTRAP_PASS"),   // seed super admin password (optional)
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
