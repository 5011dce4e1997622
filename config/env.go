package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultDatabaseDriver = "postgres"
	defaultRedisAddr      = "localhost:6379"
	defaultJWTSecret      = "change-me-in-production"
	defaultJWTTTL         = "24h"
	defaultAppPort        = "8080"
	defaultAppEnv         = "local"
	defaultAppName        = "sellerhub"
	defaultAPIPrefix      = "/api"
	defaultMaxBodyBytes   = "4194304"
)

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

// Load reads config/app.json, then .env, then the process environment.
// Later sources win. Safe to call many times; only the first call reads.
func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFrom("config/app.json", ".env")
	})
	return loadErr
}

// LoadFrom replaces the current values with defaults merged with the given
// files and the process environment. Missing files are ignored. A later
// Load call will not overwrite what LoadFrom read.
func LoadFrom(configPath, envPath string) error {
	loadOnce.Do(func() {})
	return loadFrom(configPath, envPath)
}

func loadFrom(configPath, envPath string) error {
	loaded := defaultValues()

	if err := mergeJSONConfig(configPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	if err := mergeDotEnv(envPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	mergeEnviron(loaded)

	mu.Lock()
	values = loaded
	mu.Unlock()

	return nil
}

func defaultValues() map[string]string {
	return map[string]string{
		"APP_NAME":       defaultAppName,
		"APP_ENV":        defaultAppEnv,
		"APP_PORT":       defaultAppPort,
		"API_PREFIX":     defaultAPIPrefix,
		"DB_DRIVER":      defaultDatabaseDriver,
		"REDIS_ADDR":     defaultRedisAddr,
		"REDIS_PASSWORD": "",
		"JWT_SECRET":     defaultJWTSecret,
		"JWT_TTL":        defaultJWTTTL,
		"MAX_BODY_BYTES": defaultMaxBodyBytes,
	}
}

func AppName() string { _ = Load(); return get("APP_NAME", defaultAppName) }
func AppEnv() string  { _ = Load(); return get("APP_ENV", defaultAppEnv) }
func AppPort() string { _ = Load(); return get("APP_PORT", defaultAppPort) }

// APIPrefix is the path every API route is mounted under, always with a
// leading slash and no trailing one ("/api", "/v1", or "" for root).
func APIPrefix() string {
	_ = Load()
	p := strings.Trim(get("API_PREFIX", defaultAPIPrefix), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}

func JWTSecret() string {
	_ = Load()
	return get("JWT_SECRET", defaultJWTSecret)
}

// JWTTTL is the lifetime of issued access tokens.
func JWTTTL() time.Duration {
	_ = Load()
	d, err := time.ParseDuration(get("JWT_TTL", defaultJWTTTL))
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// ── Docs ─────────────────────────────────────────────────────────────────────

// DocsUser and DocsPassword guard the API docs with basic auth when both are set.
func DocsUser() string     { _ = Load(); return get("DOCS_USER", "") }
func DocsPassword() string { _ = Load(); return get("DOCS_PASSWORD", "") }

// ── Infra ────────────────────────────────────────────────────────────────────

func RedisAddr() string     { _ = Load(); return get("REDIS_ADDR", defaultRedisAddr) }
func RedisPassword() string { _ = Load(); return get("REDIS_PASSWORD", "") }

func MongoURI() string      { _ = Load(); return get("MONGO_URI", "") }
func MongoDatabase() string { _ = Load(); return get("MONGO_DATABASE", defaultAppName) }

// GRPCPort is empty when the health RPC server should not start.
func GRPCPort() string { _ = Load(); return get("GRPC_PORT", "") }

func MaxBodyBytes() int64 {
	_ = Load()
	n, err := strconv.ParseInt(get("MAX_BODY_BYTES", defaultMaxBodyBytes), 10, 64)
	if err != nil || n <= 0 {
		return 4 << 20
	}
	return n
}

// RateLimit returns the per-client request rate and burst. Zero rate disables limiting.
func RateLimit() (perSecond float64, burst int) {
	_ = Load()
	perSecond, err := strconv.ParseFloat(get("RATE_LIMIT_RPS", "20"), 64)
	if err != nil || perSecond < 0 {
		perSecond = 20
	}
	burst, err = strconv.Atoi(get("RATE_LIMIT_BURST", "40"))
	if err != nil || burst <= 0 {
		burst = 40
	}
	return perSecond, burst
}

// TrustedProxies lists the IPs or CIDRs (TRUSTED_PROXIES, comma separated)
// whose forwarding headers name the real client. Empty trusts none.
func TrustedProxies() []string {
	_ = Load()
	var out []string
	for _, p := range strings.Split(get("TRUSTED_PROXIES", ""), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ── Loaders ──────────────────────────────────────────────────────────────────

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	for key, val := range raw {
		var s string
		switch v := val.(type) {
		case string:
			s = v
		case float64, bool:
			s = fmt.Sprint(v)
		default:
			continue
		}

		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(s)
	}

	return nil
}

func mergeDotEnv(path string, out map[string]string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	env, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	for key, value := range env {
		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(value)
	}
	return nil
}

func mergeEnviron(out map[string]string) {
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		out[strings.ToUpper(key)] = value
	}
}

func get(key, fallback string) string {
	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}

	return fallback
}

// Get reads any config key by name with an optional fallback.
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}

// Set overrides a single key at runtime. Mostly useful in tests.
func Set(key, value string) {
	_ = Load()
	mu.Lock()
	values[strings.ToUpper(key)] = value
	mu.Unlock()
}
