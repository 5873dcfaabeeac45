package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	AppEnv      string
	DatabaseURL string // Postgres DSN; empty selects the in-memory store
	JWTSecret   string
	JWTTTL      time.Duration
	BcryptCost  int

	// Mobile verification. Firebase is used when credentials are set,
	// otherwise SMS OTP tickets when Twilio and Redis are set.
	FirebaseCredentialsFile string
	FirebaseProjectID       string
	TwilioAccountSID        string
	TwilioAuthToken         string
	TwilioFromNumber        string
	RedisAddr               string
	RedisPassword           string
	RedisDB                 int
	OTPTTL                  time.Duration
	OTPResendWindow         time.Duration
	OTPMaxAttempts          int

	// Asset host. GCS when a bucket is set, local directory otherwise.
	AssetBucket          string
	AssetFolder          string
	AssetCredentialsFile string
	AssetLocalDir        string
	AssetPublicBaseURL   string
	MaxUploadBytes       int64

	GeminiAPIKey string
	GeminiModel  string
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Port:        get("PORT", "4000"),
		AppEnv:      get("APP_ENV", "development"),
		DatabaseURL: get("DATABASE_URL", ""),
		JWTSecret:   must("JWT_SECRET"),
		JWTTTL:      time.Duration(getInt("JWT_EXPIRES_DAYS", 90)) * 24 * time.Hour,
		BcryptCost:  getInt("BCRYPT_COST", 10),

		FirebaseCredentialsFile: get("FIREBASE_CREDENTIALS_FILE", ""),
		FirebaseProjectID:       get("FIREBASE_PROJECT_ID", ""),
		TwilioAccountSID:        get("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:         get("TWILIO_AUTH_TOKEN", ""),
		TwilioFromNumber:        get("TWILIO_FROM_NUMBER", ""),
		RedisAddr:               get("REDIS_ADDR", ""),
		RedisPassword:           get("REDIS_PASSWORD", ""),
		RedisDB:                 getInt("REDIS_DB", 0),
		OTPTTL:                  getDuration("OTP_TTL", 5*time.Minute),
		OTPResendWindow:         getDuration("OTP_RESEND_WINDOW", time.Minute),
		OTPMaxAttempts:          getInt("OTP_MAX_ATTEMPTS", 5),

		AssetBucket:          get("ASSET_BUCKET", ""),
		AssetFolder:          get("ASSET_FOLDER", "company_module"),
		AssetCredentialsFile: get("ASSET_CREDENTIALS_FILE", ""),
		AssetLocalDir:        get("ASSET_LOCAL_DIR", "uploads"),
		AssetPublicBaseURL:   get("ASSET_PUBLIC_BASE_URL", "/uploads"),
		MaxUploadBytes:       int64(getInt("MAX_UPLOAD_MB", 10)) << 20,

		GeminiAPIKey: get("GEMINI_API_KEY", ""),
		GeminiModel:  get("GEMINI_MODEL", "gemini-2.5-pro"),
	}
	return cfg
}

// Development reports whether error responses may carry internal detail.
func (c Config) Development() bool {
	return c.AppEnv == "development"
}

func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %d", k, v, def)
		return def
	}
	return n
}

func getDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("invalid %s=%q, using %s", k, v, def)
		return def
	}
	return d
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing required env: %s", k)
	}
	return v
}
