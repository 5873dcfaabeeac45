package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"company-onboarding/app/assets"
	"company-onboarding/app/config"
	"company-onboarding/app/database"
	"company-onboarding/app/middlewares"
	"company-onboarding/app/routes"
	"company-onboarding/app/store"
	"company-onboarding/app/utils"
	"company-onboarding/app/verification"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	deps := routes.Deps{Hasher: utils.NewHasher(cfg.BcryptCost)}

	if cfg.DatabaseURL != "" {
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer database.Close()
		database.EnsureSchema()
		deps.Store = store.NewPostgres(pool)
		log.Printf("using postgres store")
	} else {
		deps.Store = store.NewMemory()
		log.Printf("DATABASE_URL not set, using in-memory store")
	}

	var chain verification.Chain
	if cfg.FirebaseProjectID != "" || cfg.FirebaseCredentialsFile != "" {
		fb, err := verification.NewFirebase(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile)
		if err != nil {
			log.Printf("firebase disabled: %v", err)
		} else {
			chain = append(chain, fb)
		}
	}
	if cfg.RedisAddr != "" && cfg.TwilioAccountSID != "" && cfg.TwilioFromNumber != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("otp disabled, redis: %v", err)
		} else {
			sms := verification.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
			otp := verification.NewOTP(rdb, sms, verification.OTPConfig{
				TTL:          cfg.OTPTTL,
				ResendWindow: cfg.OTPResendWindow,
				MaxAttempts:  cfg.OTPMaxAttempts,
			})
			deps.OTP = otp
			chain = append(chain, otp)
		}
	}
	if len(chain) > 0 {
		deps.Verifier = chain
	} else {
		log.Printf("no mobile verification provider configured")
	}

	if cfg.AssetBucket != "" {
		gcs, err := assets.NewGCS(ctx, cfg.AssetBucket, cfg.AssetFolder, cfg.AssetCredentialsFile)
		if err != nil {
			log.Fatalf("asset host: %v", err)
		}
		deps.Assets = gcs
	} else {
		local, err := assets.NewLocal(cfg.AssetLocalDir, cfg.AssetPublicBaseURL)
		if err != nil {
			log.Fatalf("asset dir: %v", err)
		}
		deps.Assets = local
		deps.StaticDir = local.Dir()
	}

	if cfg.GeminiAPIKey != "" {
		deps.Drafter = utils.GeminiDrafter{Config: utils.AIConfig{APIKey: cfg.GeminiAPIKey, GenModel: cfg.GeminiModel}}
	}

	if !cfg.Development() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.MaxMultipartMemory = cfg.MaxUploadBytes
	r.Use(middlewares.CORS())
	routes.Register(r, cfg, deps)
	log.Printf("server on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
