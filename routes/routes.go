package routes

import (
	"github.com/gin-gonic/gin"

	"company-onboarding/app/assets"
	"company-onboarding/app/config"
	"company-onboarding/app/controllers"
	"company-onboarding/app/middlewares"
	"company-onboarding/app/store"
	"company-onboarding/app/utils"
	"company-onboarding/app/verification"
)

// Deps are the collaborators behind the route table. Verifier, OTP and
// Drafter may be nil; their routes then answer 501.
type Deps struct {
	Store    store.Store
	Hasher   *utils.Hasher
	Verifier verification.MobileVerifier
	OTP      controllers.OTPService
	Assets   assets.Store
	Drafter  controllers.Drafter
	// StaticDir is served under cfg.AssetPublicBaseURL when assets are local.
	StaticDir string
}

func Register(r *gin.Engine, cfg config.Config, d Deps) {
	r.GET("/", controllers.Root())
	r.NoRoute(controllers.NotFound())
	if d.StaticDir != "" {
		r.Static(cfg.AssetPublicBaseURL, d.StaticDir)
	}

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/register", controllers.Register(d.Store, d.Hasher))
		auth.POST("/login", controllers.Login(cfg, d.Store, d.Hasher))
		auth.POST("/verify-mobile", controllers.VerifyMobile(d.Store, d.Verifier))
		auth.GET("/verify-email", controllers.VerifyEmail(d.Store))
		auth.POST("/request-otp", controllers.RequestOTP(d.OTP))
		auth.POST("/confirm-otp", controllers.ConfirmOTP(d.OTP))

		priv := api.Group("/")
		priv.Use(middlewares.Auth(cfg.JWTSecret, d.Store))
		priv.GET("me", controllers.Me())

		company := priv.Group("company")
		company.POST("/register", controllers.RegisterCompany(d.Store))
		company.GET("/profile", controllers.GetProfile(d.Store))
		company.PUT("/profile", controllers.UpdateProfile(d.Store))
		company.GET("/profile/export", controllers.ExportProfile(d.Store))
		company.POST("/upload-logo", controllers.UploadImage(assets.KindLogo, d.Assets, cfg.MaxUploadBytes))
		company.POST("/upload-banner", controllers.UploadImage(assets.KindBanner, d.Assets, cfg.MaxUploadBytes))
		company.POST("/suggest", controllers.Suggest(d.Store, d.Drafter))
	}
}
