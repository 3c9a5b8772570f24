package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/folio-api/internal/handlers"
	"github.com/harentsoaR/folio-api/internal/middleware"
	"github.com/harentsoaR/folio-api/internal/models"
	"github.com/harentsoaR/folio-api/internal/response"
	"github.com/harentsoaR/folio-api/internal/validation"
)

// APIPrefix is the versioned prefix of every endpoint.
const APIPrefix = "/api/v1"

type Options struct {
	CORSOrigins []string
	// AuthLimiter throttles /auth routes per client ip. Nil disables throttling.
	AuthLimiter *middleware.IPRateLimiter
}

// New wires the route table. Every guarded route runs
// Validate, then Authenticate, then the role gate, then the handler.
func New(h *handlers.Handler, v *validation.Validator, tokens middleware.TokenValidator, opts Options) *gin.Engine {
	corsConfig := cors.Config{
		AllowOrigins:     opts.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(opts.CORSOrigins) == 0 {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(h.Log),
		middleware.Recovery(h.Log),
		cors.New(corsConfig),
	)
	r.NoRoute(func(c *gin.Context) { response.NotFound(c, "Route") })
	r.GET("/healthz", func(c *gin.Context) { response.Success(c, "OK", nil) })

	validate := func(schema validation.Schema) gin.HandlerFunc { return middleware.Validate(v, schema) }
	auth := middleware.Authenticate(tokens, h.Users, h.Log)
	admin := middleware.RequireRoles(models.RoleAdmin)
	self := middleware.RequireSelfOrRoles("userID", models.RoleAdmin)

	api := r.Group(APIPrefix)

	// --- Auth ---
	authRoutes := api.Group("/auth")
	if opts.AuthLimiter != nil {
		authRoutes.Use(opts.AuthLimiter.RateLimit())
	}
	{
		authRoutes.POST("/register", validate(validation.Register), h.RegisterUser)
		authRoutes.POST("/login", validate(validation.Login), h.Login)
		authRoutes.GET("/me", auth, h.GetCurrentUser)
		authRoutes.PUT("/me", validate(validation.UpdateAccount), auth, h.UpdateCurrentUser)
	}

	// --- Admin ---
	adminRoutes := api.Group("/admin")
	{
		adminRoutes.GET("/users", auth, admin, h.GetAllUsers)
		adminRoutes.GET("/user/:userId", h.GetUser)
		adminRoutes.PUT("/block/:userId", auth, admin, h.BlockUser)
		adminRoutes.PUT("/unblock/:userId", auth, admin, h.UnblockUser)
		adminRoutes.DELETE("/delete-user/:id", auth, admin, h.DeleteUser)
		adminRoutes.GET("/dashboard", auth, admin, h.GetDashboardStats)
		adminRoutes.PUT("/update-project/:id", validate(validation.UpdateProject), auth, admin, h.AdminUpdateProject)
		adminRoutes.DELETE("/delete-project/:id", auth, admin, h.AdminDeleteProject)
	}

	// --- Profiles ---
	profileRoutes := api.Group("/profile")
	{
		profileRoutes.GET("/", auth, admin, h.GetAllProfiles)
		profileRoutes.POST("/add/:userID", validate(validation.CreateProfile), auth, self, h.CreateProfile)
		profileRoutes.PUT("/update/:userID", validate(validation.UpdateProfile), auth, self, h.UpdateProfile)
		profileRoutes.PUT("/update-image/:userID", auth, self, h.UpdateProfileImage)
		profileRoutes.PUT("/update-certificates/:userID", auth, self, h.UpdateCertificates)
		profileRoutes.DELETE("/delete/:userID", auth, admin, h.DeleteProfile)
		profileRoutes.GET("/check-completeness/:userID", auth, self, h.GetProfileCompleteness)
		profileRoutes.GET("/:userID", h.GetProfileByUser)
	}

	// --- Projects ---
	projectRoutes := api.Group("/project")
	{
		projectRoutes.POST("/add/:userID", validate(validation.CreateProject), auth, self, h.CreateProject)
		projectRoutes.GET("/user/:userID", h.GetUserProjects)
		projectRoutes.GET("/:id", h.GetProject)
	}

	// --- Homepage ---
	home := api.Group("/home/homepage")
	{
		home.GET("", h.GetHomePage)

		home.GET("/carousel", h.GetCarouselImages)
		home.POST("/carousel", validate(validation.CarouselItem), auth, admin, h.AddCarouselImage)
		home.PUT("/carousel/:id", validate(validation.CarouselItem), auth, admin, h.UpdateCarouselImage)
		home.DELETE("/carousel/:id", auth, admin, h.DeleteCarouselImage)

		home.GET("/category", h.GetCategories)
		home.POST("/category", validate(validation.Category), auth, admin, h.AddCategory)
		home.PUT("/category/:id", validate(validation.Category), auth, admin, h.UpdateCategory)
		home.DELETE("/category/:id", auth, admin, h.DeleteCategory)

		home.GET("/testimonial", h.GetTestimonials)
		home.POST("/testimonial", validate(validation.Testimonial), auth, admin, h.AddTestimonial)
		home.PUT("/testimonial/:id", validate(validation.Testimonial), auth, admin, h.UpdateTestimonial)
		home.DELETE("/testimonial/:id", auth, admin, h.DeleteTestimonial)

		home.GET("/aboutus", h.GetAboutUs)
		home.POST("/aboutus", validate(validation.AboutUs), auth, admin, h.AddAboutUs)
		home.PUT("/aboutus", validate(validation.AboutUs), auth, admin, h.UpdateAboutUs)
		home.PUT("/aboutus/:id", validate(validation.AboutUs), auth, admin, h.UpdateAboutUs)
		home.DELETE("/aboutus", auth, admin, h.DeleteAboutUs)
		home.DELETE("/aboutus/:id", auth, admin, h.DeleteAboutUs)
	}

	return r
}
