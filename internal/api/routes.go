package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"promptadmin-backend-go/internal/config"
	"promptadmin-backend-go/internal/core"
	"promptadmin-backend-go/internal/middleware"
)

// SetupRoutes configures all application routes. Global middleware (logging,
// recovery, CORS) is applied to the router before this is called, in main.
func SetupRoutes(
	router *gin.Engine,
	appConfig *config.Config,
	logger *zap.Logger,
	authService core.AuthService,
	userService core.UserService,
	categoryService core.CategoryService,
	countryService core.CountryService,
	promptService core.PromptService,
	planService core.PlanService,
	subscriptionService core.SubscriptionService,
	generationService core.GenerationService,
	feedbackService core.FeedbackService,
) {
	secureCookies := appConfig.GinMode == gin.ReleaseMode

	authHandler := NewAuthHandler(authService, secureCookies)
	userHandler := NewUserHandler(userService)
	categoryHandler := NewCategoryHandler(categoryService)
	countryHandler := NewCountryHandler(countryService)
	promptHandler := NewPromptHandler(promptService)
	planHandler := NewPlanHandler(planService)
	subscriptionHandler := NewSubscriptionHandler(subscriptionService)
	generationHandler := NewGenerationHandler(generationService)
	feedbackHandler := NewFeedbackHandler(feedbackService)

	adminGate := middleware.RequireAdmin(authService)

	apiGroup := router.Group("/api")
	{
		// Session endpoints. Login and verify run without the gate; verify does
		// its own token check so an expired session yields a clean 401 instead
		// of a gated redirect.
		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.GET("/verify", authHandler.Verify)
			authGroup.POST("/logout", authHandler.Logout)
		}

		users := apiGroup.Group("/users", adminGate)
		{
			users.POST("", userHandler.CreateUser)
			users.GET("", userHandler.ListUsers)
			users.GET("/:userId", userHandler.GetUser)
			users.PUT("/:userId", userHandler.UpdateUser)
			users.DELETE("/:userId", userHandler.DeleteUser)
			users.POST("/:userId/restore", userHandler.RestoreUser)
			users.DELETE("/:userId/purge", userHandler.PurgeUser)
			users.GET("/:userId/logins", userHandler.ListUserLogins)
		}

		categories := apiGroup.Group("/categories", adminGate)
		{
			categories.POST("", categoryHandler.CreateCategory)
			categories.GET("", categoryHandler.ListCategories)
			categories.GET("/:categoryId", categoryHandler.GetCategory)
			categories.PUT("/:categoryId", categoryHandler.UpdateCategory)
			categories.GET("/:categoryId/usage", categoryHandler.GetCategoryUsage)
			categories.DELETE("/:categoryId", categoryHandler.DeleteCategory)
			categories.POST("/:categoryId/restore", categoryHandler.RestoreCategory)
			categories.DELETE("/:categoryId/purge", categoryHandler.PurgeCategory)

			categories.POST("/:categoryId/subcategories", categoryHandler.AddSubcategory)
			categories.PUT("/:categoryId/subcategories/:subId", categoryHandler.UpdateSubcategory)
			categories.DELETE("/:categoryId/subcategories/:subId", categoryHandler.DeleteSubcategory)
			categories.POST("/:categoryId/subcategories/:subId/restore", categoryHandler.RestoreSubcategory)
			categories.DELETE("/:categoryId/subcategories/:subId/purge", categoryHandler.PurgeSubcategory)
		}

		// Orphan scan lives outside /categories/:categoryId to keep the
		// wildcard tree unambiguous.
		apiGroup.GET("/subcategories/orphaned", adminGate, categoryHandler.ListOrphanedSubcategories)

		countries := apiGroup.Group("/countries", adminGate)
		{
			countries.POST("", countryHandler.CreateCountry)
			countries.GET("", countryHandler.ListCountries)
			countries.GET("/:countryId", countryHandler.GetCountry)
			countries.PUT("/:countryId", countryHandler.UpdateCountry)
			countries.POST("/:countryId/categories/:categoryId", countryHandler.AddCountryCategory)
			countries.DELETE("/:countryId/categories/:categoryId", countryHandler.RemoveCountryCategory)
			countries.DELETE("/:countryId", countryHandler.DeleteCountry)
			countries.POST("/:countryId/restore", countryHandler.RestoreCountry)
			countries.DELETE("/:countryId/purge", countryHandler.PurgeCountry)
		}

		prompts := apiGroup.Group("/prompts", adminGate)
		{
			prompts.POST("", promptHandler.CreatePrompt)
			prompts.GET("", promptHandler.ListPrompts)
			prompts.GET("/export", promptHandler.ExportPrompts)
			prompts.POST("/import", promptHandler.ImportPrompts)
			prompts.GET("/:promptId", promptHandler.GetPrompt)
			prompts.PUT("/:promptId", promptHandler.UpdatePrompt)
			prompts.DELETE("/:promptId", promptHandler.DeletePrompt)
			prompts.POST("/:promptId/restore", promptHandler.RestorePrompt)
			prompts.DELETE("/:promptId/purge", promptHandler.PurgePrompt)
		}

		plans := apiGroup.Group("/plans", adminGate)
		{
			plans.POST("", planHandler.CreatePlan)
			plans.GET("", planHandler.ListPlans)
			plans.GET("/:planId", planHandler.GetPlan)
			plans.PUT("/:planId", planHandler.UpdatePlan)
			plans.DELETE("/:planId", planHandler.DeletePlan)
		}

		subscriptions := apiGroup.Group("/subscriptions", adminGate)
		{
			subscriptions.POST("", subscriptionHandler.CreateSubscription)
			subscriptions.GET("", subscriptionHandler.ListSubscriptions)
			subscriptions.GET("/:subId", subscriptionHandler.GetSubscription)
			subscriptions.POST("/:subId/cancel", subscriptionHandler.CancelSubscription)
		}

		generations := apiGroup.Group("/generations", adminGate)
		{
			generations.GET("", generationHandler.ListGenerations)
			generations.GET("/:genId", generationHandler.GetGeneration)
		}

		feedback := apiGroup.Group("/feedback", adminGate)
		{
			feedback.GET("", feedbackHandler.ListFeedback)
			feedback.GET("/:feedbackId", feedbackHandler.GetFeedback)
			feedback.DELETE("/:feedbackId", feedbackHandler.DeleteFeedback)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	logger.Info("API routes configured under /api and /health")
}
