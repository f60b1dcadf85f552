package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"revuverse-backend-go/internal/config"
	"revuverse-backend-go/internal/core"
	"revuverse-backend-go/internal/middleware"
)

// Services bundles what the route table hands to its handlers.
type Services struct {
	Users          core.UserService
	Businesses     core.BusinessService
	Subscriptions  core.SubscriptionService
	ReviewRequests core.ReviewRequestService
	Feedback       core.FeedbackService
	Phone          core.PhoneService
	Places         PlacesLookup
}

// SetupRoutes configures all the application routes with their handlers and middleware.
// Global middleware (logging, recovery, CORS) is expected on router already.
func SetupRoutes(
	router *gin.Engine,
	appConfig *config.Config,
	logger *zap.Logger,
	authMW *middleware.AuthMiddleware,
	services Services,
) {
	resp := newResponder(logger, appConfig.IsProduction())
	auth := authMW.VerifyToken()

	userHandler := NewUserHandler(resp, services.Users)
	businessHandler := NewBusinessHandler(resp, services.Businesses)
	subscriptionHandler := NewSubscriptionHandler(resp, services.Subscriptions)
	reviewRequestHandler := NewReviewRequestHandler(resp, services.ReviewRequests)
	feedbackHandler := NewFeedbackHandler(resp, services.Feedback)
	smsHandler := NewSMSHandler(resp, services.Phone)
	placesHandler := NewPlacesHandler(resp, services.Places)

	apiGroup := router.Group("/api")
	{
		users := apiGroup.Group("/users", auth)
		{
			users.POST("/initialize", userHandler.InitializeUserProfile)
			users.GET("/me", userHandler.GetCurrentUserProfile)
		}

		business := apiGroup.Group("/business", auth)
		{
			business.POST("", businessHandler.CreateBusiness)
			business.GET("", businessHandler.ListBusinesses)
			business.GET("/:id", businessHandler.GetBusiness)
			business.PUT("/:id", businessHandler.UpdateBusiness)
			business.DELETE("/:id", businessHandler.DeleteBusiness)
		}

		// Feedback mixes the public submit route with owner routes.
		feedback := apiGroup.Group("/feedback")
		{
			feedback.POST("/submit/:businessId", feedbackHandler.SubmitFeedback)

			feedback.GET("", auth, feedbackHandler.ListFeedback)
			feedback.GET("/business/:businessId", auth, feedbackHandler.ListFeedback)
			feedback.GET("/analytics/:businessId", auth, feedbackHandler.Analytics)
			feedback.GET("/:id", auth, feedbackHandler.GetFeedback)
			feedback.PUT("/:id", auth, feedbackHandler.UpdateFeedbackStatus)
			feedback.DELETE("/:id", auth, feedbackHandler.DeleteFeedback)
			feedback.POST("/:id/respond", auth, feedbackHandler.RespondToFeedback)
		}

		reviewRequests := apiGroup.Group("/review-request")
		{
			// Customer facing, addressed by the unguessable token.
			reviewRequests.GET("/form/:requestId", reviewRequestHandler.GetForm)
			reviewRequests.POST("/form/:requestId/feedback", reviewRequestHandler.SubmitFormFeedback)

			reviewRequests.POST("", auth, reviewRequestHandler.CreateReviewRequest)
			reviewRequests.GET("", auth, reviewRequestHandler.ListReviewRequests)
			reviewRequests.GET("/business/:businessId", auth, reviewRequestHandler.ListBusinessReviewRequests)
			reviewRequests.GET("/analytics/:businessId", auth, reviewRequestHandler.Analytics)
			reviewRequests.GET("/:id", auth, reviewRequestHandler.GetReviewRequest)
			reviewRequests.PUT("/:id", auth, reviewRequestHandler.UpdateReviewRequest)
			reviewRequests.DELETE("/:id", auth, reviewRequestHandler.DeleteReviewRequest)
			reviewRequests.POST("/:id/send-email", auth, reviewRequestHandler.SendEmail)
			reviewRequests.POST("/:id/send-sms", auth, reviewRequestHandler.SendSMS)
			reviewRequests.POST("/:id/remind", auth, reviewRequestHandler.SendReminder)
		}

		subscription := apiGroup.Group("/subscription")
		{
			// Stripe authenticates the webhook with its signature header.
			subscription.POST("/webhook", subscriptionHandler.HandleStripeWebhook)

			subscription.GET("", auth, subscriptionHandler.GetSubscription)
			subscription.PUT("", auth, subscriptionHandler.UpdateSubscription)
			subscription.POST("/checkout", auth, subscriptionHandler.CreateCheckoutSession)
			subscription.POST("/cancel", auth, subscriptionHandler.CancelSubscription)
		}

		sms := apiGroup.Group("/sms", auth)
		{
			sms.GET("/test-config", smsHandler.TestConfig)
			sms.POST("/send", smsHandler.SendSMS)
			sms.POST("/verify/send", smsHandler.SendVerification)
			sms.POST("/verify/check", smsHandler.CheckVerification)
		}

		places := apiGroup.Group("/places", auth)
		{
			places.GET("/search", placesHandler.Search)
			places.GET("/:placeId", placesHandler.Details)
			places.GET("/:placeId/reviews", placesHandler.Reviews)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Revuverse API is running"})
	})

	logger.Info("API routes configured under /api and /health")
}
