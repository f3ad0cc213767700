package handlers

import (
	"net/http"

	"github.com/MOULOUNDOU/Senchambre/internal/middleware"
	"github.com/MOULOUNDOU/Senchambre/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// requestLogger logs one line per request through logrus.
func requestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		}).Debug("request")
	}
}

// NewRouter builds the JSON API under /api.
func NewRouter(svc *service.Service, log *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	authHandler := NewAuthHandler(svc.Accounts, svc.Verification, log)
	listingHandler := NewListingHandler(svc, log)
	likeHandler := NewLikeHandler(svc.Likes, svc.Favorites, log)
	commentHandler := NewCommentHandler(svc.Comments, log)
	comparisonHandler := NewComparisonHandler(svc.Comparison, svc.Listings, log)
	notificationsHandler := NewNotificationsHandler(svc.Notifications, log)
	searchHandler := NewSearchHandler(svc.Searches, log)
	reportHandler := NewReportHandler(svc.Listings, svc.Admin, log)
	profileHandler := NewProfileHandler(svc, log)
	adminHandler := NewAdminHandler(svc.Admin, log)

	api := r.Group("/api")
	api.Use(middleware.Session(svc.Accounts, log))

	// Open routes.
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/auth/me", authHandler.Me)
	api.POST("/verification/send", authHandler.SendCode)
	api.POST("/verification/verify", authHandler.Verify)
	api.GET("/verification/status", authHandler.VerificationStatus)

	api.GET("/listings", listingHandler.Browse)
	api.GET("/listings/:id", listingHandler.Get)
	api.GET("/listings/:id/comments", commentHandler.List)
	api.POST("/listings/:id/report", reportHandler.SubmitReport)
	api.GET("/users/:id/listings", listingHandler.ByUser)
	api.GET("/rankings/liked", listingHandler.MostLiked)
	api.GET("/rankings/viewed", listingHandler.MostViewed)

	api.GET("/compare", comparisonHandler.List)
	api.POST("/compare/:id", comparisonHandler.Add)
	api.DELETE("/compare/:id", comparisonHandler.Remove)
	api.DELETE("/compare", comparisonHandler.Clear)

	protected := api.Group("/")
	protected.Use(middleware.RequireAuth())
	{
		protected.PUT("/auth/profile", authHandler.UpdateProfile)
		protected.PUT("/auth/password", authHandler.ChangePassword)
		protected.GET("/profile/activity", profileHandler.Activity)

		protected.POST("/listings", listingHandler.Create)
		protected.PUT("/listings/:id", listingHandler.Update)
		protected.DELETE("/listings/:id", listingHandler.Delete)
		protected.POST("/listings/:id/like", likeHandler.Like)
		protected.POST("/listings/:id/favorite", likeHandler.AddFavorite)
		protected.DELETE("/listings/:id/favorite", likeHandler.RemoveFavorite)
		protected.POST("/listings/:id/comments", commentHandler.AddComment)
		protected.PUT("/comments/:id", commentHandler.EditComment)
		protected.DELETE("/comments/:id", commentHandler.DeleteComment)

		protected.GET("/notifications", notificationsHandler.ListNotifications)
		protected.POST("/notifications/read", notificationsHandler.MarkAllRead)
		protected.POST("/notifications/:id/read", notificationsHandler.MarkRead)
		protected.DELETE("/notifications", notificationsHandler.DeleteAll)
		protected.DELETE("/notifications/:id", notificationsHandler.Delete)

		protected.GET("/searches", searchHandler.List)
		protected.POST("/searches", searchHandler.Save)
		protected.DELETE("/searches/:id", searchHandler.Delete)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/stats", adminHandler.Stats)
		admin.GET("/users", adminHandler.Users)
		admin.PATCH("/users/:id", adminHandler.UpdateUser)
		admin.DELETE("/users/:id", adminHandler.DeleteUser)
		admin.DELETE("/listings/:id", adminHandler.DeleteListing)
		admin.GET("/reports", reportHandler.ListReports)
		admin.POST("/reports/:id/close", reportHandler.CloseReport)
	}

	return r
}
