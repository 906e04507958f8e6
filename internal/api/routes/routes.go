package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/skillvue/skillvue-backend/internal/api/handlers"
	"github.com/skillvue/skillvue-backend/internal/api/middleware"
)

type Deps struct {
	Session  *handlers.SessionHandler
	Presence *handlers.PresenceHandler
	Share    *handlers.ShareHandler
	Template *handlers.TemplateHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Share links are capability URLs: no auth, the token is the grant.
	r.GET("/share/:token", d.Share.Resolve)

	// Protected routes (JWT)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuth())

	auth.POST("/sessions", d.Session.Create)
	auth.GET("/sessions/:session_id", d.Session.Get)
	auth.POST("/sessions/:session_id/start", d.Session.Start)
	auth.POST("/sessions/:session_id/advance", d.Session.Advance)
	auth.POST("/sessions/:session_id/retreat", d.Session.Retreat)
	auth.POST("/sessions/:session_id/complete", d.Session.Complete)
	auth.POST("/sessions/:session_id/presence", d.Presence.Record)
	auth.POST("/sessions/:session_id/activity", d.Session.Activity)

	college := auth.Group("/colleges")
	college.Use(middleware.RequireCollegeOperator())
	college.POST("/templates", d.Template.Create)
	college.GET("/templates", d.Template.List)
	college.GET("/templates/:id", d.Template.Get)
	college.POST("/templates/:id/duplicate", d.Template.Duplicate)
}
