package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rickeysan/hiit-score-app/internal/auth"
)

func NewRouter(app App, provider auth.Provider) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestIDMiddleware(), AccessLogMiddleware(app.Logger()))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	g := r.Group("/api", auth.AuthMiddleware(provider))
	g.POST("/notifications/timer", PostNotificationTimer(app))
	g.POST("/notifications/immediate", PostImmediateNotification(app))
	g.GET("/notifications/:id", GetNotification(app))
	g.POST("/tokens", PostToken(app))
	g.GET("/exercises", GetExercises(app))
	g.GET("/exercises/:id", GetExercise(app))
	g.POST("/sessions", PostSession(app))
	g.GET("/sessions", GetSessions(app))
	g.GET("/sessions/stats", GetSessionStats(app))
	return r
}
