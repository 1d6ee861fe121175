package api

import (
	"github.com/gin-gonic/gin"

	"github.com/rickeysan/hiit-score-app/internal/service"
)

func PostNotificationTimer(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body service.TimerRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}

		res, err := app.Notifications().SetNotificationTimer(c.Request.Context(), &body)
		if err != nil {
			HandleDomainError(c, app.Logger(), err, "Failed to set notification timer")
			return
		}
		HandleCreated(c, app.Logger(), res, nil)
	}
}

func PostImmediateNotification(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body service.ImmediateRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}

		messageID, err := app.Notifications().SendImmediate(c.Request.Context(), &body)
		if err != nil {
			HandleDomainError(c, app.Logger(), err, "Failed to send notification")
			return
		}
		HandleSuccess(c, app.Logger(), gin.H{"success": true, "messageId": messageID}, nil)
	}
}

func GetNotification(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		sc, err := app.Notifications().GetSchedule(c.Request.Context(), c.Param("id"))
		if err != nil {
			HandleDomainError(c, app.Logger(), err, "Failed to fetch schedule")
			return
		}
		HandleSuccess(c, app.Logger(), sc, nil)
	}
}

func PostToken(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body service.TokenRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}

		if err := app.Notifications().SaveToken(c.Request.Context(), &body); err != nil {
			HandleDomainError(c, app.Logger(), err, "Failed to save push token")
			return
		}
		HandleSuccess(c, app.Logger(), gin.H{"success": true}, nil)
	}
}
