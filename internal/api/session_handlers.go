package api

import (
	"github.com/gin-gonic/gin"

	"github.com/rickeysan/hiit-score-app/internal/auth"
	"github.com/rickeysan/hiit-score-app/internal/service"
)

func PostSession(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := auth.CallerFrom(c)

		var body service.SessionRecordRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := service.ValidateSessionRecordRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}
		if body.ExerciseID != nil {
			if _, err := app.Catalog().Get(*body.ExerciseID); err != nil {
				HandleError(c, app.Logger(), err, 400, "Unknown exercise")
				return
			}
		}

		rec, ok, err := service.ArchiveSession(c.Request.Context(), app.SessionRepo(), caller.ID, body.Result())
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to save session")
			return
		}
		if !ok {
			HandleSuccess(c, app.Logger(), nil, map[string]any{"archived": false})
			return
		}
		HandleCreated(c, app.Logger(), rec, map[string]any{"archived": true})
	}
}

func GetSessions(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := auth.CallerFrom(c)
		recs, err := app.SessionRepo().ListSessions(c.Request.Context(), caller.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch sessions")
			return
		}
		HandleSuccess(c, app.Logger(), recs, map[string]any{"count": len(recs)})
	}
}

func GetSessionStats(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := auth.CallerFrom(c)
		recs, err := app.SessionRepo().ListSessions(c.Request.Context(), caller.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch sessions for stats")
			return
		}
		HandleSuccess(c, app.Logger(), service.CalculateSessionStats(recs), nil)
	}
}
