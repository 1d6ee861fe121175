package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

func GetExercises(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		cat := app.Catalog()
		HandleSuccess(c, app.Logger(), cat.Exercises, map[string]any{"milestones": cat.Milestones})
	}
}

func GetExercise(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid exercise id")
			return
		}
		ex, err := app.Catalog().Get(id)
		if err != nil {
			HandleDomainError(c, app.Logger(), err, "Failed to fetch exercise")
			return
		}
		HandleSuccess(c, app.Logger(), ex, map[string]any{"score": app.Catalog().ScoreConfig(ex)})
	}
}
