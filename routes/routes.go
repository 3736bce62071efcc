package routes

import (
	"brandflow-backend/config"
	"brandflow-backend/controllers"
	"brandflow-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter(notifications *controllers.NotificationController) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		group := api.Group("/notifications")
		{
			group.GET("/my-setting", notifications.GetMySetting)
			group.POST("/my-setting", notifications.UpsertMySetting)
			group.PUT("/my-setting", notifications.UpdateMySetting)
			group.DELETE("/my-setting", notifications.DeleteMySetting)
			group.POST("/test", notifications.SendTest)
			group.GET("/logs", notifications.GetMyLogs)
			group.GET("/stats", notifications.GetStats)
			group.POST("/run", notifications.ForceRun)
		}
	}

	return r
}
