package routes

import (
	"smebackend/controllers"

	"github.com/gin-gonic/gin"
)

func Routes(r *gin.Engine) {

	v1 := r.Group("/api")

	{
		v1.POST("/uploadStatements", controllers.FileController.UploadStatements)
		v1.POST("/assess", controllers.AssessmentController.Assess)
		v1.GET("/companies", controllers.AssessmentController.GetCompanies)
		v1.GET("/compare", controllers.AssessmentController.Compare)
		v1.POST("/refreshScores", controllers.AssessmentController.RefreshScores)
		v1.GET("/keepServerRunning", controllers.HealthController.IsRunning)
	}
}
