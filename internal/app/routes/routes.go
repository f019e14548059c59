package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/kkolkov/students-api/internal/app/controllers"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	studentController *controllers.StudentController,
) {
	// Student CRUD routes
	students := router.Group("/students")
	{
		students.POST("/", studentController.CreateStudent)
		students.GET("/", studentController.GetAllStudents)
		students.POST("/import", studentController.ImportStudents)
		students.GET("/faculty/:faculty", studentController.GetStudentsByFaculty)
		students.GET("/:id", studentController.GetStudentByID)
		students.PUT("/:id", studentController.UpdateStudent)
		students.DELETE("/:id", studentController.DeleteStudent)
	}

	// Read-only aggregate routes
	courses := router.Group("/courses")
	{
		courses.GET("/", studentController.GetDistinctCourses)
		courses.GET("/:course/low-grades", studentController.GetLowGradeStudents)
	}

	faculties := router.Group("/faculties")
	{
		faculties.GET("/:faculty/average-grade", studentController.GetAverageGrade)
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
