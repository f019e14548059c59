package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kkolkov/students-api/internal/app/models"
	"github.com/kkolkov/students-api/internal/app/models/dto"
	"github.com/kkolkov/students-api/internal/app/services"
	"github.com/kkolkov/students-api/internal/middleware"
)

// StudentController handles student-related operations
type StudentController struct {
	studentService services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService) *StudentController {
	return &StudentController{
		studentService: studentService,
	}
}

// parseIDParam parses the :id path parameter. On failure it writes the 400
// response and reports false.
func parseIDParam(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Student ID must be a valid number"))
		return 0, false
	}
	return id, true
}

// CreateStudent handles POST /students/
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid student data: "+err.Error()))
		return
	}

	student := &models.Student{
		LastName:  req.LastName,
		FirstName: req.FirstName,
		Faculty:   req.Faculty,
		Course:    req.Course,
		Grade:     *req.Grade,
	}

	created, err := c.studentService.CreateStudent(ctx, student)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// GetAllStudents handles GET /students/
func (c *StudentController) GetAllStudents(ctx *gin.Context) {
	students, err := c.studentService.GetAllStudents(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, students)
}

// GetStudentByID handles GET /students/:id
func (c *StudentController) GetStudentByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	student, err := c.studentService.GetStudentByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, student)
}

// UpdateStudent handles PUT /students/:id with a partial body
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var patch dto.UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid student data: "+err.Error()))
		return
	}

	student, err := c.studentService.UpdateStudent(ctx, id, &patch)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, student)
}

// DeleteStudent handles DELETE /students/:id
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	if err := c.studentService.DeleteStudent(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewDeleteStudentResponse())
}

// GetStudentsByFaculty handles GET /students/faculty/:faculty
func (c *StudentController) GetStudentsByFaculty(ctx *gin.Context) {
	students, err := c.studentService.GetStudentsByFaculty(ctx, ctx.Param("faculty"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, students)
}

// GetDistinctCourses handles GET /courses/
func (c *StudentController) GetDistinctCourses(ctx *gin.Context) {
	courses, err := c.studentService.GetDistinctCourses(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, courses)
}

// GetAverageGrade handles GET /faculties/:faculty/average-grade.
// The average is null when the faculty has no students.
func (c *StudentController) GetAverageGrade(ctx *gin.Context) {
	faculty := ctx.Param("faculty")

	avg, err := c.studentService.GetAverageGrade(ctx, faculty)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.AverageGradeResponse{
		Faculty:      faculty,
		AverageGrade: avg,
	})
}

// GetLowGradeStudents handles GET /courses/:course/low-grades
func (c *StudentController) GetLowGradeStudents(ctx *gin.Context) {
	students, err := c.studentService.GetLowGradeStudents(ctx, ctx.Param("course"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, students)
}

// ImportStudents handles POST /students/import with a multipart file upload
func (c *StudentController) ImportStudents(ctx *gin.Context) {
	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Error retrieving uploaded file: "+err.Error()))
		return
	}
	defer file.Close()

	imported, err := c.studentService.ImportStudents(ctx, file, header.Filename)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ImportStudentsResponse{Imported: imported})
}
