package dto

// CreateStudentRequest represents student creation data.
// All five fields are required at creation time.
type CreateStudentRequest struct {
	LastName  string   `json:"last_name" binding:"required"`
	FirstName string   `json:"first_name" binding:"required"`
	Faculty   string   `json:"faculty" binding:"required"`
	Course    string   `json:"course" binding:"required"`
	Grade     *float64 `json:"grade" binding:"required"`
}

// UpdateStudentRequest represents a partial student update.
// Absent fields keep their stored values; pointers distinguish
// "not provided" from a zero value.
type UpdateStudentRequest struct {
	LastName  *string  `json:"last_name"`
	FirstName *string  `json:"first_name"`
	Faculty   *string  `json:"faculty"`
	Course    *string  `json:"course"`
	Grade     *float64 `json:"grade"`
}

// IsEmpty reports whether the update carries no fields at all
func (r *UpdateStudentRequest) IsEmpty() bool {
	return r.LastName == nil && r.FirstName == nil && r.Faculty == nil &&
		r.Course == nil && r.Grade == nil
}

// DeleteStudentResponse is the fixed body returned after a successful delete
type DeleteStudentResponse struct {
	Status string `json:"status"`
}

// NewDeleteStudentResponse creates the fixed delete response body
func NewDeleteStudentResponse() DeleteStudentResponse {
	return DeleteStudentResponse{Status: "deleted"}
}

// AverageGradeResponse reports the mean grade for a faculty.
// AverageGrade is null when no student of that faculty exists.
type AverageGradeResponse struct {
	Faculty      string   `json:"faculty"`
	AverageGrade *float64 `json:"average_grade"`
}

// ImportStudentsResponse reports how many rows a bulk import persisted
type ImportStudentsResponse struct {
	Imported int `json:"imported"`
}
