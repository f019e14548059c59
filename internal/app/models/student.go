package models

import "fmt"

// Student defines the student model based on the 'students' table
type Student struct {
	ID        int64   `json:"id" db:"id"`                 // Unique identifier for the student record
	LastName  string  `json:"last_name" db:"last_name"`   // Student's surname
	FirstName string  `json:"first_name" db:"first_name"` // Student's given name
	Faculty   string  `json:"faculty" db:"faculty"`       // Faculty label, free-form
	Course    string  `json:"course" db:"course"`         // Course/cohort label, free-form
	Grade     float64 `json:"grade" db:"grade"`           // Numeric score, no enforced range
}

// String implements fmt.Stringer for log output
func (s *Student) String() string {
	return fmt.Sprintf("<Student(%s %s, %s, %s, %.2f)>", s.LastName, s.FirstName, s.Faculty, s.Course, s.Grade)
}
