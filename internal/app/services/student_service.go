package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kkolkov/students-api/internal/app/models"
	"github.com/kkolkov/students-api/internal/app/models/dto"
	"github.com/kkolkov/students-api/internal/app/repositories"
	"github.com/kkolkov/students-api/internal/pkg/apperrors"
)

// StudentService defines the interface for student-related operations
type StudentService interface {
	CreateStudent(ctx context.Context, student *models.Student) (*models.Student, error)
	GetAllStudents(ctx context.Context) ([]*models.Student, error)
	GetStudentByID(ctx context.Context, id int64) (*models.Student, error)
	UpdateStudent(ctx context.Context, id int64, patch *dto.UpdateStudentRequest) (*models.Student, error)
	DeleteStudent(ctx context.Context, id int64) error
	GetStudentsByFaculty(ctx context.Context, faculty string) ([]*models.Student, error)
	GetDistinctCourses(ctx context.Context) ([]string, error)
	GetAverageGrade(ctx context.Context, faculty string) (*float64, error)
	GetLowGradeStudents(ctx context.Context, course string) ([]*models.Student, error)
	ImportStudents(ctx context.Context, file io.Reader, filename string) (int, error)
}

// studentServiceImpl implements the StudentService interface
type studentServiceImpl struct {
	studentRepo *repositories.StudentRepository
}

// NewStudentService creates a new student service instance
func NewStudentService(studentRepo *repositories.StudentRepository) StudentService {
	return &studentServiceImpl{
		studentRepo: studentRepo,
	}
}

// validateStudent validates student data before database operations
func (s *studentServiceImpl) validateStudent(student *models.Student) error {
	if student == nil {
		return apperrors.NewValidationError("student is nil")
	}

	if strings.TrimSpace(student.LastName) == "" {
		return apperrors.NewValidationError("last_name cannot be empty")
	}

	if strings.TrimSpace(student.FirstName) == "" {
		return apperrors.NewValidationError("first_name cannot be empty")
	}

	if strings.TrimSpace(student.Faculty) == "" {
		return apperrors.NewValidationError("faculty cannot be empty")
	}

	if strings.TrimSpace(student.Course) == "" {
		return apperrors.NewValidationError("course cannot be empty")
	}

	// Grade carries no enforced range, only presence and type are checked
	return nil
}

// CreateStudent creates a new student and returns it with the assigned id
func (s *studentServiceImpl) CreateStudent(ctx context.Context, student *models.Student) (*models.Student, error) {
	if err := s.validateStudent(student); err != nil {
		return nil, err
	}

	if err := s.studentRepo.CreateStudent(ctx, student); err != nil {
		return nil, fmt.Errorf("error creating student: %w", err)
	}
	return student, nil
}

// GetAllStudents retrieves all students
func (s *studentServiceImpl) GetAllStudents(ctx context.Context) ([]*models.Student, error) {
	students, err := s.studentRepo.GetAllStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving students: %w", err)
	}
	return students, nil
}

// GetStudentByID retrieves a student by ID. Any id without a matching row,
// zero and negative ids included, is a plain not-found.
func (s *studentServiceImpl) GetStudentByID(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.studentRepo.GetStudentByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return student, nil
}

// UpdateStudent applies a partial update to an existing student.
// Only fields present in the patch change; an empty patch is a no-op
// that still returns the stored record.
func (s *studentServiceImpl) UpdateStudent(ctx context.Context, id int64, patch *dto.UpdateStudentRequest) (*models.Student, error) {
	if patch == nil {
		return nil, apperrors.NewValidationError("patch is nil")
	}

	student, err := s.studentRepo.GetStudentByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student for update: %w", err)
	}

	if patch.IsEmpty() {
		return student, nil
	}

	applyPatch(student, patch)

	if err := s.validateStudent(student); err != nil {
		return nil, err
	}

	if err := s.studentRepo.UpdateStudent(ctx, student); err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error updating student: %w", err)
	}

	return student, nil
}

// applyPatch copies the present patch fields onto the stored record
func applyPatch(student *models.Student, patch *dto.UpdateStudentRequest) {
	if patch.LastName != nil {
		student.LastName = *patch.LastName
	}
	if patch.FirstName != nil {
		student.FirstName = *patch.FirstName
	}
	if patch.Faculty != nil {
		student.Faculty = *patch.Faculty
	}
	if patch.Course != nil {
		student.Course = *patch.Course
	}
	if patch.Grade != nil {
		student.Grade = *patch.Grade
	}
}

// DeleteStudent deletes a student by ID
func (s *studentServiceImpl) DeleteStudent(ctx context.Context, id int64) error {
	err := s.studentRepo.DeleteStudent(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return apperrors.ErrStudentNotFound
		}
		return fmt.Errorf("error deleting student: %w", err)
	}
	return nil
}

// GetStudentsByFaculty retrieves all students of a faculty
func (s *studentServiceImpl) GetStudentsByFaculty(ctx context.Context, faculty string) ([]*models.Student, error) {
	if strings.TrimSpace(faculty) == "" {
		return nil, apperrors.NewValidationError("faculty cannot be empty")
	}

	students, err := s.studentRepo.GetStudentsByFaculty(ctx, faculty)
	if err != nil {
		return nil, fmt.Errorf("error retrieving students by faculty: %w", err)
	}
	return students, nil
}

// GetDistinctCourses retrieves each unique course value once
func (s *studentServiceImpl) GetDistinctCourses(ctx context.Context) ([]string, error) {
	courses, err := s.studentRepo.GetDistinctCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving courses: %w", err)
	}
	return courses, nil
}

// GetAverageGrade returns the mean grade over a faculty, or nil when the
// faculty has no students
func (s *studentServiceImpl) GetAverageGrade(ctx context.Context, faculty string) (*float64, error) {
	if strings.TrimSpace(faculty) == "" {
		return nil, apperrors.NewValidationError("faculty cannot be empty")
	}

	avg, err := s.studentRepo.GetAverageGrade(ctx, faculty)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoData) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving average grade: %w", err)
	}
	return &avg, nil
}

// GetLowGradeStudents retrieves students of a course below the low-grade threshold
func (s *studentServiceImpl) GetLowGradeStudents(ctx context.Context, course string) ([]*models.Student, error) {
	if strings.TrimSpace(course) == "" {
		return nil, apperrors.NewValidationError("course cannot be empty")
	}

	students, err := s.studentRepo.GetLowGradeStudents(ctx, course)
	if err != nil {
		return nil, fmt.Errorf("error retrieving low grade students: %w", err)
	}
	return students, nil
}
