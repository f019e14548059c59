package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/Masterminds/squirrel"

	"github.com/kkolkov/students-api/internal/app/models"
	"github.com/kkolkov/students-api/internal/db"
	"github.com/kkolkov/students-api/internal/pkg/apperrors"
	"github.com/kkolkov/students-api/internal/pkg/logger"
)

// LowGradeThreshold is the literal cutoff for the low-grade query.
// Kept at 30 to match the historical behavior of the service.
const LowGradeThreshold = 30.0

var (
	// ErrStudentNotFound is returned when no row matches the given id.
	ErrStudentNotFound = apperrors.ErrStudentNotFound
	// ErrNoData is returned by aggregate queries over an empty matching set.
	ErrNoData = apperrors.ErrNoData
)

// studentColumns is the column list every row scan uses, in scan order.
var studentColumns = []string{"id", "last_name", "first_name", "faculty", "course", "grade"}

// StudentRepository handles student database operations
type StudentRepository struct {
	db *db.SQLiteDB
	// Use squirrel instance with placeholder format
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(database *db.SQLiteDB) *StudentRepository {
	return &StudentRepository{
		db: database,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

// scanStudent scans a single row into a Student
func scanStudent(row squirrel.RowScanner) (*models.Student, error) {
	student := &models.Student{}
	err := row.Scan(&student.ID, &student.LastName, &student.FirstName,
		&student.Faculty, &student.Course, &student.Grade)
	if err != nil {
		return nil, err
	}
	return student, nil
}

// collectStudents drains a result set into a slice
func collectStudents(rows *sql.Rows) ([]*models.Student, error) {
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning student row")
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating student rows")
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, nil
}

// CreateStudent inserts one student and assigns the generated id
func (r *StudentRepository) CreateStudent(ctx context.Context, student *models.Student) error {
	query, args, err := r.sb.Insert("students").
		Columns("last_name", "first_name", "faculty", "course", "grade").
		Values(student.LastName, student.FirstName, student.Faculty, student.Course, student.Grade).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building create student SQL")
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	res, err := r.db.DB.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing create student query")
		return fmt.Errorf("error creating student: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("error reading assigned student id: %w", err)
	}
	student.ID = id

	return nil
}

// CreateStudents inserts a batch of students in a single transaction.
// Either every row is persisted or none of them are.
func (r *StudentRepository) CreateStudents(ctx context.Context, students []*models.Student) error {
	if len(students) == 0 {
		return nil
	}

	return r.db.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		for _, student := range students {
			query, args, err := r.sb.Insert("students").
				Columns("last_name", "first_name", "faculty", "course", "grade").
				Values(student.LastName, student.FirstName, student.Faculty, student.Course, student.Grade).
				ToSql()

			if err != nil {
				return fmt.Errorf("failed to build batch insert query: %w", err)
			}

			res, err := tx.ExecContext(ctx, query, args...)
			if err != nil {
				return fmt.Errorf("error inserting student batch row: %w", err)
			}

			id, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("error reading assigned student id: %w", err)
			}
			student.ID = id
		}
		return nil
	})
}

// GetStudentByID retrieves a student by ID
func (r *StudentRepository) GetStudentByID(ctx context.Context, id int64) (*models.Student, error) {
	query, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get student by ID SQL")
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student by ID: %w", err)
	}

	return student, nil
}

// GetAllStudents retrieves all students in store order
func (r *StudentRepository) GetAllStudents(ctx context.Context) ([]*models.Student, error) {
	query, args, err := r.sb.Select(studentColumns...).
		From("students").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get all students SQL")
		return nil, fmt.Errorf("failed to build get all students query: %w", err)
	}

	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all students query")
		return nil, fmt.Errorf("error querying students: %w", err)
	}

	return collectStudents(rows)
}

// UpdateStudent persists all fields of an existing student
func (r *StudentRepository) UpdateStudent(ctx context.Context, student *models.Student) error {
	query, args, err := r.sb.Update("students").
		SetMap(map[string]interface{}{
			"last_name":  student.LastName,
			"first_name": student.FirstName,
			"faculty":    student.Faculty,
			"course":     student.Course,
			"grade":      student.Grade,
		}).
		Where(squirrel.Eq{"id": student.ID}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building update student SQL")
		return fmt.Errorf("failed to build update student query: %w", err)
	}

	res, err := r.db.DB.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", student.ID).Msg("Error executing update student query")
		return fmt.Errorf("error updating student: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading update result: %w", err)
	}
	if affected == 0 {
		return ErrStudentNotFound
	}

	return nil
}

// DeleteStudent deletes a student by ID
func (r *StudentRepository) DeleteStudent(ctx context.Context, id int64) error {
	query, args, err := r.sb.Delete("students").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building delete student SQL")
		return fmt.Errorf("failed to build delete student query: %w", err)
	}

	res, err := r.db.DB.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", id).Msg("Error executing delete student query")
		return fmt.Errorf("error deleting student: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading delete result: %w", err)
	}
	if affected == 0 {
		return ErrStudentNotFound
	}

	return nil
}

// GetStudentsByFaculty retrieves all students with an exact faculty match
func (r *StudentRepository) GetStudentsByFaculty(ctx context.Context, faculty string) ([]*models.Student, error) {
	query, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"faculty": faculty}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get students by faculty SQL")
		return nil, fmt.Errorf("failed to build get students by faculty query: %w", err)
	}

	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Str("faculty", faculty).Msg("Error executing get students by faculty query")
		return nil, fmt.Errorf("error querying students by faculty: %w", err)
	}

	return collectStudents(rows)
}

// GetDistinctCourses retrieves each unique course value once
func (r *StudentRepository) GetDistinctCourses(ctx context.Context) ([]string, error) {
	query, args, err := r.sb.Select("course").
		Distinct().
		From("students").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building distinct courses SQL")
		return nil, fmt.Errorf("failed to build distinct courses query: %w", err)
	}

	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing distinct courses query")
		return nil, fmt.Errorf("error querying distinct courses: %w", err)
	}
	defer rows.Close()

	courses := []string{}
	for rows.Next() {
		var course string
		if err := rows.Scan(&course); err != nil {
			logger.Error().Err(err).Msg("Error scanning course row")
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating course rows")
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}

	return courses, nil
}

// GetAverageGrade returns the mean grade over a faculty, rounded to two
// decimal places. Returns ErrNoData when the faculty has no students,
// never a zero value.
func (r *StudentRepository) GetAverageGrade(ctx context.Context, faculty string) (float64, error) {
	query, args, err := r.sb.Select("AVG(grade)").
		From("students").
		Where(squirrel.Eq{"faculty": faculty}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building average grade SQL")
		return 0, fmt.Errorf("failed to build average grade query: %w", err)
	}

	var avg sql.NullFloat64
	err = r.db.DB.QueryRowContext(ctx, query, args...).Scan(&avg)
	if err != nil {
		logger.Error().Err(err).Str("faculty", faculty).Msg("Error executing average grade query")
		return 0, fmt.Errorf("error querying average grade: %w", err)
	}

	// AVG over an empty set yields NULL
	if !avg.Valid {
		return 0, ErrNoData
	}

	return math.Round(avg.Float64*100) / 100, nil
}

// GetLowGradeStudents retrieves students of a course with a grade below
// the low-grade threshold
func (r *StudentRepository) GetLowGradeStudents(ctx context.Context, course string) ([]*models.Student, error) {
	query, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"course": course}).
		Where(squirrel.Lt{"grade": LowGradeThreshold}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building low grade students SQL")
		return nil, fmt.Errorf("failed to build low grade students query: %w", err)
	}

	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Str("course", course).Msg("Error executing low grade students query")
		return nil, fmt.Errorf("error querying low grade students: %w", err)
	}

	return collectStudents(rows)
}
