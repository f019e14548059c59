package repositories

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kkolkov/students-api/internal/app/migrations"
	"github.com/kkolkov/students-api/internal/app/models"
	"github.com/kkolkov/students-api/internal/config"
	"github.com/kkolkov/students-api/internal/db"
	"github.com/kkolkov/students-api/internal/pkg/apperrors"
)

func newTestRepository(t *testing.T) *StudentRepository {
	t.Helper()

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	cfg.Database.Path = filepath.Join(t.TempDir(), "students.db")

	database, err := db.NewSQLiteDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = database.Close()
	})

	require.NoError(t, migrations.NewMigrator(database.DB).Migrate(context.Background()))

	return NewStudentRepository(database)
}

func newStudent(lastName, firstName, faculty, course string, grade float64) *models.Student {
	return &models.Student{
		LastName:  lastName,
		FirstName: firstName,
		Faculty:   faculty,
		Course:    course,
		Grade:     grade,
	}
}

func TestCreateAndGetStudent(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	student := newStudent("Ivanov", "Petr", "CS", "2024", 85.5)
	require.NoError(t, repo.CreateStudent(ctx, student))
	assert.Equal(t, int64(1), student.ID)

	got, err := repo.GetStudentByID(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, student, got)
}

func TestGetStudentByIDNotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetStudentByID(context.Background(), 42)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestGetAllStudents(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	all, err := repo.GetAllStudents(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, repo.CreateStudent(ctx, newStudent("Ivanov", "Petr", "CS", "2024", 85.5)))
	require.NoError(t, repo.CreateStudent(ctx, newStudent("Petrova", "Anna", "Math", "2023", 91)))

	all, err = repo.GetAllStudents(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Ivanov", all[0].LastName)
	assert.Equal(t, "Petrova", all[1].LastName)
}

func TestCreateStudentsBatch(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	batch := []*models.Student{
		newStudent("Ivanov", "Petr", "CS", "2024", 85.5),
		newStudent("Petrova", "Anna", "CS", "2023", 91),
		newStudent("Sidorov", "Ivan", "Math", "2024", 42),
	}
	require.NoError(t, repo.CreateStudents(ctx, batch))

	for _, s := range batch {
		assert.NotZero(t, s.ID)
	}

	all, err := repo.GetAllStudents(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCreateStudentsEmptyBatch(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, repo.CreateStudents(context.Background(), nil))

	all, err := repo.GetAllStudents(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUpdateStudent(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	student := newStudent("Ivanov", "Petr", "CS", "2024", 85.5)
	require.NoError(t, repo.CreateStudent(ctx, student))

	student.Grade = 60
	student.Faculty = "Math"
	require.NoError(t, repo.UpdateStudent(ctx, student))

	got, err := repo.GetStudentByID(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, 60.0, got.Grade)
	assert.Equal(t, "Math", got.Faculty)
	assert.Equal(t, "Ivanov", got.LastName)
}

func TestUpdateStudentNotFound(t *testing.T) {
	repo := newTestRepository(t)

	missing := newStudent("Nobody", "Nobody", "CS", "2024", 1)
	missing.ID = 99

	err := repo.UpdateStudent(context.Background(), missing)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestDeleteStudent(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	student := newStudent("Ivanov", "Petr", "CS", "2024", 85.5)
	require.NoError(t, repo.CreateStudent(ctx, student))

	require.NoError(t, repo.DeleteStudent(ctx, student.ID))

	_, err := repo.GetStudentByID(ctx, student.ID)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	err = repo.DeleteStudent(ctx, student.ID)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestGetStudentsByFaculty(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateStudent(ctx, newStudent("Ivanov", "Petr", "CS", "2024", 85.5)))
	require.NoError(t, repo.CreateStudent(ctx, newStudent("Petrova", "Anna", "CS", "2023", 91)))
	require.NoError(t, repo.CreateStudent(ctx, newStudent("Sidorov", "Ivan", "Math", "2024", 42)))

	cs, err := repo.GetStudentsByFaculty(ctx, "CS")
	require.NoError(t, err)
	assert.Len(t, cs, 2)

	// Exact match only
	none, err := repo.GetStudentsByFaculty(ctx, "cs")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetDistinctCourses(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateStudent(ctx, newStudent("Ivanov", "Petr", "CS", "2024", 85.5)))
	require.NoError(t, repo.CreateStudent(ctx, newStudent("Petrova", "Anna", "CS", "2024", 91)))
	require.NoError(t, repo.CreateStudent(ctx, newStudent("Sidorov", "Ivan", "Math", "2023", 42)))

	courses, err := repo.GetDistinctCourses(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"2024", "2023"}, courses)
}

func TestGetAverageGrade(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateStudent(ctx, newStudent("Ivanov", "Petr", "CS", "2024", 80)))
	require.NoError(t, repo.CreateStudent(ctx, newStudent("Petrova", "Anna", "CS", "2023", 85.55)))

	avg, err := repo.GetAverageGrade(ctx, "CS")
	require.NoError(t, err)
	assert.InDelta(t, 82.78, avg, 0.001) // (80 + 85.55) / 2 = 82.775, rounded to 2 places
}

func TestGetAverageGradeNoData(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetAverageGrade(context.Background(), "History")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNoData))
}

func TestGetLowGradeStudents(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateStudent(ctx, newStudent("Ivanov", "Petr", "CS", "2024", 29.9)))
	require.NoError(t, repo.CreateStudent(ctx, newStudent("Petrova", "Anna", "CS", "2024", 30)))
	require.NoError(t, repo.CreateStudent(ctx, newStudent("Sidorov", "Ivan", "CS", "2023", 10)))

	low, err := repo.GetLowGradeStudents(ctx, "2024")
	require.NoError(t, err)
	require.Len(t, low, 1) // threshold is strict: grade 30 itself does not qualify
	assert.Equal(t, "Ivanov", low[0].LastName)
}
