package services

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/kkolkov/students-api/internal/pkg/apperrors"
)

const csvHeader = "last_name,first_name,faculty,course,grade\n"

func TestImportStudentsFromCSV(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	data := csvHeader +
		"Ivanov,Petr,CS,2024,85.5\n" +
		"Petrova,Anna,CS,2023,91\n" +
		"Sidorov,Ivan,Math,2024,42\n"

	imported, err := svc.ImportStudents(ctx, strings.NewReader(data), "students.csv")
	require.NoError(t, err)
	assert.Equal(t, 3, imported)

	all, err := svc.GetAllStudents(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Ivanov", all[0].LastName)
	assert.Equal(t, 85.5, all[0].Grade)
	assert.Equal(t, "Math", all[2].Faculty)
}

func TestImportStudentsNonNumericGradeAbortsBatch(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	data := csvHeader +
		"Ivanov,Petr,CS,2024,85.5\n" +
		"Petrova,Anna,CS,2023,not-a-grade\n"

	_, err := svc.ImportStudents(ctx, strings.NewReader(data), "students.csv")
	assert.ErrorIs(t, err, apperrors.ErrMalformedRow)

	// Nothing from the batch may be persisted
	all, err := svc.GetAllStudents(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestImportStudentsWrongColumnCountAbortsBatch(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	data := csvHeader +
		"Ivanov,Petr,CS,2024,85.5\n" +
		"Petrova,Anna,CS\n"

	_, err := svc.ImportStudents(ctx, strings.NewReader(data), "students.csv")
	assert.ErrorIs(t, err, apperrors.ErrMalformedRow)

	all, err := svc.GetAllStudents(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestImportStudentsHeaderOnlyCSV(t *testing.T) {
	svc := newTestService(t)

	imported, err := svc.ImportStudents(context.Background(), strings.NewReader(csvHeader), "students.csv")
	require.NoError(t, err)
	assert.Zero(t, imported)
}

func TestImportStudentsFromXLSX(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"last_name", "first_name", "faculty", "course", "grade"},
		{"Ivanov", "Petr", "CS", "2024", 85.5},
		{"Petrova", "Anna", "Math", "2023", 91},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	imported, err := svc.ImportStudents(ctx, &buf, "students.xlsx")
	require.NoError(t, err)
	assert.Equal(t, 2, imported)

	all, err := svc.GetAllStudents(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Petrova", all[1].LastName)
	assert.Equal(t, 91.0, all[1].Grade)
}

func TestImportStudentsUnsupportedFormat(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ImportStudents(context.Background(), strings.NewReader("whatever"), "students.txt")
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedImportFmt)
}
