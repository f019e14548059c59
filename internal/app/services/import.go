package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kkolkov/students-api/internal/app/models"
	"github.com/kkolkov/students-api/internal/pkg/apperrors"
	"github.com/kkolkov/students-api/internal/pkg/logger"
)

// importColumnCount is the expected number of positional columns per row:
// last_name, first_name, faculty, course, grade.
const importColumnCount = 5

// ImportStudents reads a tabular file stream (CSV or XLSX, chosen by the
// filename extension) and inserts one student per data row. The first row
// is a header and is skipped. Any malformed row aborts the entire batch
// before anything is written.
func (s *studentServiceImpl) ImportStudents(ctx context.Context, file io.Reader, filename string) (int, error) {
	var (
		rows [][]string
		err  error
	)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		rows, err = readCSVRows(file)
	case ".xlsx":
		rows, err = readXLSXRows(file)
	default:
		return 0, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedImportFmt, filepath.Ext(filename))
	}
	if err != nil {
		return 0, err
	}

	students, err := rowsToStudents(rows)
	if err != nil {
		return 0, err
	}

	if err := s.studentRepo.CreateStudents(ctx, students); err != nil {
		return 0, fmt.Errorf("error persisting imported students: %w", err)
	}

	logger.Info().Int("count", len(students)).Str("file", filename).Msg("Students imported")
	return len(students), nil
}

// readCSVRows reads all data rows of a CSV stream, skipping the header row
func readCSVRows(file io.Reader) ([][]string, error) {
	reader := csv.NewReader(file)
	// Column count is validated per row in rowsToStudents for a clearer error
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedRow, err)
	}

	if len(records) == 0 {
		return nil, nil
	}
	return records[1:], nil
}

// readXLSXRows reads all data rows of the first sheet of an XLSX stream,
// skipping the header row
func readXLSXRows(file io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn().Err(err).Msg("Error closing excel file")
		}
	}()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, errors.New("excel file does not contain any sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows from sheet %s: %w", sheetName, err)
	}

	if len(rows) == 0 {
		return nil, nil
	}
	return rows[1:], nil
}

// rowsToStudents maps positional columns onto students. The whole batch is
// rejected on the first wrong column count or non-numeric grade.
func rowsToStudents(rows [][]string) ([]*models.Student, error) {
	students := make([]*models.Student, 0, len(rows))

	for i, row := range rows {
		// Header is row 1, the first data row is row 2
		rowNum := i + 2

		if len(row) != importColumnCount {
			return nil, fmt.Errorf("%w: row %d has %d columns, expected %d",
				apperrors.ErrMalformedRow, rowNum, len(row), importColumnCount)
		}

		grade, err := strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d has non-numeric grade %q",
				apperrors.ErrMalformedRow, rowNum, row[4])
		}

		students = append(students, &models.Student{
			LastName:  row[0],
			FirstName: row[1],
			Faculty:   row[2],
			Course:    row[3],
			Grade:     grade,
		})
	}

	return students, nil
}
