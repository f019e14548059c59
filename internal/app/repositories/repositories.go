package repositories

import (
	"github.com/kkolkov/students-api/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	StudentRepository *StudentRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.SQLiteDB) *Repositories {
	return &Repositories{
		StudentRepository: NewStudentRepository(database),
	}
}
