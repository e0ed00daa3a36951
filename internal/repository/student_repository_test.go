package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var studentRowColumns = []string{"id", "student_number", "full_name", "academic_level_id", "active", "created_at", "updated_at"}

func TestStudentRepositoryFindManyKeysByID(t *testing.T) {
	db, mock := newRegistrarMock(t)
	repo := NewStudentRepository(db)
	now := time.Now()

	rows := sqlmock.NewRows(studentRowColumns).
		AddRow("stu-1", "2024-001", "Ana Cruz", "shs", true, now, now).
		AddRow("stu-2", "2024-002", "Ben Reyes", "shs", true, now, now)
	mock.ExpectQuery("FROM students WHERE id IN").WithArgs("stu-1", "stu-2", "stu-3").WillReturnRows(rows)

	students, err := repo.FindMany(context.Background(), []string{"stu-1", "stu-2", "stu-3"})
	require.NoError(t, err)
	assert.Len(t, students, 2)
	assert.Equal(t, "Ben Reyes", students["stu-2"].FullName)
	_, found := students["stu-3"]
	assert.False(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryFindManyEmptySkipsQuery(t *testing.T) {
	db, mock := newRegistrarMock(t)
	repo := NewStudentRepository(db)

	students, err := repo.FindMany(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, students)
	assert.NoError(t, mock.ExpectationsWereMet())
}
