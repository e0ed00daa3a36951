package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/registrar-api/internal/models"
	appErrors "github.com/noah-isme/registrar-api/pkg/errors"
)

type memoryAcademicLevelRepo struct {
	levels     map[string]models.AcademicLevel
	dependants map[string]int
}

func newMemoryAcademicLevelRepo() *memoryAcademicLevelRepo {
	return &memoryAcademicLevelRepo{levels: map[string]models.AcademicLevel{}, dependants: map[string]int{}}
}

func (m *memoryAcademicLevelRepo) List(ctx context.Context, isActive *bool) ([]models.AcademicLevel, error) {
	out := []models.AcademicLevel{}
	for _, l := range m.levels {
		if isActive == nil || l.IsActive == *isActive {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memoryAcademicLevelRepo) FindByID(ctx context.Context, id string) (*models.AcademicLevel, error) {
	l, ok := m.levels[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &l, nil
}

func (m *memoryAcademicLevelRepo) ExistsByKey(ctx context.Context, key models.AcademicLevelKey, excludeID string) (bool, error) {
	for _, l := range m.levels {
		if l.Key == key && l.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryAcademicLevelRepo) CountDependants(ctx context.Context, id string) (int, error) {
	return m.dependants[id], nil
}

func (m *memoryAcademicLevelRepo) Create(ctx context.Context, level *models.AcademicLevel) error {
	level.ID = fmt.Sprintf("lvl-%d", len(m.levels)+1)
	m.levels[level.ID] = *level
	return nil
}

func (m *memoryAcademicLevelRepo) Update(ctx context.Context, level *models.AcademicLevel) error {
	m.levels[level.ID] = *level
	return nil
}

func (m *memoryAcademicLevelRepo) Delete(ctx context.Context, id string) error {
	delete(m.levels, id)
	return nil
}

func TestAcademicLevelCreateNormalisesKey(t *testing.T) {
	repo := newMemoryAcademicLevelRepo()
	svc := NewAcademicLevelService(repo, nil, nil)

	level, err := svc.Create(context.Background(), AcademicLevelRequest{Key: " Senior_High ", Name: "Senior High School"})
	require.NoError(t, err)
	assert.Equal(t, models.AcademicLevelSeniorHigh, level.Key)
	assert.True(t, level.IsActive)

	_, err = svc.Create(context.Background(), AcademicLevelRequest{Key: "senior_high", Name: "Duplicate"})
	requireFieldError(t, err, "key")
}

func TestAcademicLevelRejectsUnknownKey(t *testing.T) {
	svc := NewAcademicLevelService(newMemoryAcademicLevelRepo(), nil, nil)

	_, err := svc.Create(context.Background(), AcademicLevelRequest{Key: "kindergarten"})
	requireFieldError(t, err, "key")
	assert.Contains(t, appErrors.FromError(err).Fields, "name")
}

func TestAcademicLevelUpdateKeepsOwnKey(t *testing.T) {
	repo := newMemoryAcademicLevelRepo()
	svc := NewAcademicLevelService(repo, nil, nil)
	ctx := context.Background()

	level, err := svc.Create(ctx, AcademicLevelRequest{Key: "college", Name: "College"})
	require.NoError(t, err)

	inactive := false
	updated, err := svc.Update(ctx, level.ID, AcademicLevelRequest{Key: "college", Name: "Tertiary", IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "Tertiary", updated.Name)
	assert.False(t, updated.IsActive)

	_, err = svc.Update(ctx, "missing", AcademicLevelRequest{Key: "college", Name: "Tertiary"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestAcademicLevelDeleteBlockedWhileReferenced(t *testing.T) {
	repo := newMemoryAcademicLevelRepo()
	svc := NewAcademicLevelService(repo, nil, nil)
	ctx := context.Background()

	level, err := svc.Create(ctx, AcademicLevelRequest{Key: "elementary", Name: "Elementary"})
	require.NoError(t, err)
	repo.dependants[level.ID] = 3

	err = svc.Delete(ctx, level.ID)
	assert.ErrorIs(t, err, appErrors.ErrConflict)

	repo.dependants[level.ID] = 0
	require.NoError(t, svc.Delete(ctx, level.ID))
	_, err = svc.Get(ctx, level.ID)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}
