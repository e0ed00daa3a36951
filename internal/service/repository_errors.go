package service

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/noah-isme/registrar-api/internal/models"
	"github.com/noah-isme/registrar-api/pkg/database"
	appErrors "github.com/noah-isme/registrar-api/pkg/errors"
)

// isMissingRow treats malformed ids like absent rows; Postgres rejects them before lookup.
func isMissingRow(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || database.IsInvalidTextRepresentation(err)
}

// mapReadError turns a repository lookup failure into a NotFound or internal error.
func mapReadError(err error, entity string) error {
	if isMissingRow(err) {
		return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
	}
	return appErrors.Internal(err, "failed to load "+entity)
}

// mapWriteError handles insert/update/delete failures. Unique violations that slipped
// past the pre-check surface on uniqueField.
func mapWriteError(err error, entity, action, uniqueField string) error {
	switch {
	case isMissingRow(err):
		return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
	case uniqueField != "" && database.IsUniqueViolation(err):
		return appErrors.Field(uniqueField, fmt.Sprintf("%s already exists", uniqueField))
	case database.IsForeignKeyViolation(err):
		return appErrors.Clone(appErrors.ErrConflict, entity+" is referenced by other records")
	default:
		return appErrors.Internal(err, fmt.Sprintf("failed to %s %s", action, entity))
	}
}

// blockWhenReferenced returns a conflict when count > 0.
func blockWhenReferenced(count int, err error, entity string) error {
	if err != nil {
		return appErrors.Internal(err, "failed to check "+entity+" references")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("%s is still referenced by %d record(s)", entity, count))
	}
	return nil
}

func paginate(page, size, total int) *models.Pagination {
	page, size = pageDefaults(page, size)
	return &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}
