package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/registrar-api/internal/models"
	appErrors "github.com/noah-isme/registrar-api/pkg/errors"
)

// listFilterFromQuery reads the shared search/paging parameters.
func listFilterFromQuery(c *gin.Context) (models.ListFilter, error) {
	filter := models.ListFilter{
		Search:    strings.TrimSpace(c.Query("search")),
		SortBy:    c.Query("sort"),
		SortOrder: c.Query("order"),
	}
	filter.Page, filter.PageSize = pageFromQuery(c)
	active, err := boolQuery(c, "is_active")
	if err != nil {
		return filter, err
	}
	filter.IsActive = active
	return filter, nil
}

func pageFromQuery(c *gin.Context) (int, int) {
	page, size := 1, 20
	if v, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		page = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		size = v
	}
	return page, size
}

// boolQuery parses an optional boolean query parameter.
func boolQuery(c *gin.Context, key string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, appErrors.Field(key, key+" must be true or false")
	}
	return &value, nil
}
