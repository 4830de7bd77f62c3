// Package handler provides HTTP handlers for the API.
package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bizhealth/reportgen/internal/exporter"
	"github.com/bizhealth/reportgen/pkg/errors"
)

// Pagination defaults for list endpoints
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// parsePagination reads page and page_size, clamping them to sane bounds
func parsePagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// parseOptionalBool returns nil when the query parameter is absent
func parseOptionalBool(c *gin.Context, key string) (*bool, error) {
	raw, ok := c.GetQuery(key)
	if !ok {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, errors.ErrValidation("invalid " + key + " value: " + raw)
	}
	return &v, nil
}

// parseFormats reads a comma-separated export format list
func parseFormats(raw string) ([]exporter.Format, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var formats []exporter.Format
	for _, part := range strings.Split(raw, ",") {
		f, err := exporter.ParseFormat(part)
		if err != nil {
			return nil, err
		}
		formats = append(formats, f)
	}
	return formats, nil
}
