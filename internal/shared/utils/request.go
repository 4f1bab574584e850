package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// ParseID parses a positive int64 path parameter.
func ParseID(c *gin.Context, param string) (int64, error) {
	raw := c.Param(param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s: %q", param, raw)
	}
	return id, nil
}

// QueryInt returns the integer query value, or def when absent or malformed.
func QueryInt(c *gin.Context, key string, def int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// QueryBool accepts true/1/yes in any case.
func QueryBool(c *gin.Context, key string) bool {
	switch strings.ToLower(strings.TrimSpace(c.Query(key))) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// PageFromQuery reads page, page_size and all.
func PageFromQuery(c *gin.Context, defaultSize int) Page {
	return NewPage(
		QueryInt(c, "page", 1),
		QueryInt(c, "page_size", defaultSize),
		defaultSize,
		QueryBool(c, "all"),
	)
}

// SortParam accepts "sort" and the older "ordering" parameter.
func SortParam(c *gin.Context) string {
	if s := c.Query("sort"); s != "" {
		return s
	}
	return c.Query("ordering")
}
