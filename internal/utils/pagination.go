// internal/utils/pagination.go
package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	DefaultFeedLimit = 20
	MaxFeedLimit     = 100
)

type PaginationParams struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Sort  string `json:"sort"`
}

// GetPaginationParams reads ?page&limit&sort, falling back to defaultSort
// when sort is not one of allowedSorts.
func GetPaginationParams(c *gin.Context, defaultSort string, allowedSorts ...string) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultFeedLimit)))
	sort := c.DefaultQuery("sort", defaultSort)

	// Validate and set defaults
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultFeedLimit
	}
	if limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}

	validSort := false
	for _, s := range allowedSorts {
		if s == sort {
			validSort = true
			break
		}
	}
	if !validSort {
		sort = defaultSort
	}

	return PaginationParams{
		Page:  page,
		Limit: limit,
		Sort:  sort,
	}
}

func ApplyPagination(db *gorm.DB, params PaginationParams) *gorm.DB {
	offset := (params.Page - 1) * params.Limit
	return db.Offset(offset).Limit(params.Limit)
}

func SetPaginationHeaders(c *gin.Context, params PaginationParams, total int64) {
	c.Header("X-Total-Count", strconv.FormatInt(total, 10))
	c.Header("X-Page", strconv.Itoa(params.Page))
	c.Header("X-Per-Page", strconv.Itoa(params.Limit))
}
