package utils

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const maxPageLimit = 100

// Pagination holds pagination parameters. A zero Limit means the caller
// asked for the whole collection.
type Pagination struct {
	Page   int
	Limit  int
	Offset int
}

// ParsePagination reads the optional page and limit query params. Without
// either param the result is unpaged.
func ParsePagination(c *fiber.Ctx) Pagination {
	if c.Query("page") == "" && c.Query("limit") == "" {
		return Pagination{}
	}

	page := parseInt(c.Query("page", "1"), 1)
	limit := parseInt(c.Query("limit", "20"), 20)
	if limit <= 0 {
		limit = 20
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if page <= 0 {
		page = 1
	}

	return Pagination{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// Paginate returns the window of records selected by p.
func Paginate[T any](records []T, p Pagination) []T {
	if p.Limit == 0 {
		return records
	}
	if p.Offset >= len(records) {
		return []T{}
	}
	end := p.Offset + p.Limit
	if end > len(records) {
		end = len(records)
	}
	return records[p.Offset:end]
}

func parseInt(value string, fallback int) int {
	if parsed, err := strconv.Atoi(value); err == nil {
		return parsed
	}
	return fallback
}
