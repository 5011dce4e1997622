// Package orm adds the few query helpers repositories share on top of gorm:
// pagination and read-through caching.
package orm

import (
	"context"
	"time"

	"github.com/shashiranjanraj/sellerhub/pkg/cache"
	"github.com/shashiranjanraj/sellerhub/pkg/logger"
	"gorm.io/gorm"
)

const (
	DefaultPerPage = 15
	MaxPerPage     = 100
)

// Pagination describes one page of a listing.
type Pagination struct {
	Page     int   `json:"page"`
	PerPage  int   `json:"per_page"`
	Total    int64 `json:"total"`
	LastPage int   `json:"last_page"`
}

// NewPagination clamps page and perPage into a usable range.
func NewPagination(page, perPage int) Pagination {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return Pagination{Page: page, PerPage: perPage}
}

// Offset is the number of rows before this page.
func (p Pagination) Offset() int { return (p.Page - 1) * p.PerPage }

// Query is a thin chainable wrapper over one datasource.
type Query struct {
	db *gorm.DB
}

// On starts a query against db.
func On(db *gorm.DB) *Query {
	return &Query{db: db}
}

func (q *Query) WithContext(ctx context.Context) *Query {
	return &Query{db: q.db.WithContext(ctx)}
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query interface{}, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Order(value interface{}) *Query {
	return &Query{db: q.db.Order(value)}
}

func (q *Query) Preload(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Preload(query, args...)}
}

// DB exposes the underlying statement for anything not wrapped here.
func (q *Query) DB() *gorm.DB { return q.db }

func (q *Query) Get(dest interface{}) error {
	return q.db.Find(dest).Error
}

func (q *Query) First(dest interface{}) error {
	return q.db.First(dest).Error
}

// Paginate counts the matching rows and loads one page of them into dest.
// A Model must be set on the query so the count has a table.
func (q *Query) Paginate(dest interface{}, page, perPage int) (Pagination, error) {
	p := NewPagination(page, perPage)

	if err := q.db.Session(&gorm.Session{}).Count(&p.Total).Error; err != nil {
		return p, err
	}
	p.LastPage = int((p.Total + int64(p.PerPage) - 1) / int64(p.PerPage))
	if p.LastPage == 0 {
		p.LastPage = 1
	}

	err := q.db.Offset(p.Offset()).Limit(p.PerPage).Find(dest).Error
	return p, err
}

// Cache serves dest from store when key is present, otherwise runs First and
// stores the row for ttl. A nil store disables caching.
func (q *Query) Cache(ctx context.Context, store cache.Store, key string, ttl time.Duration, dest interface{}) (hit bool, err error) {
	if store != nil && store.Get(ctx, key, dest) {
		return true, nil
	}

	if err := q.db.First(dest).Error; err != nil {
		return false, err
	}

	if store != nil {
		if err := store.Set(ctx, key, dest, ttl); err != nil {
			logger.WithCtx(ctx).Warn("cache write failed", "key", key, "error", err)
		}
	}
	return false, nil
}
