package database

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Scope = func(db *gorm.DB) *gorm.DB

type PaginationResult struct {
	CurrentPage int         `json:"currentPage"`
	PerPage     int         `json:"perPage"`
	TotalItems  int64       `json:"totalItems"`
	TotalPages  int         `json:"totalPages"`
	Data        interface{} `json:"data"`
}

type CursorResult struct {
	Items      interface{} `json:"items"`
	NextCursor string      `json:"nextCursor"`
	HasMore    bool        `json:"hasMore"`
	PerPage    int         `json:"perPage"`
}

type OrderField struct {
	Field     string
	Direction DirectionEnum
}

func (o OrderField) ToString() string {
	return fmt.Sprintf("%s %s", o.Field, o.Direction)
}

// structField maps a column such as "items.date_reported" to DateReported.
func (o OrderField) structField() string {
	parts := strings.Split(o.Field, ".")
	column := parts[len(parts)-1]
	caser := cases.Title(language.Und)
	var sb strings.Builder
	for _, word := range strings.Split(column, "_") {
		if strings.EqualFold(word, "id") {
			sb.WriteString("ID")
			continue
		}
		sb.WriteString(caser.String(word))
	}
	return sb.String()
}

type PaginationQuery struct {
	Page  int `form:"page" json:"page"`
	Limit int `form:"limit" json:"limit"`
}

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

func NewPaginationRequest(c *gin.Context) *PaginationQuery {
	var query PaginationQuery
	_ = c.ShouldBindQuery(&query)
	return query.Parse()
}

func (q *PaginationQuery) Parse() *PaginationQuery {
	page := q.Page
	if page <= 0 {
		page = defaultPage
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return &PaginationQuery{
		Page:  page,
		Limit: limit,
	}
}

func (q *PaginationQuery) Paginate() Scope {
	return func(db *gorm.DB) *gorm.DB {
		qry := q.Parse()
		offset := (qry.Page - 1) * qry.Limit
		return db.Offset(offset).Limit(qry.Limit)
	}
}

// FindWithPagination counts and loads one page of dest. Scopes carry the
// filters; order is applied to the page query only:
//
//	var items []model.Item
//	result, err := db.FindWithPagination(database.NewPaginationRequest(c), &items,
//		database.OrderField{Field: "date_reported", Direction: database.DESC},
//		func(tx *gorm.DB) *gorm.DB { return tx.Where("item_type = ?", "lost") })
func (db *Database) FindWithPagination(query *PaginationQuery, dest interface{}, order OrderField, scopes ...Scope) (*PaginationResult, error) {
	query = query.Parse()
	var totalItems int64

	if err := db.Model(dest).Scopes(scopes...).Count(&totalItems).Error; err != nil {
		return nil, err
	}

	totalPages := int(math.Ceil(float64(totalItems) / float64(query.Limit)))

	if err := db.Scopes(scopes...).Order(order.ToString()).Scopes(query.Paginate()).Find(dest).Error; err != nil {
		return nil, err
	}

	return &PaginationResult{
		CurrentPage: query.Page,
		PerPage:     query.Limit,
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		Data:        dest,
	}, nil
}

// FindWithCursor loads the next slice after an encrypted cursor. Only
// descending orders on a unique, comparable column are supported.
//
//	var items []model.Item
//	result, err := db.FindWithCursor("", 10, &items, database.OrderField{Field: "id", Direction: database.DESC})
func (db *Database) FindWithCursor(encryptedCursor string, limit int, dest interface{}, order OrderField, scopes ...Scope) (*CursorResult, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	limit++
	query := db.DB.Scopes(scopes...)

	if encryptedCursor != "" {
		cursor, err := db.cursorCrypto.decrypt(encryptedCursor)
		if err != nil {
			return nil, fmt.Errorf("invalid cursor: %w", err)
		}
		if cursor != "" {
			query = query.Where(order.Field+" < ?", cursor)
		}
	}

	query = query.Order(order.ToString()).Limit(limit)

	if err := query.Find(dest).Error; err != nil {
		return nil, err
	}

	result := &CursorResult{
		Items:   dest,
		PerPage: limit - 1,
	}

	items := reflect.ValueOf(dest).Elem()
	if items.Len() == limit {
		items.Set(items.Slice(0, items.Len()-1))
		result.HasMore = true

		lastItem := reflect.Indirect(items.Index(items.Len() - 1))
		cursorField := lastItem.FieldByName(order.structField())
		if !cursorField.IsValid() {
			return nil, fmt.Errorf("cursor field %s not found on %s", order.structField(), lastItem.Type())
		}
		nextCursor, err := db.cursorCrypto.encrypt(fmt.Sprint(cursorField.Interface()))
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt cursor: %w", err)
		}
		result.NextCursor = nextCursor
	}

	return result, nil
}
