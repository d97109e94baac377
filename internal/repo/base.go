package repo

import (
	"context"
	"strings"

	"github.com/angelmondragon/vtps-backend/pkg/db/models"
	"github.com/angelmondragon/vtps-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base provides a shared foundation for domain repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// PersonRef loads the identity and ownership columns of a tracked person.
func (b Base) PersonRef(ctx context.Context, id uuid.UUID) (*models.VulnerablePerson, error) {
	var person models.VulnerablePerson
	err := b.DB(ctx).
		Select("id", "first_name", "last_name", "created_by_id", "assigned_supervisor_id").
		First(&person, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &person, nil
}

// UserExists reports whether id names a user.
func (b Base) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := b.DB(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Search ORs a case-insensitive substring match over the given columns.
func Search(q *gorm.DB, term string, columns ...string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return q
	}
	pattern := "%" + strings.ToLower(escapeLike(term)) + "%"
	clauses := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, col := range columns {
		clauses = append(clauses, "LOWER("+col+") LIKE ? ESCAPE '\\'")
		args = append(args, pattern)
	}
	return q.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

// Page counts the filtered query, then loads one page of rows in the given
// order with the named associations preloaded.
func Page[T any](q *gorm.DB, params pagination.Params, order string, preloads ...string) ([]T, int64, error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	find := q.Session(&gorm.Session{})
	for _, name := range preloads {
		find = find.Preload(name)
	}
	var rows []T
	err := find.
		Order(order).
		Offset(params.Offset()).
		Limit(pagination.NormalizeLimit(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// First loads the row of T with the given primary key.
func First[T any](q *gorm.DB, id uuid.UUID) (*T, error) {
	var row T
	if err := q.First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// DeleteByID removes the row of T with the given primary key, returning
// gorm.ErrRecordNotFound when nothing matched.
func DeleteByID[T any](q *gorm.DB, id uuid.UUID) error {
	var row T
	res := q.Delete(&row, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
