package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/gator-scheduler/schedule-api/internal/models"
)

// CatalogRepository reads the course catalog from Postgres. Section data
// is stored denormalized as JSONB because the engine only ever consumes
// a course with its full section list.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository constructs the catalog repository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

type courseRow struct {
	Code          string `db:"code"`
	Name          string `db:"name"`
	TermInd       string `db:"term_ind"`
	Description   string `db:"description"`
	Prerequisites string `db:"prerequisites"`
	Sections      []byte `db:"sections"`
}

const courseColumns = "code, name, term_ind, description, prerequisites, sections"

// Search returns courses whose code starts with the normalized term
// (whitespace stripped, uppercased), paginated and ordered the way the
// catalog UI lists them.
func (r *CatalogRepository) Search(ctx context.Context, term string, page, pageSize int) ([]models.Course, int, error) {
	prefix := NormalizeCourseCode(term)
	if prefix == "" {
		return nil, 0, nil
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM courses WHERE code LIKE $1 || '%'"
	if err := r.db.GetContext(ctx, &total, countQuery, prefix); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}

	offset := (page - 1) * pageSize
	listQuery := fmt.Sprintf(
		"SELECT %s FROM courses WHERE code LIKE $1 || '%%' ORDER BY code, term_ind LIMIT $2 OFFSET $3",
		courseColumns,
	)

	var rows []courseRow
	if err := r.db.SelectContext(ctx, &rows, listQuery, prefix, pageSize, offset); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}

	courses := make([]models.Course, 0, len(rows))
	for _, row := range rows {
		course, err := row.toModel()
		if err != nil {
			return nil, 0, err
		}
		courses = append(courses, course)
	}
	return courses, total, nil
}

// FindByCode returns the catalog entry for an exact course code. The
// caller owns translating sql.ErrNoRows into a domain error.
func (r *CatalogRepository) FindByCode(ctx context.Context, code string) (*models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM courses WHERE code = $1 ORDER BY term_ind LIMIT 1", courseColumns)

	var row courseRow
	if err := r.db.GetContext(ctx, &row, query, NormalizeCourseCode(code)); err != nil {
		return nil, err
	}

	course, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (row courseRow) toModel() (models.Course, error) {
	course := models.Course{
		Code:          row.Code,
		Name:          row.Name,
		TermIndicator: row.TermInd,
		Description:   row.Description,
		Prerequisites: row.Prerequisites,
	}
	if len(row.Sections) > 0 {
		if err := json.Unmarshal(row.Sections, &course.Sections); err != nil {
			return models.Course{}, fmt.Errorf("unmarshal sections for %s: %w", row.Code, err)
		}
	}
	return course, nil
}

// NormalizeCourseCode strips whitespace and uppercases a user-typed
// course code so "mac 2311" matches "MAC2311".
func NormalizeCourseCode(raw string) string {
	return strings.ToUpper(strings.Join(strings.Fields(raw), ""))
}
