package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/training/practice/internal/model"
	"github.com/training/practice/internal/pagination"
)

const subjectColumns = `id, name, description, code, user_id, position, created_at, updated_at`

var SubjectSortable = pagination.Sortable{
	"id":         "id",
	"name":       "name",
	"code":       "code",
	"createdAt":  "created_at",
	"created_at": "created_at",
	"updatedAt":  "updated_at",
	"updated_at": "updated_at",
}

type SubjectRepository struct {
	pool *pgxpool.Pool
}

func NewSubjectRepository(pool *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{pool: pool}
}

func scanSubject(row pgx.Row, s *model.Subject) error {
	return row.Scan(&s.ID, &s.Name, &s.Description, &s.Code, &s.UserID, &s.Position, &s.CreatedAt, &s.UpdatedAt)
}

func insertSubject(ctx context.Context, db DBTX, s *model.Subject) error {
	_, err := db.Exec(ctx,
		`INSERT INTO subjects (`+subjectColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.Name, s.Description, s.Code, s.UserID, s.Position, s.CreatedAt, s.UpdatedAt,
	)
	return err
}

func (r *SubjectRepository) GetByID(ctx context.Context, id string) (*model.Subject, error) {
	s := &model.Subject{}
	err := scanSubject(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+subjectColumns+` FROM subjects WHERE id = $1`, id), s)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// ListPaged returns one page of subjects and the total row count.
func (r *SubjectRepository) ListPaged(ctx context.Context, page pagination.Request) ([]model.Subject, int64, error) {
	db := conn(ctx, r.pool)

	var total int64
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM subjects`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM subjects ORDER BY %s %s, id ASC LIMIT $1 OFFSET $2`,
		subjectColumns, page.Column, page.Direction)
	subjects, err := querySubjects(ctx, db, query, page.Size, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	return subjects, total, nil
}

// SearchByName matches a case-insensitive substring of the name.
func (r *SubjectRepository) SearchByName(ctx context.Context, q string, limit int) ([]model.Subject, error) {
	return querySubjects(ctx, conn(ctx, r.pool),
		`SELECT `+subjectColumns+` FROM subjects
		 WHERE name ILIKE '%' || $1 || '%'
		 ORDER BY name ASC, id ASC LIMIT $2`,
		escapeLike(q), limit,
	)
}

func (r *SubjectRepository) ListByCode(ctx context.Context, code string) ([]model.Subject, error) {
	return querySubjects(ctx, conn(ctx, r.pool),
		`SELECT `+subjectColumns+` FROM subjects WHERE code = $1 ORDER BY name ASC, id ASC`, code)
}

func (r *SubjectRepository) Update(ctx context.Context, s *model.Subject) error {
	tag, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE subjects SET name = $1, description = $2, code = $3, updated_at = $4 WHERE id = $5`,
		s.Name, s.Description, s.Code, s.UpdatedAt, s.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SubjectRepository) Delete(ctx context.Context, id string) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func querySubjects(ctx context.Context, db DBTX, query string, args ...any) ([]model.Subject, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subjects := []model.Subject{}
	for rows.Next() {
		var s model.Subject
		if err := scanSubject(rows, &s); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}
