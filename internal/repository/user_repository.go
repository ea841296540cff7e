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

const userColumns = `id, name, email, phone, department, status, created_at, updated_at`

// UserSortable lists the user fields a page can be ordered by.
var UserSortable = pagination.Sortable{
	"id":         "id",
	"name":       "name",
	"email":      "email",
	"department": "department",
	"status":     "status",
	"createdAt":  "created_at",
	"created_at": "created_at",
	"updatedAt":  "updated_at",
	"updated_at": "updated_at",
}

// UserFilter narrows an unpaged user listing. Nil fields do not filter.
type UserFilter struct {
	Department *string
	Status     *model.UserStatus
}

// UserRepository handles user data access. Subjects are loaded with their
// owner in position order.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row, u *model.User) error {
	return row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Department, &u.Status, &u.CreatedAt, &u.UpdatedAt)
}

// Create inserts a user together with any subjects it already owns.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	db := conn(ctx, r.pool)
	_, err := db.Exec(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Name, u.Email, u.Phone, u.Department, string(u.Status), u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}

	for i := range u.Subjects {
		s := &u.Subjects[i]
		s.UserID = &u.ID
		s.Position = i
		if err := insertSubject(ctx, db, s); err != nil {
			return err
		}
	}
	return nil
}

// GetByID retrieves a user and its subjects.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	db := conn(ctx, r.pool)
	u := &model.User{}
	err := scanUser(db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id), u)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	users := []model.User{*u}
	if err := attachSubjects(ctx, db, users); err != nil {
		return nil, err
	}
	return &users[0], nil
}

// GetByEmail retrieves a user by email without its subjects.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u := &model.User{}
	err := scanUser(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email), u)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := conn(ctx, r.pool).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

func (r *UserRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := conn(ctx, r.pool).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// ListPaged returns one page of users and the total row count.
func (r *UserRepository) ListPaged(ctx context.Context, page pagination.Request) ([]model.User, int64, error) {
	db := conn(ctx, r.pool)

	var total int64
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}

	// Column and direction come from the sort whitelist.
	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY %s %s, id ASC LIMIT $1 OFFSET $2`,
		userColumns, page.Column, page.Direction)
	users, err := r.queryUsers(ctx, db, query, page.Size, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// List returns every user matching filter, ordered by name.
func (r *UserRepository) List(ctx context.Context, filter UserFilter) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE 1=1`
	var args []any
	if filter.Department != nil {
		args = append(args, *filter.Department)
		query += fmt.Sprintf(` AND department = $%d`, len(args))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	query += ` ORDER BY name ASC, id ASC`

	return r.queryUsers(ctx, conn(ctx, r.pool), query, args...)
}

// SearchByName matches a case-insensitive substring of the name.
func (r *UserRepository) SearchByName(ctx context.Context, q string, limit int) ([]model.User, error) {
	return r.queryUsers(ctx, conn(ctx, r.pool),
		`SELECT `+userColumns+` FROM users
		 WHERE name ILIKE '%' || $1 || '%'
		 ORDER BY name ASC, id ASC LIMIT $2`,
		escapeLike(q), limit,
	)
}

// Update writes every mutable column of u.
func (r *UserRepository) Update(ctx context.Context, u *model.User) error {
	tag, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE users SET name = $1, email = $2, phone = $3, department = $4, status = $5, updated_at = $6
		 WHERE id = $7`,
		u.Name, u.Email, u.Phone, u.Department, string(u.Status), u.UpdatedAt, u.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a user. Owned subjects go with it via ON DELETE CASCADE.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) CountByStatus(ctx context.Context, status model.UserStatus) (int64, error) {
	var n int64
	err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE status = $1`, string(status)).Scan(&n)
	return n, err
}

// AddSubject appends s after the owner's last subject and sets s.Position.
func (r *UserRepository) AddSubject(ctx context.Context, userID string, s *model.Subject) error {
	s.UserID = &userID
	err := conn(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO subjects (id, name, description, code, user_id, position, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5,
		         (SELECT COALESCE(MAX(position) + 1, 0) FROM subjects WHERE user_id = $5),
		         $6, $7)
		 RETURNING position`,
		s.ID, s.Name, s.Description, s.Code, userID, s.CreatedAt, s.UpdatedAt,
	).Scan(&s.Position)
	return err
}

func (r *UserRepository) queryUsers(ctx context.Context, db DBTX, query string, args ...any) ([]model.User, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := scanUser(rows, &u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := attachSubjects(ctx, db, users); err != nil {
		return nil, err
	}
	return users, nil
}

// attachSubjects loads the subjects of every user in one query.
func attachSubjects(ctx context.Context, db DBTX, users []model.User) error {
	if len(users) == 0 {
		return nil
	}
	ids := make([]string, len(users))
	index := make(map[string]int, len(users))
	for i := range users {
		ids[i] = users[i].ID
		index[users[i].ID] = i
		users[i].Subjects = []model.Subject{}
	}

	rows, err := db.Query(ctx,
		`SELECT `+subjectColumns+` FROM subjects
		 WHERE user_id = ANY($1)
		 ORDER BY user_id, position ASC`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var s model.Subject
		if err := scanSubject(rows, &s); err != nil {
			return err
		}
		if s.UserID == nil {
			continue
		}
		if i, ok := index[*s.UserID]; ok {
			users[i].Subjects = append(users[i].Subjects, s)
		}
	}
	return rows.Err()
}
