package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/accountd/internal/model"
)

var _ model.UserRepository = (*UserRepository)(nil)

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const selectUsers = `SELECT id, email, password, salt, roles, first_name, last_name, version, created_at, updated_at, deleted_at
			  FROM users`

// criteriaColumns maps public field names to the columns FindBy may filter on.
var criteriaColumns = map[string]string{
	"id":        "id",
	"email":     "email",
	"firstName": "first_name",
	"lastName":  "last_name",
}

// errNoMatch means the criteria can never match a row.
var errNoMatch = errors.New("criteria cannot match")

type UserRepository struct {
	db querier
}

func NewUserRepository(db querier) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// ValidateIDField reports whether id is a well-formed UUID.
func (r *UserRepository) ValidateIDField(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Find returns the live user with the given id, or nil if there is none.
func (r *UserRepository) Find(ctx context.Context, id string) (*model.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}

	query := selectUsers + ` WHERE id = $1 AND deleted_at IS NULL`
	user, err := scanUser(r.db.QueryRow(ctx, query, uid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// FindBy returns live users matching every criterion, oldest first.
func (r *UserRepository) FindBy(ctx context.Context, criteria model.Criteria) ([]*model.User, error) {
	where, args, err := buildCriteria(criteria)
	if err != nil {
		if errors.Is(err, errNoMatch) {
			return []*model.User{}, nil
		}
		return nil, err
	}

	rows, err := r.db.Query(ctx, selectUsers+where+` ORDER BY created_at, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	defer rows.Close()

	users := []*model.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// buildCriteria renders a WHERE clause over live rows. Keys are visited in
// sorted order so the same criteria always yield the same statement.
func buildCriteria(criteria model.Criteria) (string, []any, error) {
	keys := make([]string, 0, len(criteria))
	for k := range criteria {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	clauses := []string{"deleted_at IS NULL"}
	args := make([]any, 0, len(keys))
	for _, k := range keys {
		column, ok := criteriaColumns[k]
		if !ok {
			return "", nil, fmt.Errorf("%w: %s", model.ErrUnknownCriteria, k)
		}

		var value any = criteria[k]
		if k == "id" {
			uid, err := uuid.Parse(criteria[k])
			if err != nil {
				return "", nil, errNoMatch
			}
			value = uid
		}

		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID, &user.Email, &user.Password, &user.Salt, &user.Roles,
		&user.FirstName, &user.LastName, &user.Version,
		&user.CreatedAt, &user.UpdatedAt, &user.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	if user.Roles == nil {
		user.Roles = []string{}
	}
	return &user, nil
}
