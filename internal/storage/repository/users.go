package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/user-api/internal/models"
)

const userColumns = `id, username, email, full_name, phone_number, active`

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*models.User, error) {
	u := &models.User{}
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.PhoneNumber, &u.Active); err != nil {
		return nil, err
	}
	return u, nil
}

// GetByID возвращает пользователя по идентификатору.
func (s *Storage) GetByID(ctx context.Context, id int64) (*models.User, error) {
	const op = "storage.GetByID"
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, models.UserNotFound(id))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetByUsername возвращает пользователя по username.
func (s *Storage) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetByUsername"
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, models.NotFound("User not found with username: %s", username))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetByEmail возвращает пользователя по email.
func (s *Storage) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetByEmail"
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, models.NotFound("User not found with email: %s", email))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ExistsByUsername проверяет, занят ли username.
func (s *Storage) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	const op = "storage.ExistsByUsername"
	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// ExistsByEmail проверяет, занят ли email.
func (s *Storage) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const op = "storage.ExistsByEmail"
	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// orderBy собирает ORDER BY из белого списка колонок; id добавляется для устойчивого порядка.
func orderBy(req models.PageRequest) (string, error) {
	col, ok := models.SortColumn(req.SortField)
	if !ok {
		return "", models.InvalidInput("Unknown sort field: %s", req.SortField)
	}
	dir := "ASC"
	if req.Direction == models.SortDesc {
		dir = "DESC"
	}
	clause := " ORDER BY " + col + " " + dir
	if col != "id" {
		clause += ", id ASC"
	}
	return clause, nil
}

// List возвращает страницу пользователей и общее количество.
func (s *Storage) List(ctx context.Context, req models.PageRequest) ([]models.User, int64, error) {
	const op = "storage.List"
	order, err := orderBy(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	total, err := s.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT ` + userColumns + ` FROM users` + order + ` LIMIT $1 OFFSET $2`
	users, err := s.queryUsers(ctx, query, req.Size, req.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return users, total, nil
}

// Search ищет пользователей, у которых username или email содержит query без учёта регистра.
// Используется strpos, чтобы символы % и _ в запросе не работали как шаблоны LIKE.
func (s *Storage) Search(ctx context.Context, q string, req models.PageRequest) ([]models.User, int64, error) {
	const op = "storage.Search"
	order, err := orderBy(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	const where = ` WHERE strpos(lower(username), lower($1)) > 0 OR strpos(lower(email), lower($1)) > 0`

	var total int64
	if err = s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`+where, q).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT ` + userColumns + ` FROM users` + where + order + ` LIMIT $2 OFFSET $3`
	users, err := s.queryUsers(ctx, query, q, req.Size, req.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return users, total, nil
}

func (s *Storage) queryUsers(ctx context.Context, query string, args ...any) ([]models.User, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *u)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Create сохраняет нового пользователя и возвращает его с назначенным ID.
func (s *Storage) Create(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.Create"
	query := `INSERT INTO users (username, email, full_name, phone_number, active)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query,
		user.Username, user.Email, user.FullName, user.PhoneNumber, user.Active))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, uniqueViolation(err, user))
	}
	return u, nil
}

// Update полностью заменяет поля пользователя с user.ID.
func (s *Storage) Update(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.Update"
	query := `UPDATE users
			  SET username = $1, email = $2, full_name = $3, phone_number = $4, active = $5
			  WHERE id = $6
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query,
		user.Username, user.Email, user.FullName, user.PhoneNumber, user.Active, user.ID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, models.UserNotFound(user.ID))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, uniqueViolation(err, user))
	}
	return u, nil
}

// Delete удаляет пользователя по ID.
func (s *Storage) Delete(ctx context.Context, id int64) error {
	const op = "storage.Delete"
	res, err := s.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, models.UserNotFound(id))
	}
	return nil
}

// Count возвращает количество пользователей.
func (s *Storage) Count(ctx context.Context) (int64, error) {
	const op = "storage.Count"
	var n int64
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}
