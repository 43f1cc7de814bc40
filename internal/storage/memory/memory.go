// Package memory реализует хранилище пользователей в памяти процесса
// на базе go-memdb. Используется по умолчанию и в тестах, когда
// PostgreSQL не нужен.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/hashicorp/go-memdb"

	"github.com/magabrotheeeer/user-api/internal/models"
)

const (
	tableUsers    = "users"
	indexID       = "id"
	indexUsername = "username"
	indexEmail    = "email"
)

func schema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			tableUsers: {
				Name: tableUsers,
				Indexes: map[string]*memdb.IndexSchema{
					indexID: {
						Name:    indexID,
						Unique:  true,
						Indexer: &memdb.IntFieldIndex{Field: "ID"},
					},
					indexUsername: {
						Name:    indexUsername,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Username"},
					},
					indexEmail: {
						Name:    indexEmail,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Email"},
					},
				},
			},
		},
	}
}

// Storage хранит пользователей в памяти.
//
// Уникальность username и email проверяется внутри транзакции записи;
// go-memdb допускает только одного писателя, поэтому проверка и вставка атомарны.
type Storage struct {
	db     *memdb.MemDB
	lastID atomic.Int64
}

// New создаёт пустое хранилище.
func New() (*Storage, error) {
	const op = "storage.memory.New"
	db, err := memdb.NewMemDB(schema())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Storage{db: db}, nil
}

// GetByID возвращает пользователя по идентификатору.
func (s *Storage) GetByID(ctx context.Context, id int64) (*models.User, error) {
	const op = "storage.memory.GetByID"
	return s.first(ctx, op, indexID, id, models.UserNotFound(id))
}

// GetByUsername возвращает пользователя по имени.
func (s *Storage) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.memory.GetByUsername"
	return s.first(ctx, op, indexUsername, username, models.NotFound("User not found with username: %s", username))
}

// GetByEmail возвращает пользователя по email.
func (s *Storage) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.memory.GetByEmail"
	return s.first(ctx, op, indexEmail, email, models.NotFound("User not found with email: %s", email))
}

func (s *Storage) first(ctx context.Context, op, index string, arg any, notFound error) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	txn := s.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(tableUsers, index, arg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%s: %w", op, notFound)
	}
	u := *raw.(*models.User)
	return &u, nil
}

// ExistsByUsername проверяет, занят ли username.
func (s *Storage) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	const op = "storage.memory.ExistsByUsername"
	return s.exists(ctx, op, indexUsername, username)
}

// ExistsByEmail проверяет, занят ли email.
func (s *Storage) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const op = "storage.memory.ExistsByEmail"
	return s.exists(ctx, op, indexEmail, email)
}

func (s *Storage) exists(ctx context.Context, op, index, value string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	txn := s.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(tableUsers, index, value)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return raw != nil, nil
}

// List возвращает страницу пользователей и общее количество.
func (s *Storage) List(ctx context.Context, req models.PageRequest) ([]models.User, int64, error) {
	const op = "storage.memory.List"
	return s.page(ctx, op, req, func(models.User) bool { return true })
}

// Search ищет пользователей, у которых username или email содержит query без учёта регистра.
func (s *Storage) Search(ctx context.Context, query string, req models.PageRequest) ([]models.User, int64, error) {
	const op = "storage.memory.Search"
	q := strings.ToLower(query)
	return s.page(ctx, op, req, func(u models.User) bool {
		return strings.Contains(strings.ToLower(u.Username), q) ||
			strings.Contains(strings.ToLower(u.Email), q)
	})
}

func (s *Storage) page(ctx context.Context, op string, req models.PageRequest, match func(models.User) bool) ([]models.User, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	less, ok := lessFuncs[req.SortField]
	if !ok {
		return nil, 0, fmt.Errorf("%s: %w", op, models.InvalidInput("Unknown sort field: %s", req.SortField))
	}

	txn := s.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tableUsers, indexID)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	var all []models.User
	for raw := it.Next(); raw != nil; raw = it.Next() {
		u := *raw.(*models.User)
		if match(u) {
			all = append(all, u)
		}
	}

	// При равенстве ключа порядок задаётся по id, чтобы страницы не пересекались.
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if req.Direction == models.SortDesc {
			a, b = b, a
		}
		if less(a, b) {
			return true
		}
		if less(b, a) {
			return false
		}
		return all[i].ID < all[j].ID
	})

	total := int64(len(all))
	from := req.Offset()
	if from >= total {
		return []models.User{}, total, nil
	}
	to := min(from+int64(req.Size), total)
	return all[from:to], total, nil
}

var lessFuncs = map[string]func(a, b models.User) bool{
	"id":          func(a, b models.User) bool { return a.ID < b.ID },
	"username":    func(a, b models.User) bool { return a.Username < b.Username },
	"email":       func(a, b models.User) bool { return a.Email < b.Email },
	"fullName":    func(a, b models.User) bool { return a.FullName < b.FullName },
	"phoneNumber": func(a, b models.User) bool { return a.PhoneNumber < b.PhoneNumber },
	"active":      func(a, b models.User) bool { return !a.Active && b.Active },
}

// Create сохраняет нового пользователя и назначает ему ID.
func (s *Storage) Create(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.memory.Create"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	txn := s.db.Txn(true)
	defer txn.Abort()

	if err := checkUnique(txn, user, 0); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user.ID = s.lastID.Add(1)
	stored := user
	if err := txn.Insert(tableUsers, &stored); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	txn.Commit()
	return &user, nil
}

// Update полностью заменяет поля существующего пользователя.
func (s *Storage) Update(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.memory.Update"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	txn := s.db.Txn(true)
	defer txn.Abort()

	existing, err := txn.First(tableUsers, indexID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if existing == nil {
		return nil, fmt.Errorf("%s: %w", op, models.UserNotFound(user.ID))
	}
	if err = checkUnique(txn, user, user.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	// Старый объект удаляется, чтобы из уникальных индексов ушли прежние username и email.
	if err = txn.Delete(tableUsers, existing); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	stored := user
	if err = txn.Insert(tableUsers, &stored); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	txn.Commit()
	return &user, nil
}

// checkUnique проверяет, что username и email не заняты другим пользователем, кроме selfID.
func checkUnique(txn *memdb.Txn, user models.User, selfID int64) error {
	raw, err := txn.First(tableUsers, indexUsername, user.Username)
	if err != nil {
		return err
	}
	if raw != nil && raw.(*models.User).ID != selfID {
		return models.UsernameTaken(user.Username)
	}
	raw, err = txn.First(tableUsers, indexEmail, user.Email)
	if err != nil {
		return err
	}
	if raw != nil && raw.(*models.User).ID != selfID {
		return models.EmailTaken(user.Email)
	}
	return nil
}

// Delete удаляет пользователя по ID.
func (s *Storage) Delete(ctx context.Context, id int64) error {
	const op = "storage.memory.Delete"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	txn := s.db.Txn(true)
	defer txn.Abort()

	n, err := txn.DeleteAll(tableUsers, indexID, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, models.UserNotFound(id))
	}
	txn.Commit()
	return nil
}

// Count возвращает количество пользователей.
func (s *Storage) Count(ctx context.Context) (int64, error) {
	const op = "storage.memory.Count"
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	txn := s.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tableUsers, indexID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	var n int64
	for raw := it.Next(); raw != nil; raw = it.Next() {
		n++
	}
	return n, nil
}
