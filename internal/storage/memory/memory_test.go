package memory

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/user-api/internal/models"
)

func newStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New()
	require.NoError(t, err)
	return s
}

func seed(t *testing.T, s *Storage, users ...models.User) []models.User {
	t.Helper()
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		created, err := s.Create(context.Background(), u)
		require.NoError(t, err)
		out = append(out, *created)
	}
	return out
}

func TestStorage_CreateAndGet(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()

	created, err := s.Create(ctx, models.User{Username: "alice", Email: "alice@example.com", FullName: "Alice", Active: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	byID, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *byID)

	byName, err := s.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	byEmail, err := s.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	second, err := s.Create(ctx, models.User{Username: "bob", Email: "bob@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)
}

func TestStorage_GetNotFound(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()

	_, err := s.GetByID(ctx, 99)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = s.GetByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = s.GetByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestStorage_ReturnedUserIsACopy(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()
	u := seed(t, s, models.User{Username: "alice", Email: "alice@example.com"})[0]

	got, err := s.GetByID(ctx, u.ID)
	require.NoError(t, err)
	got.Username = "mallory"

	again, err := s.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", again.Username)
}

func TestStorage_CreateConflicts(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()
	seed(t, s, models.User{Username: "alice", Email: "alice@example.com"})

	_, err := s.Create(ctx, models.User{Username: "alice", Email: "other@example.com"})
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.ErrorContains(t, err, "Username already exists: alice")

	_, err = s.Create(ctx, models.User{Username: "other", Email: "alice@example.com"})
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.ErrorContains(t, err, "Email already exists: alice@example.com")

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestStorage_ConcurrentDuplicateCreate(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Create(ctx, models.User{Username: "racer", Email: "racer@example.com"})
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestStorage_Update(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()
	users := seed(t, s,
		models.User{Username: "alice", Email: "alice@example.com", Active: true},
		models.User{Username: "bob", Email: "bob@example.com", Active: true},
	)

	updated, err := s.Update(ctx, models.User{ID: users[0].ID, Username: "alicia", Email: "alicia@example.com", Active: false})
	require.NoError(t, err)
	assert.Equal(t, users[0].ID, updated.ID)
	assert.False(t, updated.Active)

	_, err = s.GetByUsername(ctx, "alice")
	assert.ErrorIs(t, err, models.ErrNotFound, "old username must be released")

	exists, err := s.ExistsByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	// Повторное сохранение с теми же username и email не конфликтует само с собой.
	_, err = s.Update(ctx, *updated)
	require.NoError(t, err)

	_, err = s.Update(ctx, models.User{ID: users[0].ID, Username: "bob", Email: "alicia@example.com"})
	assert.ErrorIs(t, err, models.ErrConflict)

	_, err = s.Update(ctx, models.User{ID: 42, Username: "nobody", Email: "nobody@example.com"})
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorContains(t, err, "User not found with ID: 42")
}

func TestStorage_Delete(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()
	u := seed(t, s, models.User{Username: "alice", Email: "alice@example.com"})[0]

	require.NoError(t, s.Delete(ctx, u.ID))

	_, err := s.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	err = s.Delete(ctx, u.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	exists, err := s.ExistsByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStorage_ListPagingAndSorting(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()
	seed(t, s,
		models.User{Username: "charlie", Email: "c@example.com", Active: true},
		models.User{Username: "alice", Email: "a@example.com", Active: false},
		models.User{Username: "bob", Email: "b@example.com", Active: true},
	)

	tests := []struct {
		name  string
		req   models.PageRequest
		names []string
	}{
		{"id asc", models.PageRequest{Page: 0, Size: 10, SortField: "id", Direction: models.SortAsc}, []string{"charlie", "alice", "bob"}},
		{"id desc", models.PageRequest{Page: 0, Size: 10, SortField: "id", Direction: models.SortDesc}, []string{"bob", "alice", "charlie"}},
		{"username asc", models.PageRequest{Page: 0, Size: 10, SortField: "username", Direction: models.SortAsc}, []string{"alice", "bob", "charlie"}},
		{"active desc ties by id", models.PageRequest{Page: 0, Size: 10, SortField: "active", Direction: models.SortDesc}, []string{"charlie", "bob", "alice"}},
		{"second page", models.PageRequest{Page: 1, Size: 2, SortField: "username", Direction: models.SortAsc}, []string{"charlie"}},
		{"past the end", models.PageRequest{Page: 5, Size: 2, SortField: "id", Direction: models.SortAsc}, []string{}},
		{"offset overflows", models.PageRequest{Page: 2, Size: math.MaxInt, SortField: "id", Direction: models.SortAsc}, []string{}},
		{"huge page index", models.PageRequest{Page: math.MaxInt, Size: 2, SortField: "id", Direction: models.SortAsc}, []string{}},
		{"huge size first page", models.PageRequest{Page: 0, Size: math.MaxInt, SortField: "id", Direction: models.SortAsc}, []string{"charlie", "alice", "bob"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, total, err := s.List(ctx, tt.req)
			require.NoError(t, err)
			assert.Equal(t, int64(3), total)
			names := make([]string, 0, len(users))
			for _, u := range users {
				names = append(names, u.Username)
			}
			assert.Equal(t, tt.names, names)
		})
	}

	_, _, err := s.List(ctx, models.PageRequest{Page: 0, Size: 10, SortField: "password"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestStorage_Search(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()
	seed(t, s,
		models.User{Username: "JohnDoe", Email: "jd@example.com"},
		models.User{Username: "jane", Email: "jane.JOHNSON@corp.io"},
		models.User{Username: "bob", Email: "bob@example.com"},
	)

	users, total, err := s.Search(ctx, "john", models.PageRequest{Page: 0, Size: 10, SortField: "id"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, users, 2)
	assert.Equal(t, "JohnDoe", users[0].Username)
	assert.Equal(t, "jane", users[1].Username)

	users, total, err = s.Search(ctx, "nomatch", models.PageRequest{Page: 0, Size: 10, SortField: "id"})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, users)
}

func TestStorage_Count(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	for i := 0; i < 5; i++ {
		seed(t, s, models.User{Username: fmt.Sprintf("user%d", i), Email: fmt.Sprintf("user%d@example.com", i)})
	}
	n, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}

func TestStorage_CanceledContext(t *testing.T) {
	s := newStorage(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Create(ctx, models.User{Username: "alice", Email: "alice@example.com"})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = s.Count(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
