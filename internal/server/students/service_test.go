package students

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/certledger/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepository struct {
	rows map[string]*Student
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{rows: map[string]*Student{}}
}

func (r *memoryRepository) Create(ctx context.Context, student *Student) (*Student, error) {
	if _, ok := r.rows[student.ID]; ok {
		return nil, common.ErrorAlreadyExists
	}
	student.CreatedAt = time.Now()
	r.rows[student.ID] = student
	return student, nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id string) (*Student, error) {
	if s, ok := r.rows[id]; ok {
		return s, nil
	}
	return nil, common.ErrorNotFound
}

func TestRegister_TrimsAndValidates(t *testing.T) {
	t.Parallel()

	s := NewService(newMemoryRepository())

	student, err := s.Register(context.Background(), " S1 ", " Alice Tan ", "alice@example.edu")
	require.NoError(t, err)
	assert.Equal(t, "S1", student.ID)
	assert.Equal(t, "Alice Tan", student.FullName)

	_, err = s.Register(context.Background(), "", "Bob Lim", "")
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestRegister_DuplicateKeepsSentinel(t *testing.T) {
	t.Parallel()

	s := NewService(newMemoryRepository())

	_, err := s.Register(context.Background(), "S1", "Alice Tan", "")
	require.NoError(t, err)

	_, err = s.Register(context.Background(), "S1", "Alice Tan", "")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestFullName(t *testing.T) {
	t.Parallel()

	repo := newMemoryRepository()
	s := NewService(repo)

	_, err := s.Register(context.Background(), "S1", "Alice Tan", "")
	require.NoError(t, err)

	name, err := s.FullName(context.Background(), "S1")
	require.NoError(t, err)
	assert.Equal(t, "Alice Tan", name)

	_, err = s.FullName(context.Background(), "unknown")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
