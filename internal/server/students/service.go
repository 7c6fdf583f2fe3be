// Package students stores the student directory used to attach real names
// to issued certificates.
package students

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/certledger/internal/common"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Register(ctx context.Context, id, fullName, email string) (*Student, error) {
	id = strings.TrimSpace(id)
	fullName = strings.TrimSpace(fullName)

	if id == "" || fullName == "" {
		return nil, fmt.Errorf("%w: student id and full name are required", common.ErrorValidation)
	}

	student := &Student{ID: id, FullName: fullName, Email: strings.TrimSpace(email)}

	student, err := s.repo.Create(ctx, student)
	if err != nil {
		return nil, fmt.Errorf("error creating student: %w", err)
	}

	return student, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Student, error) {
	return s.repo.GetByID(ctx, id)
}

// FullName resolves a student id to a display name. Callers treat
// common.ErrorNotFound as "use a placeholder name".
func (s *Service) FullName(ctx context.Context, id string) (string, error) {
	student, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return student.FullName, nil
}
