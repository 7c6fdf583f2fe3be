package students

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, student *Student) (*Student, error)
	GetByID(ctx context.Context, id string) (*Student, error)
}
