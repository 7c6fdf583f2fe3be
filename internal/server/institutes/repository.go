package institutes

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, institute *Institute) (*Institute, error)
	GetByEmail(ctx context.Context, email string) (*Institute, error)
	GetByID(ctx context.Context, id string) (*Institute, error)
}
