package students

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/certledger/internal/common"
	"github.com/dmitrijs2005/certledger/internal/dbx"
	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) Create(ctx context.Context, student *Student) (*Student, error) {

	query :=
		`INSERT INTO students (id, full_name, email)
         VALUES ($1, $2, $3)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		student.ID, student.FullName, student.Email).Scan(&student.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 is unique_violation
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return student, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Student, error) {
	query :=
		`SELECT id, full_name, email, created_at FROM students
		 WHERE id = $1
		 `

	student := &Student{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&student.ID, &student.FullName, &student.Email, &student.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return student, nil
}
