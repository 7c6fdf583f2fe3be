package institutes

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

func (r *PostgresRepository) Create(ctx context.Context, institute *Institute) (*Institute, error) {

	query :=
		`INSERT INTO institutes (name, email, password_hash, wallet_address, approved)
         VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		institute.Name, institute.Email, institute.PasswordHash,
		institute.WalletAddress, institute.Approved,
	).Scan(&institute.ID, &institute.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 is unique_violation
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return institute, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*Institute, error) {
	query :=
		`SELECT id, name, email, password_hash, wallet_address, approved, created_at
		 FROM institutes
		 WHERE email = $1
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Institute, error) {
	query :=
		`SELECT id, name, email, password_hash, wallet_address, approved, created_at
		 FROM institutes
		 WHERE id = $1
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*Institute, error) {
	institute := &Institute{}
	err := row.Scan(&institute.ID, &institute.Name, &institute.Email,
		&institute.PasswordHash, &institute.WalletAddress,
		&institute.Approved, &institute.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return institute, nil
}
