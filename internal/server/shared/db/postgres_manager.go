package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/certledger/internal/server/certificates"
	"github.com/dmitrijs2005/certledger/internal/server/institutes"
	"github.com/dmitrijs2005/certledger/internal/server/migrations"
	"github.com/dmitrijs2005/certledger/internal/server/students"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct {
	db           *sql.DB
	institutes   institutes.Repository
	students     students.Repository
	certificates certificates.Repository
}

func (m *PostgresRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresRepositoryManager) Institutes() institutes.Repository {
	return m.institutes
}

func (m *PostgresRepositoryManager) Students() students.Repository {
	return m.students
}

func (m *PostgresRepositoryManager) Certificates() certificates.Repository {
	return m.certificates
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return err
	}

	return nil
}

func NewPostgresRepositoryManager(dsn string) (RepositoryManager, error) {

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	instituteRepo, err := institutes.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("institute repo creation error: %w", err)
	}

	studentRepo, err := students.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("student repo creation error: %w", err)
	}

	certificateRepo, err := certificates.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("certificate repo creation error: %w", err)
	}

	m := &PostgresRepositoryManager{
		db:           db,
		institutes:   instituteRepo,
		students:     studentRepo,
		certificates: certificateRepo,
	}

	err = m.RunMigrations(context.Background())
	if err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
