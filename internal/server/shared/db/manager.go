package db

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/certledger/internal/server/certificates"
	"github.com/dmitrijs2005/certledger/internal/server/institutes"
	"github.com/dmitrijs2005/certledger/internal/server/students"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Institutes() institutes.Repository
	Students() students.Repository
	Certificates() certificates.Repository
}
