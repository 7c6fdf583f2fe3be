package certificates

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

func (r *PostgresRepository) Create(ctx context.Context, cert *Certificate) (*Certificate, error) {

	query :=
		`INSERT INTO certificates
		    (certificate_id, student_id, institute_id, student_name, course_name, grade, issued_date, ledger_status)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		cert.CertificateID, cert.StudentID, cert.InstituteID,
		cert.StudentName, cert.CourseName, cert.Grade, cert.IssuedDate,
		cert.LedgerStatus,
	).Scan(&cert.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return cert, nil
}

func (r *PostgresRepository) GetByCertificateID(ctx context.Context, certificateID string) (*Details, error) {
	query :=
		`SELECT c.certificate_id, c.student_id, c.institute_id, c.student_name,
		        c.course_name, c.grade, c.issued_date,
		        c.ledger_tx_hash, c.ledger_status, c.ledger_at, c.created_at,
		        i.name, i.wallet_address
		 FROM certificates c
		 JOIN institutes i ON i.id = c.institute_id
		 WHERE c.certificate_id = $1
		 `

	d := &Details{}
	err := r.db.QueryRowContext(ctx, query, certificateID).Scan(
		&d.CertificateID, &d.StudentID, &d.InstituteID, &d.StudentName,
		&d.CourseName, &d.Grade, &d.IssuedDate,
		&d.LedgerTxHash, &d.LedgerStatus, &d.LedgerAt, &d.CreatedAt,
		&d.InstituteName, &d.InstituteWallet,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return d, nil
}

func (r *PostgresRepository) ListByInstitute(ctx context.Context, instituteID string) ([]*Certificate, error) {
	query :=
		`SELECT certificate_id, student_id, institute_id, student_name,
		        course_name, grade, issued_date,
		        ledger_tx_hash, ledger_status, ledger_at, created_at
		 FROM certificates
		 WHERE institute_id = $1
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, instituteID)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}
	defer rows.Close()

	var result []*Certificate
	for rows.Next() {
		c := &Certificate{}
		err := rows.Scan(&c.CertificateID, &c.StudentID, &c.InstituteID, &c.StudentName,
			&c.CourseName, &c.Grade, &c.IssuedDate,
			&c.LedgerTxHash, &c.LedgerStatus, &c.LedgerAt, &c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %v", err)
		}
		result = append(result, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %v", err)
	}

	return result, nil
}

func (r *PostgresRepository) UpsertIssued(ctx context.Context, cert *Certificate) error {

	// The CASE ranking keeps ledger_status monotonic: a late 'submitted'
	// write cannot overwrite 'confirmed'.
	query :=
		`INSERT INTO certificates
		    (certificate_id, student_id, institute_id, student_name, course_name, grade, issued_date,
		     ledger_tx_hash, ledger_status, ledger_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		 ON CONFLICT (certificate_id) DO UPDATE SET
		    ledger_tx_hash = EXCLUDED.ledger_tx_hash,
		    ledger_status = EXCLUDED.ledger_status,
		    ledger_at = EXCLUDED.ledger_at
		 WHERE
			CASE EXCLUDED.ledger_status
				WHEN 'pending' THEN 1
				WHEN 'submitted' THEN 2
				WHEN 'failed' THEN 3
				WHEN 'confirmed' THEN 4
				ELSE 0
			END >
			CASE certificates.ledger_status
				WHEN 'pending' THEN 1
				WHEN 'submitted' THEN 2
				WHEN 'failed' THEN 3
				WHEN 'confirmed' THEN 4
				ELSE 0
			END
		 `

	_, err := r.db.ExecContext(ctx, query,
		cert.CertificateID, cert.StudentID, cert.InstituteID,
		cert.StudentName, cert.CourseName, cert.Grade, cert.IssuedDate,
		cert.LedgerTxHash, cert.LedgerStatus,
	)
	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}

	return nil
}
