package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/certledger/internal/common"
	"github.com/dmitrijs2005/certledger/internal/server/certificates"
	"github.com/dmitrijs2005/certledger/internal/server/ledger"
	"github.com/dmitrijs2005/certledger/internal/server/reconcile"
	"github.com/gin-gonic/gin"
)

type verifyResponse struct {
	CertificateID string            `json:"certificate_id"`
	Local         *localRecord      `json:"local,omitempty"`
	Ledger        *ledgerRecord     `json:"ledger,omitempty"`
	Verification  *reconcile.Result `json:"verification,omitempty"`
}

type localRecord struct {
	StudentName   string `json:"student_name"`
	CourseName    string `json:"course_name"`
	Grade         string `json:"grade,omitempty"`
	IssuedDate    string `json:"issued_date"`
	InstituteName string `json:"institute_name"`
	LedgerTxHash  string `json:"ledger_tx_hash,omitempty"`
	LedgerStatus  string `json:"ledger_status"`
}

type ledgerRecord struct {
	StudentName string `json:"student_name"`
	CourseName  string `json:"course_name"`
	IssueDate   string `json:"issue_date"`
	IssuerName  string `json:"issuer_name"`
	Issuer      string `json:"issuer"`
}

// handleVerify is the public verification endpoint. It reports the stored
// record, the chain record and whether the two agree. A certificate unknown
// to both sides is a 404; known to either side is a 200 with the comparison
// result.
func (s *Server) handleVerify(c *gin.Context) {
	certificateID := c.Param("certificateId")
	ctx := c.Request.Context()

	resp := verifyResponse{CertificateID: certificateID}

	var local *certificates.Details
	details, err := s.certificates.GetByCertificateID(ctx, certificateID)
	switch {
	case err == nil:
		local = details
		resp.Local = &localRecord{
			StudentName:   details.StudentName,
			CourseName:    details.CourseName,
			Grade:         details.Grade,
			IssuedDate:    details.IssuedDate,
			InstituteName: details.InstituteName,
			LedgerTxHash:  details.LedgerTxHash,
			LedgerStatus:  details.LedgerStatus,
		}
	case errors.Is(err, common.ErrorNotFound):
		// fall through, the chain may still know it
	default:
		s.abortWithError(c, err)
		return
	}

	var onchain *ledger.Certificate
	onchain, err = s.reader.Certificate(ctx, certificateID)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	if onchain != nil {
		resp.Ledger = &ledgerRecord{
			StudentName: onchain.StudentName,
			CourseName:  onchain.CourseName,
			IssueDate:   onchain.IssueDate,
			IssuerName:  onchain.IssuerName,
			Issuer:      onchain.Issuer.Hex(),
		}
	}

	if local == nil && onchain == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "certificate not found"})
		return
	}

	if local != nil {
		result := reconcile.Compare(reconcile.Record{
			CertificateID: local.CertificateID,
			StudentName:   local.StudentName,
			CourseName:    local.CourseName,
		}, onchain)
		resp.Verification = &result
	}

	c.JSON(http.StatusOK, resp)
}
