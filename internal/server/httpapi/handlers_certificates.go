package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/certledger/internal/common"
	"github.com/dmitrijs2005/certledger/internal/server/ledger"
	"github.com/dmitrijs2005/certledger/internal/server/relay"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
)

func (s *Server) handleListCertificates(c *gin.Context) {
	certs, err := s.certificates.ListByInstitute(c.Request.Context(), instituteID(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	type row struct {
		CertificateID string `json:"certificate_id"`
		StudentID     string `json:"student_id,omitempty"`
		StudentName   string `json:"student_name"`
		CourseName    string `json:"course_name"`
		Grade         string `json:"grade,omitempty"`
		IssuedDate    string `json:"issued_date"`
		LedgerTxHash  string `json:"ledger_tx_hash,omitempty"`
		LedgerStatus  string `json:"ledger_status"`
	}

	rows := make([]row, 0, len(certs))
	for _, cert := range certs {
		rows = append(rows, row{
			CertificateID: cert.CertificateID,
			StudentID:     cert.StudentID,
			StudentName:   cert.StudentName,
			CourseName:    cert.CourseName,
			Grade:         cert.Grade,
			IssuedDate:    cert.IssuedDate,
			LedgerTxHash:  cert.LedgerTxHash,
			LedgerStatus:  cert.LedgerStatus,
		})
	}

	c.JSON(http.StatusOK, gin.H{"certificates": rows})
}

type prepareCertificateRequest struct {
	CertificateID string `json:"certificate_id"`
	StudentID     string `json:"student_id"`
	StudentName   string `json:"student_name"`
	CourseName    string `json:"course_name" binding:"required"`
	Grade         string `json:"grade"`
	IssuedDate    string `json:"issued_date" binding:"required"`
}

// handlePrepareCertificate assembles the exact tuple the wallet must sign
// and returns its hash. Nothing is persisted yet; the row appears when the
// signed relay succeeds.
func (s *Server) handlePrepareCertificate(c *gin.Context) {
	var req prepareCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	institute, err := s.institutes.Profile(c.Request.Context(), instituteID(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	studentName := req.StudentName
	if studentName == "" && req.StudentID != "" {
		name, err := s.students.FullName(c.Request.Context(), req.StudentID)
		switch {
		case err == nil:
			studentName = name
		case errors.Is(err, common.ErrorNotFound):
			studentName = relay.UnknownStudentName
		default:
			s.abortWithError(c, err)
			return
		}
	}
	if studentName == "" {
		studentName = relay.UnknownStudentName
	}

	certificateID := req.CertificateID
	if certificateID == "" {
		certificateID = s.certificates.NewCertificateID()
	}

	payload := ledger.SigningPayload{
		CertificateID: certificateID,
		StudentName:   studentName,
		CourseName:    req.CourseName,
		IssueDate:     req.IssuedDate,
		IssuerName:    institute.Name,
		Signer:        ethcommon.HexToAddress(institute.WalletAddress),
	}

	c.JSON(http.StatusOK, gin.H{
		"certificate_id": certificateID,
		"student_id":     req.StudentID,
		"student_name":   studentName,
		"course_name":    req.CourseName,
		"grade":          req.Grade,
		"issued_date":    req.IssuedDate,
		"issuer_name":    institute.Name,
		"signer":         institute.WalletAddress,
		"hash":           ledger.CertificateHash(payload).Hex(),
	})
}

type relayCertificateRequest struct {
	CertificateID string `json:"certificate_id" binding:"required"`
	StudentID     string `json:"student_id"`
	StudentName   string `json:"student_name" binding:"required"`
	CourseName    string `json:"course_name" binding:"required"`
	Grade         string `json:"grade"`
	IssuedDate    string `json:"issued_date" binding:"required"`
	Hash          string `json:"hash" binding:"required"`
	Signature     string `json:"signature" binding:"required"`
}

type receiptResponse struct {
	TxHash      string `json:"transactionHash"`
	BlockNumber uint64 `json:"blockNumber"`
	GasUsed     uint64 `json:"gasUsed"`
	Status      uint64 `json:"status"`
}

func toReceiptResponse(r *ledger.Receipt) receiptResponse {
	return receiptResponse{
		TxHash:      r.TxHash,
		BlockNumber: r.BlockNumber,
		GasUsed:     r.GasUsed,
		Status:      r.Status,
	}
}

func (s *Server) handleRelayCertificate(c *gin.Context) {
	var req relayCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	institute, err := s.institutes.Profile(c.Request.Context(), instituteID(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	wallet := ethcommon.HexToAddress(institute.WalletAddress)

	signature, err := hexutil.Decode(req.Signature)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature encoding"})
		return
	}

	payload := ledger.SigningPayload{
		CertificateID: req.CertificateID,
		StudentName:   req.StudentName,
		CourseName:    req.CourseName,
		IssueDate:     req.IssuedDate,
		IssuerName:    institute.Name,
		Signer:        wallet,
	}
	hash := ethcommon.HexToHash(req.Hash)

	ctx := c.Request.Context()

	if err := s.guard.AuthorizeSingle(ctx, payload, hash, signature, wallet); err != nil {
		s.abortWithError(c, err)
		return
	}

	receipt, err := s.executor.SubmitSingle(ctx, ledger.SingleSubmission{
		Payload:   payload,
		Hash:      hash,
		Signature: signature,
	})
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	item := relay.Item{
		CertificateID: req.CertificateID,
		StudentID:     req.StudentID,
		StudentName:   req.StudentName,
		CourseName:    req.CourseName,
		Grade:         req.Grade,
		IssueDate:     req.IssuedDate,
	}
	if err := s.certificates.SaveIssued(ctx, institute.ID, item, receipt); err != nil {
		// The transaction is already on chain; report the receipt anyway.
		s.logger.Error(ctx, "persisting relayed certificate", "certificate_id", req.CertificateID, "error", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"receipt": toReceiptResponse(receipt),
	})
}

type prepareBulkRequest struct {
	CertificateCount uint64 `json:"certificate_count" binding:"required"`
}

// handlePrepareBulk mints a bulk authorization tuple for the wallet to sign.
func (s *Server) handlePrepareBulk(c *gin.Context) {
	var req prepareBulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	institute, err := s.institutes.Profile(c.Request.Context(), instituteID(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	wallet := ethcommon.HexToAddress(institute.WalletAddress)

	now := s.now()
	batchID := uint64(now.UnixMilli())
	expiry := uint64(now.Add(s.cfg.BulkAuthTTL).Unix())

	hash := ledger.BulkAuthHash(wallet, batchID, req.CertificateCount, expiry)

	c.JSON(http.StatusOK, gin.H{
		"batchId":           batchID,
		"certificate_count": req.CertificateCount,
		"expiry":            expiry,
		"signer":            institute.WalletAddress,
		"hash":              hash.Hex(),
	})
}

type relayBulkRequest struct {
	BatchID          uint64          `json:"batchId" binding:"required"`
	CertificateCount uint64          `json:"certificate_count" binding:"required"`
	Expiry           uint64          `json:"expiry" binding:"required"`
	Signature        string          `json:"signature" binding:"required"`
	Items            []relay.RawItem `json:"items" binding:"required"`
}

func (s *Server) handleRelayBulk(c *gin.Context) {
	var req relayBulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	institute, err := s.institutes.Profile(c.Request.Context(), instituteID(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	wallet := ethcommon.HexToAddress(institute.WalletAddress)

	signature, err := hexutil.Decode(req.Signature)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature encoding"})
		return
	}

	auth := ledger.BulkAuthorization{
		Signer:           wallet,
		BatchID:          req.BatchID,
		CertificateCount: req.CertificateCount,
		Expiry:           req.Expiry,
		Hash:             ledger.BulkAuthHash(wallet, req.BatchID, req.CertificateCount, req.Expiry),
		Signature:        signature,
	}

	ctx := c.Request.Context()

	if err := s.guard.AuthorizeBulk(ctx, auth, wallet); err != nil {
		s.abortWithError(c, err)
		return
	}

	result := s.coordinator.Run(ctx, auth, institute.ID, institute.Name, req.Items)

	c.JSON(http.StatusOK, result)
}
