package httpapi

import (
	"context"
	"math/big"
	"net/http"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
)

// gasReporter is implemented by chain clients that can report per-university
// gas consumption. The current contract cannot, so the value is zero, but
// the endpoint shape stays stable for when it can.
type gasReporter interface {
	GasSpent(ctx context.Context, addr ethcommon.Address) (*big.Int, error)
}

// handleBalance reports the institute's prepaid balance, the cost of one
// certificate, and how many certificates the balance still covers.
func (s *Server) handleBalance(c *gin.Context) {
	institute, err := s.institutes.Profile(c.Request.Context(), instituteID(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	wallet := ethcommon.HexToAddress(institute.WalletAddress)

	ctx := c.Request.Context()

	balance, err := s.reader.PrepaidBalance(ctx, wallet)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	cost, err := s.reader.CertificateGasCost(ctx)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	gasSpent := big.NewInt(0)
	if reporter, ok := s.reader.(gasReporter); ok {
		gasSpent, err = reporter.GasSpent(ctx, wallet)
		if err != nil {
			s.abortWithError(c, err)
			return
		}
	}

	remaining := big.NewInt(0)
	if cost.Sign() > 0 {
		remaining = new(big.Int).Div(balance, cost)
	}

	c.JSON(http.StatusOK, gin.H{
		"balance_wei":            balance.String(),
		"certificate_cost_wei":   cost.String(),
		"certificates_remaining": remaining.String(),
		"gas_spent":              gasSpent.String(),
	})
}
