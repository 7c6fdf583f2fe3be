package httpapi

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/certledger/internal/common"
	"github.com/dmitrijs2005/certledger/internal/server/auth"
	"github.com/gin-gonic/gin"
)

const instituteIDKey = "instituteID"

// requireInstitute validates the bearer token and stores the authenticated
// institute id in the request context.
func (s *Server) requireInstitute() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthHeaderName)

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		instituteID, err := auth.GetInstituteIDFromToken(token, []byte(s.cfg.SecretKey))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set(instituteIDKey, instituteID)
		c.Next()
	}
}

func instituteID(c *gin.Context) string {
	return c.GetString(instituteIDKey)
}
