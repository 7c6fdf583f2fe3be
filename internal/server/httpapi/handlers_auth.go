package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/certledger/internal/server/institutes"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required"`
	Password      string `json:"password" binding:"required"`
	WalletAddress string `json:"walletAddress" binding:"required"`
}

type instituteResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	WalletAddress string    `json:"walletAddress"`
	Approved      bool      `json:"approved"`
	CreatedAt     time.Time `json:"createdAt"`
}

func toInstituteResponse(i *institutes.Institute) instituteResponse {
	return instituteResponse{
		ID:            i.ID,
		Name:          i.Name,
		Email:         i.Email,
		WalletAddress: i.WalletAddress,
		Approved:      i.Approved,
		CreatedAt:     i.CreatedAt,
	}
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	institute, err := s.institutes.Register(c.Request.Context(), req.Name, req.Email, req.Password, req.WalletAddress)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "registration received, account pending approval",
		"institute": toInstituteResponse(institute),
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, institute, err := s.institutes.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"institute": toInstituteResponse(institute),
	})
}

func (s *Server) handleProfile(c *gin.Context) {
	institute, err := s.institutes.Profile(c.Request.Context(), instituteID(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toInstituteResponse(institute))
}
