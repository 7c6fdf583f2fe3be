package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type registerStudentRequest struct {
	StudentID string `json:"studentId" binding:"required"`
	FullName  string `json:"fullName" binding:"required"`
	Email     string `json:"email"`
}

type studentResponse struct {
	StudentID string    `json:"studentId"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// handleRegisterStudent adds a student to the directory that batch issuance
// resolves names from. Any approved institute may register students.
func (s *Server) handleRegisterStudent(c *gin.Context) {
	var req registerStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	student, err := s.students.Register(c.Request.Context(), req.StudentID, req.FullName, req.Email)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, studentResponse{
		StudentID: student.ID,
		FullName:  student.FullName,
		Email:     student.Email,
		CreatedAt: student.CreatedAt,
	})
}
