package handlers

import (
	"net/http"

	"travellink/internal/domain"
	"travellink/internal/http/middleware"
	"travellink/internal/services"
	"travellink/internal/utils"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// POST /api/auth/login
func (a *App) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := services.ValidateStruct(req); err != nil {
		RespondDomainError(c, err)
		return
	}

	acc, err := a.Accounts.Authenticate(req.Email, req.Password)
	if err != nil {
		utils.LogWarn(middleware.GetRequestID(c), "auth", "login", "rejected login")
		RespondDomainError(c, err)
		return
	}
	token, exp, err := a.Tokens.Issue(acc)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "auth", "login", "user="+acc.ID+" role="+acc.Role)
	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"expiresAt": exp,
		"user":      acc,
	})
}

// GET /api/auth/me
func (a *App) Me(c *gin.Context) {
	rc, ok := middleware.CurrentUser(c)
	if !ok {
		RespondDomainError(c, domain.UnauthorizedError{Msg: "login required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":    rc.UserID,
		"email": rc.Email,
		"name":  rc.Name,
		"role":  rc.Role.Name(),
		"attrs": rc.Role,
	})
}
