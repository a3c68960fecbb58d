package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const sessionCookieMaxAge = 30 * 24 * 3600

type signUpRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Phone       string `json:"phone"`
	Password    string `json:"password" binding:"required"`
	SetupSecret string `json:"setupSecret"`
}

type signInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

func (s *Server) signUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, email and password are required"})
		return
	}

	user, sess, err := s.creds.SignUp(c.Request.Context(), req.Name, req.Email, req.Phone, req.Password, req.SetupSecret)
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetCookie(sessionCookie, sess.Token, sessionCookieMaxAge, "/", "", false, true)
	c.JSON(http.StatusCreated, gin.H{"token": sess.Token, "user": toUserDTO(user)})
}

func (s *Server) signIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	user, sess, err := s.creds.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetCookie(sessionCookie, sess.Token, sessionCookieMaxAge, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"token": sess.Token, "user": toUserDTO(user)})
}

func (s *Server) signOut(c *gin.Context) {
	identity := currentIdentity(c)
	if identity.Token != "" {
		s.creds.SignOut(c.Request.Context(), identity.Token)
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

func (s *Server) changePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "oldPassword and newPassword are required"})
		return
	}

	identity := currentIdentity(c)
	if err := s.creds.ChangeSecret(c.Request.Context(), identity.Token, req.OldPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) me(c *gin.Context) {
	identity := currentIdentity(c)
	c.JSON(http.StatusOK, toUserDTO(*identity.User))
}
