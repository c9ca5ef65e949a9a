// user.go - Handles attendant registration and login

package handlers

import (
	"net/http"

	"store-manager/service"

	"github.com/gin-gonic/gin"
)

// Login exchanges credentials for a bearer token.
func (h *Handler) Login(c *gin.Context) {
	var input service.LoginInput
	if !h.bind(c, &input) {
		return
	}
	res, err := h.users.Login(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "token": res.Token})
}

// Signup registers a store attendant. Only owners reach this handler.
func (h *Handler) Signup(c *gin.Context) {
	var input service.SignupInput
	if !h.bind(c, &input) {
		return
	}
	user, err := h.users.SignupAttendant(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Store attendant registered", "user": user})
}
