package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medmind-server/middleware"
	"medmind-server/services"
	"medmind-server/validation"
)

type authHandler struct {
	responder
	auth *services.AuthService
}

// RegisterAuthRoutes registers authentication routes
func RegisterAuthRoutes(router *gin.RouterGroup, auth *services.AuthService, r responder) {
	h := &authHandler{responder: r, auth: auth}
	router.POST("/register", h.register)
	router.POST("/login", h.login)
	router.GET("/verify-token", middleware.AuthMiddleware(auth), h.verifyToken)
	router.GET("/profile", middleware.TokenMiddleware(auth.Tokens()), h.profile)
}

func (h *authHandler) register(c *gin.Context) {
	var req validation.RegisterInput
	if !h.bindJSON(c, &req) {
		return
	}

	res, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "Server error during registration")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"message":   "User registered successfully",
		"token":     res.Token,
		"expiresAt": res.ExpiresAt,
		"user":      res.User.View(),
	})
}

func (h *authHandler) login(c *gin.Context) {
	var req validation.LoginInput
	if !h.bindJSON(c, &req) {
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "Server error during login")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Login successful",
		"token":     res.Token,
		"expiresAt": res.ExpiresAt,
		"user":      res.User.View(),
	})
}

func (h *authHandler) verifyToken(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		h.message(c, http.StatusUnauthorized, "Invalid token")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user.View(),
	})
}

func (h *authHandler) profile(c *gin.Context) {
	user, err := h.auth.Profile(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		h.fail(c, err, "Server error retrieving profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user.View(),
	})
}
