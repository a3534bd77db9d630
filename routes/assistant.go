package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medmind-server/middleware"
	"medmind-server/models"
	"medmind-server/services"
	"medmind-server/validation"
)

type assistantHandler struct {
	responder
	assistant *services.AssistantService
}

// RegisterAssistantRoutes registers the symptom checker for signed-in users.
func RegisterAssistantRoutes(router *gin.RouterGroup, assistant *services.AssistantService, auth middleware.TokenVerifier, r responder) {
	h := &assistantHandler{responder: r, assistant: assistant}

	group := router.Group("/assistant", middleware.AuthMiddleware(auth))
	group.POST("", h.reply)
	group.GET("/languages", h.languages)
}

func (h *assistantHandler) reply(c *gin.Context) {
	var req validation.AssistantInput
	if !h.bindJSON(c, &req) {
		return
	}
	user, _ := middleware.CurrentUser(c)

	res, err := h.assistant.Reply(c.Request.Context(), user, req)
	if err != nil {
		h.fail(c, err, "Server error in symptom checker")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"reply":    res.Reply,
		"stage":    res.Stage,
		"language": res.Language,
		"session":  res.Session,
	})
}

func (h *assistantHandler) languages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"languages": models.Languages,
	})
}
