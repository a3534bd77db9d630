package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"

	"medmind-server/middleware"
	"medmind-server/services"
	"medmind-server/validation"
	ws "medmind-server/websocket"
)

type feedbackHandler struct {
	responder
	feedback *services.FeedbackService
	hub      *ws.Hub
	upgrader *gorillaws.Upgrader
}

// RegisterFeedbackRoutes registers submission, listing, analytics and the
// live feed. The feed is only mounted when a hub is supplied.
func RegisterFeedbackRoutes(router *gin.RouterGroup, feedback *services.FeedbackService, auth middleware.TokenVerifier, hub *ws.Hub, allowedOrigins []string, r responder) {
	h := &feedbackHandler{responder: r, feedback: feedback, hub: hub}

	group := router.Group("/feedback")
	group.POST("", h.submit)
	group.GET("", h.list)
	group.GET("/analytics", h.analytics)
	if hub != nil {
		h.upgrader = ws.Upgrader(allowedOrigins)
		group.GET("/stream", middleware.WebSocketAuthMiddleware(auth), h.stream)
	}
}

func (h *feedbackHandler) submit(c *gin.Context) {
	var req validation.FeedbackInput
	if !h.bindJSON(c, &req) {
		return
	}

	fb, err := h.feedback.Submit(c.Request.Context(), req, services.RequestMeta{
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		h.fail(c, err, "Server error during feedback submission")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    "Feedback submitted successfully",
		"feedbackId": fb.ID,
	})
}

func (h *feedbackHandler) list(c *gin.Context) {
	// unparsable numbers fall back to the defaults
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	res, err := h.feedback.List(c.Request.Context(), services.ListQuery{
		Page:      page,
		Limit:     limit,
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	})
	if err != nil {
		h.fail(c, err, "Server error retrieving feedback")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       res.Data,
		"pagination": res.Pagination,
	})
}

func (h *feedbackHandler) analytics(c *gin.Context) {
	report, err := h.feedback.Analytics(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Server error retrieving analytics")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"analytics":     report.Analytics,
		"emotionStats":  report.EmotionStats,
		"categoryStats": report.CategoryStats,
	})
}

func (h *feedbackHandler) stream(c *gin.Context) {
	ws.ServeWebSocket(h.hub, h.upgrader, c.Writer, c.Request, c.GetString(middleware.ContextUserID))
}
