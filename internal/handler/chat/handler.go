package chat

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicops/clinic-api/internal/model"
	"github.com/clinicops/clinic-api/internal/service/chat"
	apperrors "github.com/clinicops/clinic-api/pkg/errors"
	"github.com/clinicops/clinic-api/pkg/httputil"
)

type Handler struct {
	service *chat.Service
}

func NewHandler(service *chat.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RecordMessage(c *gin.Context) {
	var req model.RecordMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	created, err := h.service.Record(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusCreated, created)
}

// ListMessages lists one conversation. Without a conversation_id query it
// returns the ad-hoc messages recorded with no conversation.
func (h *Handler) ListMessages(c *gin.Context) {
	filters := &model.MessageFilters{}

	if id := c.Query("conversation_id"); id != "" {
		conversationID, err := uuid.Parse(id)
		if err != nil {
			httputil.RespondWithError(c, apperrors.Validation("invalid conversation ID"))
			return
		}
		filters.ConversationID = &conversationID
	}

	messages, err := h.service.ListByConversation(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, messages)
}

func (h *Handler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	resp, err := h.service.Chat(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, resp)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	messages := r.Group("/messages")
	{
		messages.POST("", h.RecordMessage)
		messages.GET("", h.ListMessages)
	}
	r.POST("/chat", h.Chat)
}
