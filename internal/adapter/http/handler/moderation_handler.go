package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/karlgroves/openai-content-moderator/internal/usecase"
)

// ModerationHandler handles moderation HTTP requests
type ModerationHandler struct {
	moderationUC usecase.ModerationUsecase
	development  bool
}

// NewModerationHandler creates a new moderation handler. In development
// mode error bodies carry a stack trace.
func NewModerationHandler(moderationUC usecase.ModerationUsecase, development bool) *ModerationHandler {
	return &ModerationHandler{
		moderationUC: moderationUC,
		development:  development,
	}
}

// ModerateText handles POST /api/moderation/text and POST /moderate
func (h *ModerationHandler) ModerateText(c *gin.Context) {
	input, err := DecodeModerateInput(c)
	if err != nil {
		HandleDecodeError(c, err)
		return
	}

	output, err := h.moderationUC.Moderate(c.Request.Context(), input)
	if err != nil {
		HandleUsecaseError(c, err, h.development)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}

// ListModels handles GET /api/moderation/models
func (h *ModerationHandler) ListModels(c *gin.Context) {
	respondSuccess(c, http.StatusOK, h.moderationUC.ListProviders(c.Request.Context()))
}
