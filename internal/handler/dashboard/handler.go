package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicops/clinic-api/internal/service/dashboard"
	"github.com/clinicops/clinic-api/pkg/httputil"
)

type Handler struct {
	service *dashboard.Service
}

func NewHandler(service *dashboard.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Counts(c *gin.Context) {
	counts, err := h.service.Counts(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, counts)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/dashboard/counts", h.Counts)
}
