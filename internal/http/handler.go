package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/remservice/motor-backoffice/internal/service"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

type Handler struct {
	auth       *service.AuthService
	receptions *service.ReceptionService
	upd        *service.UPDService
	lookup     *service.LookupService
	templates  *service.TemplateService
	reports    *service.ReportService
	log        zerolog.Logger
}

func NewHandler(
	auth *service.AuthService,
	receptions *service.ReceptionService,
	upd *service.UPDService,
	lookup *service.LookupService,
	templates *service.TemplateService,
	reports *service.ReportService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		auth:       auth,
		receptions: receptions,
		upd:        upd,
		lookup:     lookup,
		templates:  templates,
		reports:    reports,
		log:        log,
	}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	router.GET("/health", h.health)

	router.POST("/auth/register", h.register)
	router.POST("/auth/login", h.login)

	protected := router.Group("/app")
	protected.Use(authMiddleware)

	protected.POST("/auth/refresh", h.refresh)

	protected.GET("/receptions", h.listReceptions)
	protected.POST("/receptions", h.createReception)
	protected.GET("/receptions/:id", h.getReception)
	protected.DELETE("/receptions/:id", h.deleteReception)
	protected.GET("/receptions/:id/preview", h.previewReception)
	protected.PATCH("/receptions/:id/items/:itemId", h.updateItem)
	protected.DELETE("/receptions/:id/items/:itemId", h.deleteItem)
	protected.POST("/receptions/:id/items", h.insertItem)
	protected.POST("/receptions/:id/rename-group", h.renameBaseItem)
	protected.POST("/receptions/:id/positions/:number/duplicate", h.duplicatePosition)
	protected.DELETE("/receptions/:id/positions/:number", h.deletePosition)
	protected.POST("/receptions/import", h.importReceptions)
	protected.GET("/receptions/:id/export", h.exportReception)

	protected.POST("/upd/candidates", h.updCandidates)
	protected.POST("/upd", h.createUPD)
	protected.GET("/upd", h.listUPD)
	protected.GET("/upd/:id", h.getUPD)
	protected.DELETE("/upd/:id", h.disbandUPD)
	protected.PATCH("/upd/:id/status", h.updateUPDStatus)
	protected.GET("/upd/:id/export", h.exportUPD)
	protected.GET("/upd/:id/export/pdf", h.exportUPDPDF)

	protected.GET("/lookup/:domain", h.lookupSearch)
	h.registerReferences(protected)

	protected.POST("/reports", h.generateReport)
	protected.POST("/reports/export", h.exportReport)

	protected.GET("/templates", h.listTemplates)
	protected.POST("/templates", h.createTemplate)
	protected.GET("/templates/:id", h.getTemplate)
	protected.DELETE("/templates/:id", h.deleteTemplate)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrLinkedItem):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

func attachment(c *gin.Context, contentType, fileName string, content []byte) {
	c.Header("Content-Disposition", "attachment; filename=\""+fileName+"\"")
	c.Data(http.StatusOK, contentType, content)
}
