package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/remservice/motor-backoffice/internal/http/middleware"
	"github.com/remservice/motor-backoffice/internal/service"
)

func (h *Handler) generateReport(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req service.ReportInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.reports.Generate(c.Request.Context(), principal, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) exportReport(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req service.ReportInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fileName, content, err := h.reports.ExportWorkbook(c.Request.Context(), principal, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	attachment(c, contentTypeXLSX, fileName, content)
}
