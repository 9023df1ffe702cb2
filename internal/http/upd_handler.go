package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/remservice/motor-backoffice/internal/http/middleware"
	"github.com/remservice/motor-backoffice/internal/model"
	"github.com/remservice/motor-backoffice/internal/service"
)

func (h *Handler) updCandidates(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req service.CandidatesInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.upd.Candidates(c.Request.Context(), principal, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) createUPD(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req service.CreateUPDInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.upd.Create(c.Request.Context(), principal, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (h *Handler) listUPD(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	documents, err := h.upd.List(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": documents})
}

func (h *Handler) getUPD(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	doc, items, err := h.upd.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"document": doc, "items": items})
}

func (h *Handler) disbandUPD(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	confirmed := c.Query("confirm") == "true"

	if err := h.upd.Disband(c.Request.Context(), principal, id, confirmed); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type updStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) updateUPDStatus(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req updStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.upd.UpdateStatus(c.Request.Context(), principal, id, model.UPDStatus(req.Status)); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) exportUPD(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	fileName, content, err := h.upd.ExportWorkbook(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	attachment(c, contentTypeXLSX, fileName, content)
}

func (h *Handler) exportUPDPDF(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	fileName, content, err := h.upd.ExportPDF(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	attachment(c, contentTypePDF, fileName, content)
}
