package http

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/remservice/motor-backoffice/internal/http/middleware"
	"github.com/remservice/motor-backoffice/internal/service"
)

func (h *Handler) listReceptions(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	receptions, err := h.receptions.List(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"receptions": receptions})
}

func (h *Handler) createReception(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req service.CreateReceptionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reception, err := h.receptions.Create(c.Request.Context(), principal, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reception)
}

func (h *Handler) getReception(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	reception, items, err := h.receptions.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reception": reception, "items": items})
}

func (h *Handler) deleteReception(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.receptions.Delete(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) previewReception(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	preview, err := h.receptions.Preview(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

func (h *Handler) updateItem(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	receptionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathUUID(c, "itemId")
	if !ok {
		return
	}

	var req service.ItemChangeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.receptions.UpdateItem(c.Request.Context(), principal, receptionID, itemID, req); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteItem(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	receptionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathUUID(c, "itemId")
	if !ok {
		return
	}

	if err := h.receptions.DeleteItem(c.Request.Context(), principal, receptionID, itemID); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) insertItem(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	receptionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req service.NewItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.receptions.InsertItem(c.Request.Context(), principal, receptionID, req); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

type renameGroupRequest struct {
	PositionNumber int    `json:"position_number" binding:"required"`
	WorkGroup      string `json:"work_group"`
	BaseName       string `json:"base_name" binding:"required"`
	NewBaseName    string `json:"new_base_name" binding:"required"`
}

func (h *Handler) renameBaseItem(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	receptionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req renameGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.receptions.RenameBaseItem(
		c.Request.Context(), principal, receptionID,
		req.PositionNumber, req.WorkGroup, req.BaseName, req.NewBaseName,
	)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) duplicatePosition(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	receptionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid position number"})
		return
	}

	newNumber, err := h.receptions.DuplicatePosition(c.Request.Context(), principal, receptionID, number)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"position_number": newNumber})
}

func (h *Handler) deletePosition(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	receptionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid position number"})
		return
	}
	confirmed := c.Query("confirm") == "true"

	if err := h.receptions.DeletePosition(c.Request.Context(), principal, receptionID, number, confirmed); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) importReceptions(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "read file failed"})
		return
	}

	result, err := h.receptions.ImportWorkbook(c.Request.Context(), principal, data)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) exportReception(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	fileName, content, err := h.receptions.ExportWorkbook(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	attachment(c, contentTypeXLSX, fileName, content)
}
