package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/remservice/motor-backoffice/internal/http/middleware"
	"github.com/remservice/motor-backoffice/internal/model"
	"github.com/remservice/motor-backoffice/internal/service"
)

func (h *Handler) registerReferences(group *gin.RouterGroup) {
	refs := group.Group("/references")

	refs.GET("/types", h.listReferenceTypes)

	refs.GET("/counterparties", h.listCounterparties)
	refs.POST("/counterparties", h.createCounterparty)
	refs.PUT("/counterparties/:id", h.updateCounterparty)
	refs.DELETE("/counterparties/:id", h.deleteCounterparty)
	refs.POST("/counterparties/import", h.importCounterparties)

	refs.GET("/motors", h.listMotors)
	refs.POST("/motors", h.createMotor)
	refs.GET("/motors/:id", h.motorDetails)
	refs.PUT("/motors/:id", h.updateMotor)
	refs.DELETE("/motors/:id", h.deleteMotor)
	refs.POST("/motors/import", h.importMotors)

	refs.GET("/subdivisions", h.listSubdivisions)
	refs.POST("/subdivisions", h.createSubdivision)
	refs.DELETE("/subdivisions/:id", h.deleteSubdivision)

	refs.GET("/wires", h.listWires)
	refs.POST("/wires", h.createWire)
	refs.DELETE("/wires/:id", h.deleteWire)

	refs.GET("/bearings", h.listBearings)
	refs.POST("/bearings", h.createBearing)
	refs.DELETE("/bearings/:id", h.deleteBearing)

	refs.GET("/impellers", h.listImpellers)
	refs.POST("/impellers", h.createImpeller)
	refs.DELETE("/impellers/:id", h.deleteImpeller)

	refs.GET("/labor-payments", h.listLaborPayments)
	refs.POST("/labor-payments", h.createLaborPayment)
	refs.DELETE("/labor-payments/:id", h.deleteLaborPayment)

	refs.GET("/special-documents", h.listSpecialDocuments)
	refs.POST("/special-documents", h.createSpecialDocument)
	refs.DELETE("/special-documents/:id", h.deleteSpecialDocument)
}

func (h *Handler) lookupSearch(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	domain := model.ReferenceDomain(c.Param("domain"))
	items, err := h.lookup.Search(c.Request.Context(), principal, domain, c.Query("q"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) listReferenceTypes(c *gin.Context) {
	types, err := h.lookup.ListReferenceTypes(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"types": types})
}

func (h *Handler) listCounterparties(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	rows, err := h.lookup.ListCounterparties(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"counterparties": rows})
}

func (h *Handler) createCounterparty(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req service.CounterpartyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.lookup.CreateCounterparty(c.Request.Context(), principal, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) updateCounterparty(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req service.CounterpartyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.lookup.UpdateCounterparty(c.Request.Context(), principal, id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) deleteCounterparty(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.lookup.DeleteCounterparty(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) importCounterparties(c *gin.Context) {
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

	count, err := h.lookup.ImportCounterparties(c.Request.Context(), principal, file)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": count})
}

func (h *Handler) listMotors(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	rows, err := h.lookup.ListMotors(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"motors": rows})
}

func (h *Handler) createMotor(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req service.MotorInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.lookup.CreateMotor(c.Request.Context(), principal, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// motorDetails — карточка двигателя: сам двигатель, история его строк
// по всем приемкам и дерево предпросмотра по этой истории.
func (h *Handler) motorDetails(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	motor, items, err := h.lookup.MotorDetails(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	positions, totals := service.BuildPreviewTree(items)
	c.JSON(http.StatusOK, gin.H{
		"motor":     motor,
		"items":     items,
		"positions": positions,
		"totals":    totals,
	})
}

func (h *Handler) updateMotor(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req service.MotorInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.lookup.UpdateMotor(c.Request.Context(), principal, id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) deleteMotor(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.lookup.DeleteMotor(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) importMotors(c *gin.Context) {
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

	count, err := h.lookup.ImportMotors(c.Request.Context(), principal, file)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": count})
}

func (h *Handler) listSubdivisions(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	rows, err := h.lookup.ListSubdivisions(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subdivisions": rows})
}

type subdivisionRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) createSubdivision(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req subdivisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.lookup.CreateSubdivision(c.Request.Context(), principal, req.Name)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) deleteSubdivision(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.lookup.DeleteSubdivision(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listWires(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	rows, err := h.lookup.ListWires(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wires": rows})
}

func (h *Handler) createWire(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req model.Wire
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.lookup.CreateWire(c.Request.Context(), principal, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) deleteWire(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.lookup.DeleteWire(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listBearings(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	rows, err := h.lookup.ListBearings(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bearings": rows})
}

func (h *Handler) createBearing(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req model.Bearing
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.lookup.CreateBearing(c.Request.Context(), principal, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) deleteBearing(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.lookup.DeleteBearing(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listImpellers(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	rows, err := h.lookup.ListImpellers(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"impellers": rows})
}

func (h *Handler) createImpeller(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req model.Impeller
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.lookup.CreateImpeller(c.Request.Context(), principal, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) deleteImpeller(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.lookup.DeleteImpeller(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listLaborPayments(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	rows, err := h.lookup.ListLaborPayments(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"labor_payments": rows})
}

func (h *Handler) createLaborPayment(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req model.LaborPayment
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.lookup.CreateLaborPayment(c.Request.Context(), principal, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) deleteLaborPayment(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.lookup.DeleteLaborPayment(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listSpecialDocuments(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	rows, err := h.lookup.ListSpecialDocuments(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": rows})
}

func (h *Handler) createSpecialDocument(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req model.SpecialDocument
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.lookup.CreateSpecialDocument(c.Request.Context(), principal, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) deleteSpecialDocument(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.lookup.DeleteSpecialDocument(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
