package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ArowuTest/club-portal-backend/internal/middleware"
	"github.com/ArowuTest/club-portal-backend/internal/models"
	"github.com/ArowuTest/club-portal-backend/internal/services"
	"github.com/ArowuTest/club-portal-backend/internal/utils"
)

// EntryHandler handles drawing entry HTTP requests
type EntryHandler struct {
	entryService services.EntryService
}

// NewEntryHandler creates a new EntryHandler
func NewEntryHandler(entryService services.EntryService) *EntryHandler {
	return &EntryHandler{
		entryService: entryService,
	}
}

// PreviewEntry handles POST /games/:id/entries/preview
func (h *EntryHandler) PreviewEntry(c *gin.Context) {
	var req models.EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.entryService.PreviewEntry(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// CreateEntry handles POST /games/:id/entries
func (h *EntryHandler) CreateEntry(c *gin.Context) {
	var req models.EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.entryService.CreateEntry(c.Request.Context(), c.Param("id"), &req, middleware.Actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// UpdateEntry handles PUT /games/:id/entries/:entryId
func (h *EntryHandler) UpdateEntry(c *gin.Context) {
	var req models.EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.entryService.UpdateEntry(c.Request.Context(), c.Param("id"), c.Param("entryId"), &req, middleware.Actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteEntry handles DELETE /games/:id/entries/:entryId
func (h *EntryHandler) DeleteEntry(c *gin.Context) {
	resp, err := h.entryService.DeleteEntry(c.Request.Context(), c.Param("id"), c.Param("entryId"), middleware.Actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ImportEntries handles POST /games/:id/entries/import with a multipart "file" field
// holding a spreadsheet CSV export. ?dryRun=true validates without storing.
func (h *EntryHandler) ImportEntries(c *gin.Context) {
	dryRun, _ := strconv.ParseBool(c.Query("dryRun"))

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CSV file is required"})
		return
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to open uploaded file"})
		return
	}
	defer file.Close()

	gameID := c.Param("id")
	entries, rowErrors, err := utils.ReadEntries(file, gameID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(rowErrors) > 0 {
		messages := make([]string, 0, len(rowErrors))
		for _, re := range rowErrors {
			messages = append(messages, re.Error())
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Some rows could not be parsed", "rows": messages})
		return
	}

	view, err := h.entryService.ImportEntries(c.Request.Context(), gameID, entries, middleware.Actor(c), dryRun)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusCreated
	if dryRun {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{"imported": len(entries), "dryRun": dryRun, "view": view})
}

// ExportEntries handles GET /games/:id/entries/export
func (h *EntryHandler) ExportEntries(c *gin.Context) {
	gameID := c.Param("id")
	var buf bytes.Buffer
	if err := h.entryService.ExportEntries(c.Request.Context(), gameID, &buf); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-entries.csv"`, gameID))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
