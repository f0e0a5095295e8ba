package generation

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"docgen-backend/internal/render/deck"
	"docgen-backend/internal/render/spreadsheet"
	"docgen-backend/internal/shared/server/respond"
	"docgen-backend/internal/shared/util"
)

// Handler wires HTTP handlers to the document generation dispatcher.
type Handler struct {
	Dispatcher *Dispatcher
	OutputDir  string
}

// NewHandler constructs a Handler.
func NewHandler(dispatcher *Dispatcher, outputDir string) *Handler {
	return &Handler{Dispatcher: dispatcher, OutputDir: outputDir}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents", h.createDocument)
	rg.GET("/documents/:id", h.getDocument)
	rg.GET("/documents/:id/:fileName", h.viewFile)
	rg.GET("/documents/:id/download/:fileName", h.downloadFile)
}

func (h *Handler) createDocument(c *gin.Context) {
	var req createDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "title is required", []map[string]string{
			{"field": "title", "issue": "required"},
		})
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "content is required", []map[string]string{
			{"field": "content", "issue": "required"},
		})
		return
	}
	docType, ok := ParseDocumentType(req.DocumentType)
	if !ok {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unsupported document type", []map[string]string{
			{"field": "documentType", "issue": "unsupported"},
		})
		return
	}
	c.Set("documentType", string(docType))

	job, err := h.Dispatcher.Submit(c.Request.Context(), DocumentRequest{
		Title:             req.Title,
		Content:           req.Content,
		DocumentType:      docType,
		TemplateName:      req.TemplateName,
		Sections:          req.Sections,
		AdditionalOptions: req.AdditionalOptions,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrBusy):
			respond.Error(c, http.StatusServiceUnavailable, "busy", "generation queue is full, retry later", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "title and content are required", nil)
		case errors.Is(err, ErrUnsupportedType):
			respond.Error(c, http.StatusBadRequest, "validation_error", "unsupported document type", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to accept request", nil)
		}
		return
	}

	c.Set("jobId", job.ID)
	c.Header("Location", "/api/documents/"+job.ID)
	respond.Accepted(c, job)
}

func (h *Handler) getDocument(c *gin.Context) {
	jobID := c.Param("id")
	if jobID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "job id is required", nil)
		return
	}
	c.Set("jobId", jobID)

	job, err := h.Dispatcher.Status(c.Request.Context(), jobID)
	if err != nil {
		// The record is still well formed for unknown ids, so clients
		// polling a stale or mistyped id get a stable failed payload.
		respond.JSON(c, http.StatusNotFound, job)
		return
	}
	respond.OK(c, job)
}

func (h *Handler) viewFile(c *gin.Context) {
	path, contentType, ok := h.resolveFile(c)
	if !ok {
		return
	}
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", `inline; filename="`+filepath.Base(path)+`"`)
	c.File(path)
}

func (h *Handler) downloadFile(c *gin.Context) {
	path, _, ok := h.resolveFile(c)
	if !ok {
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}

// resolveFile maps the :id (document type) and :fileName params to a file
// under the output directory, writing the error response itself on failure.
func (h *Handler) resolveFile(c *gin.Context) (path, contentType string, ok bool) {
	docType, typeOK := ParseDocumentType(c.Param("id"))
	if !typeOK {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unsupported document type", nil)
		return "", "", false
	}
	fileName, err := util.SanitizeFileName(c.Param("fileName"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file name", nil)
		return "", "", false
	}

	switch docType {
	case TypeSpreadsheet:
		contentType = spreadsheet.ContentType
	case TypeSlideDeck:
		contentType = deck.ContentType
	}

	path = filepath.Join(h.OutputDir, fileName)
	if _, statErr := os.Stat(path); statErr != nil {
		respond.Error(c, http.StatusNotFound, "not_found", "document file not found", nil)
		return "", "", false
	}
	return path, contentType, true
}
