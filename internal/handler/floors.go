package handler

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/pureai/hostdesk/internal/domain"
	"github.com/pureai/hostdesk/internal/security/middleware"
	"github.com/pureai/hostdesk/internal/service"
)

const maxLayoutImageBytes = 5 << 20

// FloorsHandler handles floors, their layouts, and the live view
type FloorsHandler struct {
	layout    *service.LayoutService
	uploadDir string
	logger    *slog.Logger
}

// NewFloorsHandler creates a new floors handler
func NewFloorsHandler(layout *service.LayoutService, uploadDir string, logger *slog.Logger) *FloorsHandler {
	return &FloorsHandler{layout: layout, uploadDir: uploadDir, logger: logger}
}

// List handles GET /api/floors
func (h *FloorsHandler) List(w http.ResponseWriter, r *http.Request) {
	businessID := middleware.GetBusinessFromContext(r.Context())

	floors, err := h.layout.ListFloors(businessID)
	if err != nil {
		h.logger.Error("failed to list floors", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to list floors")
		return
	}
	if floors == nil {
		floors = []*domain.Floor{}
	}
	writeJSON(w, http.StatusOK, floors)
}

// Create handles POST /api/floors
func (h *FloorsHandler) Create(w http.ResponseWriter, r *http.Request) {
	businessID := middleware.GetBusinessFromContext(r.Context())

	var req struct {
		Name   string  `json:"name"`
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	floor, err := h.layout.CreateFloor(businessID, req.Name, req.Width, req.Height)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, floor)
}

// GetLayout handles GET /api/floors/{id}/layout
func (h *FloorsHandler) GetLayout(w http.ResponseWriter, r *http.Request) {
	businessID := middleware.GetBusinessFromContext(r.Context())
	floorID := r.PathValue("id")

	layout, err := h.layout.GetLayout(businessID, floorID)
	if err != nil {
		h.respondLayoutErr(w, err)
		return
	}
	if layout.Tables == nil {
		layout.Tables = []*domain.Table{}
	}
	writeJSON(w, http.StatusOK, layout)
}

// SaveLayout handles PUT /api/floors/{id}/layout
func (h *FloorsHandler) SaveLayout(w http.ResponseWriter, r *http.Request) {
	businessID := middleware.GetBusinessFromContext(r.Context())
	floorID := r.PathValue("id")

	var req struct {
		Tables []service.TablePlacement `json:"tables"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	tables, err := h.layout.SaveLayout(businessID, floorID, req.Tables)
	if err != nil {
		h.respondLayoutErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tables": tables})
}

// Live handles GET /api/floors/{id}/live
func (h *FloorsHandler) Live(w http.ResponseWriter, r *http.Request) {
	businessID := middleware.GetBusinessFromContext(r.Context())
	floorID := r.PathValue("id")

	snapshot, err := h.layout.LiveSnapshot(businessID, floorID)
	if err != nil {
		h.respondLayoutErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// CreateTable handles POST /api/floors/{id}/tables
func (h *FloorsHandler) CreateTable(w http.ResponseWriter, r *http.Request) {
	businessID := middleware.GetBusinessFromContext(r.Context())
	floorID := r.PathValue("id")

	var req service.TablePlacement
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	table, err := h.layout.CreateTable(businessID, floorID, req)
	if err != nil {
		h.respondLayoutErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, table)
}

// UploadLayoutImage handles POST /api/floors/{id}/layout-image
func (h *FloorsHandler) UploadLayoutImage(w http.ResponseWriter, r *http.Request) {
	businessID := middleware.GetBusinessFromContext(r.Context())
	floorID := r.PathValue("id")

	r.Body = http.MaxBytesReader(w, r.Body, maxLayoutImageBytes)
	if err := r.ParseMultipartForm(maxLayoutImageBytes); err != nil {
		writeError(w, http.StatusBadRequest, "image too large or malformed upload")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp", ".svg":
	default:
		writeError(w, http.StatusBadRequest, "unsupported image type")
		return
	}

	name := uuid.NewString() + ext
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		h.logger.Error("failed to create upload dir", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to store image")
		return
	}
	dst, err := os.Create(filepath.Join(h.uploadDir, name))
	if err != nil {
		h.logger.Error("failed to create upload file", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to store image")
		return
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		h.logger.Error("failed to write upload", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to store image")
		return
	}

	floor, err := h.layout.SetLayoutImage(businessID, floorID, "/uploads/"+name)
	if err != nil {
		h.respondLayoutErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, floor)
}

// DeleteLayoutImage handles DELETE /api/floors/{id}/layout-image
func (h *FloorsHandler) DeleteLayoutImage(w http.ResponseWriter, r *http.Request) {
	businessID := middleware.GetBusinessFromContext(r.Context())
	floorID := r.PathValue("id")

	layout, err := h.layout.GetLayout(businessID, floorID)
	if err != nil {
		h.respondLayoutErr(w, err)
		return
	}
	old := layout.Floor.LayoutImageURL

	floor, err := h.layout.RemoveLayoutImage(businessID, floorID)
	if err != nil {
		h.respondLayoutErr(w, err)
		return
	}

	if name, ok := strings.CutPrefix(old, "/uploads/"); ok && name != "" {
		if err := os.Remove(filepath.Join(h.uploadDir, name)); err != nil && !os.IsNotExist(err) {
			h.logger.Warn("failed to remove layout image file",
				slog.String("file", name),
				slog.String("error", err.Error()),
			)
		}
	}

	writeJSON(w, http.StatusOK, floor)
}

func (h *FloorsHandler) respondLayoutErr(w http.ResponseWriter, err error) {
	switch err {
	case service.ErrFloorNotFound, service.ErrTableNotFound:
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}
