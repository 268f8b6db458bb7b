package handler

import (
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v3"

	"github.com/medguard/procedure-audit/internal/adapter/artifact"
)

// UploadHandler handles artifact upload and retrieval plus the health check.
type UploadHandler struct {
	storage *artifact.Storage
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(storage *artifact.Storage) *UploadHandler {
	return &UploadHandler{storage: storage}
}

// Register sets up artifact routes.
func (h *UploadHandler) Register(router fiber.Router) {
	router.Get("/health", h.Health)
	router.Post("/upload_image/", h.Upload)
	router.Get("/uploaded/:filename", h.Serve)
	router.Get("/download_image/:filename", h.Download)
}

// Health reports liveness.
func (h *UploadHandler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "Alive"})
}

// Upload stores a multipart artifact and returns its stored filename, which
// callers later pass back as xray_url on an audit request.
func (h *UploadHandler) Upload(c fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing file"})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unreadable file"})
	}
	defer f.Close()

	name, err := h.storage.Save(fileHeader.Filename, f)
	if err != nil {
		slog.Error("artifact upload failed", "filename", fileHeader.Filename, "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to store file"})
	}

	slog.Info("artifact uploaded", "stored_as", name, "size", fileHeader.Size)
	return c.JSON(fiber.Map{"file_url": name})
}

// Serve returns a stored artifact inline.
func (h *UploadHandler) Serve(c fiber.Ctx) error {
	path := h.storage.Path(c.Params("filename"))
	if _, err := os.Stat(path); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "file not found"})
	}
	return c.SendFile(path)
}

// Download returns a stored artifact as an attachment.
func (h *UploadHandler) Download(c fiber.Ctx) error {
	filename := c.Params("filename")
	path := h.storage.Path(filename)
	if _, err := os.Stat(path); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "file not found"})
	}
	return c.Download(path, filename)
}
