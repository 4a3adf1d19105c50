package handler

import (
	"errors"
	"io"

	"github.com/akramer2025-dev/brandstore-sub001/internal/uploader"
	"github.com/akramer2025-dev/brandstore-sub001/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type UploadHandler struct{}

func NewUploadHandler() *UploadHandler {
	return &UploadHandler{}
}

// Upload proxies a multipart image to the hosting service
// POST /api/v1/upload
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "file is required"})
	}
	if fileHeader.Size > uploader.MaxUploadSize {
		return c.Status(400).JSON(fiber.Map{"error": "file exceeds maximum size"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to open uploaded file"})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to read uploaded file"})
	}

	client, err := uploader.NewClientFromEnv()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Upload service is not configured"})
	}

	url, err := client.Upload(fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		if errors.Is(err, uploader.ErrUnsupportedType) || errors.Is(err, uploader.ErrFileTooLarge) {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		logger.LogError("upload", "Upload", "provider_call", map[string]interface{}{
			"filename": fileHeader.Filename, "size": fileHeader.Size,
		}, err)
		return c.Status(502).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"url": url})
}
