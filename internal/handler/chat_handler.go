package handler

import (
	"errors"

	"github.com/akramer2025-dev/brandstore-sub001/internal/assistant"
	"github.com/akramer2025-dev/brandstore-sub001/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type ChatHandler struct{}

func NewChatHandler() *ChatHandler {
	return &ChatHandler{}
}

// Chat proxies the conversation to the generative-AI provider
// POST /api/v1/chat
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req struct {
		Messages []assistant.Message `json:"messages"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if len(req.Messages) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "messages is required"})
	}

	client, err := assistant.NewClientFromEnv()
	if err != nil {
		if errors.Is(err, assistant.ErrMissingCredentials) {
			return c.Status(500).JSON(fiber.Map{"error": "Chat assistant is not configured"})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	reply, err := client.Chat(req.Messages)
	if err != nil {
		logger.LogError("chat", "Chat", "provider_call", map[string]interface{}{
			"messages": len(req.Messages),
		}, err)
		return c.Status(502).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"reply": reply})
}
