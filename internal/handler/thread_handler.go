package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/chatshell-api/internal/service"
	"github.com/noah-isme/chatshell-api/internal/utils"
)

// ThreadHandler exposes thread endpoints.
type ThreadHandler struct {
	service service.ThreadService
	logger  zerolog.Logger
}

// NewThreadHandler constructs a thread handler.
func NewThreadHandler(service service.ThreadService, logger zerolog.Logger) *ThreadHandler {
	return &ThreadHandler{
		service: service,
		logger:  logger.With().Str("component", "thread_handler").Logger(),
	}
}

// Register wires thread routes.
func (h *ThreadHandler) Register(router fiber.Router) {
	router.Get("/servers/:serverId/threads", h.listThreads)
	router.Get("/servers/:serverId/threads/:threadId", h.getThread)
}

func (h *ThreadHandler) listThreads(c *fiber.Ctx) error {
	threads, err := h.service.ListThreads(withRequestContext(c), c.Params("serverId"))
	if err != nil {
		return respondError(c, h.logger, err, "failed to fetch threads")
	}
	return utils.OK(c, threads, "threads retrieved", fiber.Map{"count": len(threads)})
}

func (h *ThreadHandler) getThread(c *fiber.Ctx) error {
	thread, err := h.service.GetThread(withRequestContext(c), c.Params("serverId"), c.Params("threadId"))
	if err != nil {
		return respondError(c, h.logger, err, "failed to fetch thread")
	}
	return utils.SendSuccess(c, "thread retrieved", thread)
}
