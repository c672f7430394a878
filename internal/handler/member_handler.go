package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/chatshell-api/internal/service"
	"github.com/noah-isme/chatshell-api/internal/utils"
)

// MemberHandler exposes the member list and direct-message placeholders.
type MemberHandler struct {
	service service.MemberService
	logger  zerolog.Logger
}

// NewMemberHandler constructs a member handler.
func NewMemberHandler(service service.MemberService, logger zerolog.Logger) *MemberHandler {
	return &MemberHandler{
		service: service,
		logger:  logger.With().Str("component", "member_handler").Logger(),
	}
}

// Register wires member routes.
func (h *MemberHandler) Register(router fiber.Router) {
	router.Get("/servers/:serverId/members", h.listMembers)
	router.Get("/dm/:userId", h.getDirectMessage)
}

func (h *MemberHandler) listMembers(c *fiber.Ctx) error {
	members, err := h.service.ListMembers(withRequestContext(c), c.Params("serverId"))
	if err != nil {
		return respondError(c, h.logger, err, "failed to fetch members")
	}
	return utils.OK(c, members, "members retrieved", fiber.Map{"count": len(members)})
}

func (h *MemberHandler) getDirectMessage(c *fiber.Ctx) error {
	dm, err := h.service.GetDirectMessage(withRequestContext(c), c.Params("userId"))
	if err != nil {
		return respondError(c, h.logger, err, "failed to fetch direct message")
	}
	return utils.SendSuccess(c, "direct message retrieved", dm)
}
