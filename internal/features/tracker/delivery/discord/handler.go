package discord

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	apperrors "giveaway-tracker/internal/common/errors"
	"giveaway-tracker/internal/common/logger"
	"giveaway-tracker/internal/features/tracker/models"
	"giveaway-tracker/internal/features/tracker/service"
	platform "giveaway-tracker/internal/platform/discord"
)

const handlerTimeout = 30 * time.Second

// Responder answers interactions. *discordgo.Session implements it.
type Responder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
}

// Handler routes gateway events into the tracker service.
type Handler struct {
	svc       service.TrackerService
	responder Responder
}

func NewHandler(svc service.TrackerService, responder Responder) *Handler {
	return &Handler{svc: svc, responder: responder}
}

// Register subscribes the handler to message and interaction events.
func (h *Handler) Register(s *discordgo.Session) {
	s.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
		defer cancel()
		h.HandleMessage(ctx, m.Message)
	})
	s.AddHandler(func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
		defer cancel()
		h.HandleInteraction(ctx, i.Interaction)
	})
}

// HandleMessage ingests a newly posted message.
func (h *Handler) HandleMessage(ctx context.Context, m *discordgo.Message) {
	defer h.recoverPanic("message")
	if m == nil {
		return
	}
	n, err := h.svc.HandleMessage(ctx, platform.ToChatMessage(m))
	if err != nil {
		logger.Error().Err(err).Str("channel_id", m.ChannelID).Str("message_id", m.ID).Msg("Live ingestion failed")
		return
	}
	if n > 0 {
		logger.Info().Str("channel_id", m.ChannelID).Str("message_id", m.ID).Int("entries", n).Msg("Live giveaway recorded")
	}
}

// HandleInteraction drives the two-step import dialog. Every failure is
// answered to the user; nothing propagates to the gateway loop.
func (h *Handler) HandleInteraction(ctx context.Context, i *discordgo.Interaction) {
	defer h.recoverPanic("interaction")

	in, err := platform.ParseInteraction(i)
	if err != nil {
		if errors.Is(err, platform.ErrUnknownTag) {
			logger.Debug().Str("interaction_id", i.ID).Msg("Ignoring interaction with foreign tag")
			return
		}
		h.replyError(i, err)
		return
	}

	switch in.Kind {
	case models.InteractionOpenImport:
		h.respond(i, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseModal,
			Data: platform.ImportModal(),
		})

	case models.InteractionImportAmount:
		p, err := h.svc.StageImport(in.UserID, in.USDAmount, in.Coin)
		if err != nil {
			h.replyError(i, err)
			return
		}
		h.respond(i, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content:    fmt.Sprintf("Importing $%.2f %s. Pick the source:", p.USDAmount, p.Coin),
				Components: platform.SourceSelect(in.UserID),
				Flags:      discordgo.MessageFlagsEphemeral,
			},
		})

	case models.InteractionImportSource:
		entry, err := h.svc.CommitImport(ctx, in.UserID, in.OwnerID, in.Source)
		if !service.ImportKept(err) {
			h.replyError(i, err)
			return
		}
		if err != nil {
			logger.Error().Err(err).Str("user_id", in.UserID).Msg("Import kept in memory but not persisted")
		}
		h.replyEphemeral(i, fmt.Sprintf("Imported $%.2f %s as %s.", entry.USDAmount, entry.Coin, entry.Source))
	}
}

func (h *Handler) replyError(i *discordgo.Interaction, err error) {
	logger.Warn().Err(err).Str("interaction_id", i.ID).Msg("Interaction rejected")
	h.replyEphemeral(i, userMessage(err))
}

func (h *Handler) replyEphemeral(i *discordgo.Interaction, content string) {
	h.respond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func (h *Handler) respond(i *discordgo.Interaction, resp *discordgo.InteractionResponse) {
	if err := h.responder.InteractionRespond(i, resp); err != nil {
		logger.Error().Err(err).Str("interaction_id", i.ID).Msg("Failed to answer interaction")
	}
}

func (h *Handler) recoverPanic(event string) {
	if r := recover(); r != nil {
		logger.Error().Interface("panic", r).Str("event", event).Msg("Recovered from panic in chat handler")
	}
}

// userMessage turns an error into a short reply for the user.
func userMessage(err error) string {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		return "Something went wrong, please try again."
	}
	switch appErr.Code {
	case apperrors.ErrCodeCorrelationMismatch:
		return "This import was started by someone else."
	case apperrors.ErrCodePendingNotFound:
		return "Your import expired. Press Import to start again."
	case apperrors.ErrCodeValidation:
		return "That source is not one of the options."
	default:
		return "Something went wrong, please try again."
	}
}
