package discord

import (
	"errors"

	"github.com/bwmarrin/discordgo"
	json "github.com/goccy/go-json"

	"giveaway-tracker/internal/features/tracker/models"
)

// ErrUnknownTag is returned for custom ids this bot did not issue.
var ErrUnknownTag = errors.New("unknown interaction tag")

// Tag is the structured payload carried in a component custom id.
type Tag struct {
	Kind    models.InteractionKind `json:"k"`
	OwnerID string                 `json:"o,omitempty"`
}

// EncodeTag serializes t into a custom id.
func EncodeTag(t Tag) string {
	b, err := json.Marshal(t)
	if err != nil {
		return ""
	}
	return string(b)
}

// DecodeTag parses a custom id produced by EncodeTag.
func DecodeTag(customID string) (Tag, error) {
	var t Tag
	if err := json.Unmarshal([]byte(customID), &t); err != nil {
		return Tag{}, ErrUnknownTag
	}
	switch t.Kind {
	case models.InteractionOpenImport, models.InteractionImportAmount, models.InteractionImportSource:
		return t, nil
	default:
		return Tag{}, ErrUnknownTag
	}
}

// ParseInteraction decodes a discordgo interaction into the tracker's
// tagged form.
func ParseInteraction(i *discordgo.Interaction) (models.Interaction, error) {
	out := models.Interaction{UserID: interactionUserID(i)}

	switch i.Type {
	case discordgo.InteractionMessageComponent:
		data := i.MessageComponentData()
		tag, err := DecodeTag(data.CustomID)
		if err != nil {
			return out, err
		}
		out.Kind = tag.Kind
		out.OwnerID = tag.OwnerID
		if len(data.Values) > 0 {
			out.Source = data.Values[0]
		}
		return out, nil

	case discordgo.InteractionModalSubmit:
		data := i.ModalSubmitData()
		tag, err := DecodeTag(data.CustomID)
		if err != nil {
			return out, err
		}
		out.Kind = tag.Kind
		out.OwnerID = tag.OwnerID
		fields := modalValues(data.Components)
		out.USDAmount = fields[FieldUSDAmount]
		out.Coin = fields[FieldCoin]
		return out, nil

	default:
		return out, ErrUnknownTag
	}
}

func interactionUserID(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func modalValues(components []discordgo.MessageComponent) map[string]string {
	out := make(map[string]string)
	for _, c := range components {
		var row []discordgo.MessageComponent
		switch r := c.(type) {
		case *discordgo.ActionsRow:
			row = r.Components
		case discordgo.ActionsRow:
			row = r.Components
		}
		for _, inner := range row {
			switch input := inner.(type) {
			case *discordgo.TextInput:
				out[input.CustomID] = input.Value
			case discordgo.TextInput:
				out[input.CustomID] = input.Value
			}
		}
	}
	return out
}
