package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"giveaway-tracker/internal/features/tracker/models"
)

const (
	embedColor = 0xF1C40F

	// Form field ids of the step-one import modal.
	FieldUSDAmount = "usd_amount"
	FieldCoin      = "coin"
)

// SummaryEmbed renders bucket totals, leaderboard and distribution.
func SummaryEmbed(s models.Summary) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{Name: "All time", Value: usd(s.Totals.All), Inline: true},
	}
	if s.Buckets.Weekly {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Last 7 days", Value: usd(s.Totals.Weekly), Inline: true})
	}
	if s.Buckets.Biweekly {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Last 14 days", Value: usd(s.Totals.Biweekly), Inline: true})
	}
	if s.Buckets.Monthly {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Last 30 days", Value: usd(s.Totals.Monthly), Inline: true})
	}
	if s.Buckets.Custom {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("Last %d days", s.CustomDays),
			Value:  usd(s.Totals.Custom),
			Inline: true,
		})
	}

	fields = append(fields,
		&discordgo.MessageEmbedField{Name: "Leaderboard", Value: leaderboardText(s.Leaderboard)},
		&discordgo.MessageEmbedField{Name: "By source", Value: distributionText(s.Distribution)},
	)

	return &discordgo.MessageEmbed{
		Title:     "Giveaway tracker",
		Color:     embedColor,
		Fields:    fields,
		Footer:    &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("%d giveaways tracked", s.EntryCount)},
		Timestamp: time.UnixMilli(s.GeneratedAt).UTC().Format(time.RFC3339),
	}
}

func leaderboardText(rows []models.LeaderboardRow) string {
	if len(rows) == 0 {
		return "No winners yet"
	}
	var b strings.Builder
	for i, r := range rows {
		fmt.Fprintf(&b, "%d. <@%s> %s (%d wins)\n", i+1, r.WinnerID, usd(r.TotalUSD), r.Wins)
	}
	return b.String()
}

func distributionText(rows []models.DistributionRow) string {
	if len(rows) == 0 {
		return "Nothing yet"
	}
	var b strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&b, "%s: %s\n", r.Source, usd(r.TotalUSD))
	}
	return b.String()
}

func usd(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// SummaryComponents is the Import button shown under the summary.
func SummaryComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "Import",
				Style:    discordgo.PrimaryButton,
				CustomID: EncodeTag(Tag{Kind: models.InteractionOpenImport}),
			},
		}},
	}
}

// ImportModal is the step-one form asking for the USD amount and coin.
func ImportModal() *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		CustomID: EncodeTag(Tag{Kind: models.InteractionImportAmount}),
		Title:    "Import giveaway",
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    FieldUSDAmount,
					Label:       "USD amount",
					Style:       discordgo.TextInputShort,
					Placeholder: "25.50",
					Required:    true,
					MaxLength:   12,
				},
			}},
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    FieldCoin,
					Label:       "Coin",
					Style:       discordgo.TextInputShort,
					Placeholder: "TRX",
					MaxLength:   10,
				},
			}},
		},
	}
}

// SourceSelect is the step-two control, issued to ownerID only.
func SourceSelect(ownerID string) []discordgo.MessageComponent {
	options := make([]discordgo.SelectMenuOption, 0, len(models.Sources))
	for _, src := range models.Sources {
		options = append(options, discordgo.SelectMenuOption{Label: string(src), Value: string(src)})
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				MenuType:    discordgo.StringSelectMenu,
				CustomID:    EncodeTag(Tag{Kind: models.InteractionImportSource, OwnerID: ownerID}),
				Placeholder: "Where did this giveaway happen?",
				Options:     options,
			},
		}},
	}
}
