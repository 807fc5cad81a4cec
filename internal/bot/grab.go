package bot

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

func (b *Bot) handleGrab(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	rawURL := ""
	format := "PNG"

	for _, opt := range data.Options {
		switch opt.Name {
		case "url":
			rawURL = opt.StringValue()
		case "format":
			format = opt.StringValue()
		}
	}

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		log.Printf("[Bot] Failed to defer grab response: %v", err)
		return
	}

	go b.processGrab(s, i, rawURL, format)
}

func (b *Bot) processGrab(s *discordgo.Session, i *discordgo.InteractionCreate, rawURL, format string) {
	resp, err := b.api.grab(rawURL, format, interactionUserID(i))
	if err != nil {
		editEmbed(s, i, errorEmbed("Grab Failed", err.Error()))
		return
	}

	title := "Untitled"
	thumbnail := ""
	if resp.FileInfo != nil {
		title = resp.FileInfo.Title
		thumbnail = resp.FileInfo.Thumbnail
	}

	editEmbed(s, i, successEmbed(title, resp.Format, resp.DownloadURL, thumbnail))
}

func (b *Bot) handleHistory(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		log.Printf("[Bot] Failed to defer history response: %v", err)
		return
	}

	go func() {
		entries, err := b.api.history(interactionUserID(i))
		if err != nil {
			editEmbed(s, i, errorEmbed("History Failed", err.Error()))
			return
		}
		editEmbed(s, i, historyEmbed(entries))
	}()
}

// interactionUserID maps the Discord snowflake onto the API's integer
// requester id. Snowflakes fit in int64.
func interactionUserID(i *discordgo.InteractionCreate) int64 {
	var raw string
	if i.Member != nil && i.Member.User != nil {
		raw = i.Member.User.ID
	} else if i.User != nil {
		raw = i.User.ID
	}
	id, _ := strconv.ParseInt(raw, 10, 64)
	return id
}

func editEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	_, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	})
	if err != nil {
		log.Printf("[Bot] Failed to edit response: %v", err)
	}
}

func truncateField(s string, max int) string {
	if len(s) > max {
		return s[:max-3] + "..."
	}
	return s
}

func formatLine(e historyEntry) string {
	parts := []string{fmt.Sprintf("**%s** (%s, %s)", truncateField(e.Title, 60), e.Format, e.Status)}
	if e.DownloadURL != "" {
		parts = append(parts, fmt.Sprintf("[download](%s)", e.DownloadURL))
	}
	return strings.Join(parts, " · ")
}
