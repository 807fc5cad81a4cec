package bot

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

const (
	colorSuccess = 0x57F287
	colorError   = 0xED4245
)

func successEmbed(title, format, downloadURL, thumbnail string) *discordgo.MessageEmbed {
	desc := fmt.Sprintf("Format: **%s**", format)
	if downloadURL != "" {
		desc += fmt.Sprintf("\n[Download](%s)", downloadURL)
	} else {
		desc += "\nNo direct download could be resolved."
	}

	embed := &discordgo.MessageEmbed{
		Title:       truncateField(title, 256),
		Description: desc,
		Color:       colorSuccess,
	}
	if thumbnail != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: thumbnail}
	}
	return embed
}

func errorEmbed(title, message string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: truncateField(message, 2048),
		Color:       colorError,
	}
}

func historyEmbed(entries []historyEntry) *discordgo.MessageEmbed {
	if len(entries) == 0 {
		return &discordgo.MessageEmbed{
			Title:       "Download History",
			Description: "No downloads yet. Try /grab!",
			Color:       colorSuccess,
		}
	}

	lines := make([]string, 0, len(entries))
	for idx, e := range entries {
		if idx >= 10 {
			lines = append(lines, fmt.Sprintf("...and %d more", len(entries)-10))
			break
		}
		lines = append(lines, formatLine(e))
	}

	return &discordgo.MessageEmbed{
		Title:       "Download History",
		Description: truncateField(strings.Join(lines, "\n"), 4096),
		Color:       colorSuccess,
	}
}
