// Package bot is a Discord front end for the pikgrab API: slash commands in,
// API calls out, embeds back.
package bot

import (
	"log"

	"github.com/bwmarrin/discordgo"
)

type Config struct {
	Token    string
	AppID    string
	APIURL   string
	APIToken string
}

type Bot struct {
	session *discordgo.Session
	cfg     Config
	api     *apiClient
	cmdIDs  []string
}

func New(cfg Config) (*Bot, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, err
	}

	b := &Bot{
		session: s,
		cfg:     cfg,
		api:     newAPIClient(cfg.APIURL, cfg.APIToken),
	}

	s.AddHandler(b.handleInteraction)
	s.Identify.Intents = discordgo.IntentsGuilds

	return b, nil
}

func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return err
	}

	log.Printf("Bot logged in as %s", b.session.State.User.Username)

	for _, cmd := range b.commandDefinitions() {
		created, err := b.session.ApplicationCommandCreate(b.cfg.AppID, "", cmd)
		if err != nil {
			log.Printf("Failed to register command %s: %v", cmd.Name, err)
			continue
		}
		b.cmdIDs = append(b.cmdIDs, created.ID)
		log.Printf("Registered command: /%s", created.Name)
	}

	return nil
}

func (b *Bot) Stop() {
	for _, id := range b.cmdIDs {
		b.session.ApplicationCommandDelete(b.cfg.AppID, "", id)
	}
	b.session.Close()
}

func (b *Bot) commandDefinitions() []*discordgo.ApplicationCommand {
	formatChoices := []*discordgo.ApplicationCommandOptionChoice{
		{Name: "PNG", Value: "PNG"},
		{Name: "JPG", Value: "JPG"},
		{Name: "SVG", Value: "SVG"},
		{Name: "PSD", Value: "PSD"},
		{Name: "GIF", Value: "GIF"},
		{Name: "AI", Value: "AI"},
		{Name: "EPS", Value: "EPS"},
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        "grab",
			Description: "Fetch an asset from Freepik or Flaticon",
			IntegrationTypes: &[]discordgo.ApplicationIntegrationType{
				discordgo.ApplicationIntegrationGuildInstall,
				discordgo.ApplicationIntegrationUserInstall,
			},
			Contexts: &[]discordgo.InteractionContextType{
				discordgo.InteractionContextGuild,
				discordgo.InteractionContextBotDM,
				discordgo.InteractionContextPrivateChannel,
			},
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "url",
					Description: "The asset page URL",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "format",
					Description: "Requested format (default PNG)",
					Required:    false,
					Choices:     formatChoices,
				},
			},
		},
		{
			Name:        "history",
			Description: "Show your recent downloads",
			IntegrationTypes: &[]discordgo.ApplicationIntegrationType{
				discordgo.ApplicationIntegrationGuildInstall,
				discordgo.ApplicationIntegrationUserInstall,
			},
			Contexts: &[]discordgo.InteractionContextType{
				discordgo.InteractionContextGuild,
				discordgo.InteractionContextBotDM,
				discordgo.InteractionContextPrivateChannel,
			},
		},
	}
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "grab":
		b.handleGrab(s, i)
	case "history":
		b.handleHistory(s, i)
	}
}
