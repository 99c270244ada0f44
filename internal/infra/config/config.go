package config

import (
	"log"
	"os"
)

type Config struct {
	DatabaseURL  string
	DiscordToken string
	DiscordGuild string
	OwnerID      string // discord id del owner; siempre admin

	// opcionales
	AnnounceChannelID string // canal de anuncios además de los DMs
	ClanA, ClanB      string // override de los dos clanes
}

func Load() Config {
	get := func(k string, req bool) string {
		v := os.Getenv(k)
		if v == "" && req {
			log.Fatalf("faltante env %s", k)
		}
		return v
	}

	cfg := Config{
		DatabaseURL:  get("DATABASE_URL", true),
		DiscordToken: get("DISCORD_BOT_TOKEN", true),
		DiscordGuild: get("DISCORD_GUILD_ID", true),
		OwnerID:      get("OWNER_DISCORD_ID", true),
		// opcionales
		AnnounceChannelID: get("ANNOUNCE_CHANNEL_ID", false),
		ClanA:             get("CLAN_A", false),
		ClanB:             get("CLAN_B", false),
	}
	return cfg
}
