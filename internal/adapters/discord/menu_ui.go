package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Intoss/ROMnotice/internal/domain"
)

// Menú principal: un embed con la tabla de bosses y un select para elegir
// boss (11 bosses no entran cómodos en botones, 25 es el tope de un select).
func (r *Router) buildMenu(ctx context.Context) (*discordgo.MessageEmbed, []discordgo.MessageComponent, error) {
	bosses, err := r.bosses.ListAll(ctx)
	if err != nil {
		return nil, nil, err
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Bosses — cola y respawns",
		Description: renderMenuLines(bosses, r.clans),
		Timestamp:   time.Now().Format(time.RFC3339),
	}

	opts := make([]discordgo.SelectMenuOption, 0, len(bosses))
	now := time.Now()
	for _, b := range bosses {
		desc := "vivo"
		if b.OnTimer(now) {
			desc = "respawn " + b.RespawnDueAt.Format("15:04:05")
		}
		opts = append(opts, discordgo.SelectMenuOption{
			Label:       b.Name,
			Value:       b.ID,
			Description: desc,
		})
	}

	comps := []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					CustomID:    "boss_select",
					Placeholder: "Elegí un boss…",
					Options:     opts,
				},
			},
		},
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Style:    discordgo.SecondaryButton,
					Label:    "Actualizar",
					CustomID: "menu_refresh",
					Emoji:    &discordgo.ComponentEmoji{Name: "🔄"},
				},
				discordgo.Button{
					Style:    discordgo.SecondaryButton,
					Label:    "Ayuda",
					CustomID: "menu_help",
					Emoji:    &discordgo.ComponentEmoji{Name: "❓"},
				},
			},
		},
	}
	return embed, comps, nil
}

// Panel por-boss: botones de clan + Otros + Setup.
func (r *Router) buildBossPanel(boss domain.Boss) []discordgo.MessageComponent {
	clanRow := discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				Style:    discordgo.PrimaryButton,
				Label:    r.clans[0],
				CustomID: fmt.Sprintf("boss_kill|%s|%s", boss.ID, r.clans[0]),
			},
			discordgo.Button{
				Style:    discordgo.PrimaryButton,
				Label:    r.clans[1],
				CustomID: fmt.Sprintf("boss_kill|%s|%s", boss.ID, r.clans[1]),
			},
		},
	}
	extraRow := discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				Style:    discordgo.SecondaryButton,
				Label:    "Otros",
				CustomID: "boss_other|" + boss.ID,
			},
			discordgo.Button{
				Style:    discordgo.SecondaryButton,
				Label:    "Setup",
				CustomID: "boss_setup|" + boss.ID,
				Emoji:    &discordgo.ComponentEmoji{Name: "⚙️"},
			},
		},
	}
	return []discordgo.MessageComponent{clanRow, extraRow}
}

// Elección de clan para el timer manual.
func (r *Router) buildSetupClanRow(bossID string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Style:    discordgo.PrimaryButton,
					Label:    r.clans[0],
					CustomID: fmt.Sprintf("boss_setup_clan|%s|%s", bossID, r.clans[0]),
				},
				discordgo.Button{
					Style:    discordgo.PrimaryButton,
					Label:    r.clans[1],
					CustomID: fmt.Sprintf("boss_setup_clan|%s|%s", bossID, r.clans[1]),
				},
			},
		},
	}
}
