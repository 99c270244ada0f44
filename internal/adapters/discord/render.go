package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/Intoss/ROMnotice/internal/domain"
	"github.com/Intoss/ROMnotice/internal/infra/storage"
)

// Todo el texto/markup vive acá: el core entrega hechos, este archivo arma
// los mensajes. Emojis del bot original: 💀 kill, 🔔 warning, ⚔️ respawn.

func renderKilled(boss domain.Boss, clan string, dueAt time.Time) string {
	return fmt.Sprintf("💀 **%s** fue eliminado por **%s**.\n⏰ Próximo respawn: <t:%d:F> (<t:%d:R>)",
		boss.Name, clan, dueAt.Unix(), dueAt.Unix())
}

func renderWarning(boss domain.Boss, queueClan string, dueAt time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔔 **%s** respawnea <t:%d:R>.", boss.Name, dueAt.Unix())
	if queueClan != "" {
		fmt.Fprintf(&b, "\nCola del clan: **%s**.", queueClan)
	}
	return b.String()
}

func renderAvailable(boss domain.Boss) string {
	return fmt.Sprintf("⚔️ **%s** está disponible de nuevo!", boss.Name)
}

func renderRestored(restored int) string {
	return fmt.Sprintf("♻️ Bot reiniciado: %d timer(s) de respawn restaurados.", restored)
}

// renderMenuLines: una línea por boss para el embed del menú principal.
func renderMenuLines(bosses []domain.Boss, clans domain.ClanPair) string {
	if len(bosses) == 0 {
		return "Sin bosses registrados."
	}
	var b strings.Builder
	for _, boss := range bosses {
		queue := "—"
		if q, ok := clans.Queue(boss.LastKiller); ok {
			queue = q
		}
		resp := "—"
		if boss.RespawnDueAt != nil {
			resp = fmt.Sprintf("<t:%d:R>", boss.RespawnDueAt.Unix())
		}
		fmt.Fprintf(&b, "**%s** · cola: %s · resp: %s\n", boss.Name, queue, resp)
	}
	return b.String()
}

// renderKillHistory: las últimas entradas del kill_log para el panel.
func renderKillHistory(recs []storage.KillRecord) string {
	if len(recs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\nÚltimos registros:\n")
	for _, rec := range recs {
		clan := "—"
		if rec.Clan != nil {
			clan = *rec.Clan
		}
		mark := ""
		if rec.Custom {
			mark = " (manual)"
		}
		fmt.Fprintf(&b, "• %s%s — <t:%d:R>\n", clan, mark, rec.CreatedAt.Unix())
	}
	return b.String()
}

func renderBossPanel(boss domain.Boss) string {
	last := "—"
	if boss.LastKiller != nil {
		last = *boss.LastKiller
	}
	return fmt.Sprintf("Boss: **%s**\nÚltimo kill: **%s**\n¿Qué clan lo mató?", boss.Name, last)
}
