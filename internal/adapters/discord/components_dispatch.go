package discord

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Intoss/ROMnotice/internal/app/service"
	"github.com/Intoss/ROMnotice/internal/infra/storage"
)

func (r *Router) handleMessageComponent(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	data := ic.MessageComponentData()
	uid := interactionUserID(ic)

	parts := strings.Split(data.CustomID, "|")
	key := parts[0]

	ctx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()

	// refresh/back editan el mensaje del menú in-place, sin defer
	if key == "menu_refresh" || key == "menu_back" {
		embed, comps, err := r.buildMenu(ctx)
		if err != nil {
			log.Printf("menu refresh: %v", err)
			return
		}
		UpdateMenu(s, ic, embed, comps)
		return
	}

	_ = DeferEphemeral(s, ic)

	switch key {

	case "menu_help":
		ReplyEphemeral(s, ic, helpText)

	case "boss_select":
		if len(data.Values) == 0 {
			ReplyEphemeral(s, ic, "⚠️ Selección inválida.")
			return
		}
		bossID := data.Values[0]
		boss, err := r.bosses.Get(ctx, bossID)
		if err != nil {
			ReplyEphemeral(s, ic, "⚠️ No encontré ese boss.")
			return
		}
		// reabrir el panel descarta un setup a medias para este boss
		r.pending.Drop(bossID)
		text := renderBossPanel(boss)
		if recs, err := r.kills.Recent(ctx, bossID, 3); err == nil {
			text += renderKillHistory(recs)
		}
		ReplyEphemeral(s, ic, text, r.buildBossPanel(boss)...)

	case "boss_kill":
		if len(parts) < 3 {
			return
		}
		bossID, clan := parts[1], parts[2]
		if !r.clickLimiter.Allow(uid) {
			ReplyEphemeral(s, ic, "⏳ Esperá un segundo…")
			return
		}
		if !r.requireAdmin(ctx, s, ic, uid) {
			return
		}
		stop := step("component.boss_kill")
		dueAt, err := r.tk.ReportKill(ctx, bossID, clan, uid)
		stop()
		if err != nil {
			if err == storage.ErrUnknownBoss {
				ReplyEphemeral(s, ic, "⚠️ Boss desconocido.")
				return
			}
			ReplyEphemeral(s, ic, "⚠️ No pude registrar el kill: "+err.Error())
			return
		}
		ReplyEphemeral(s, ic, "✅ Kill de **"+clan+"** registrado. Respawn <t:"+unixStr(dueAt)+":R>.")

	case "boss_other":
		if len(parts) < 2 {
			return
		}
		bossID := parts[1]
		if !r.clickLimiter.Allow(uid) {
			ReplyEphemeral(s, ic, "⏳ Esperá un segundo…")
			return
		}
		if !r.requireAdmin(ctx, s, ic, uid) {
			return
		}
		dueAt, err := r.tk.OverrideSameKiller(ctx, bossID, uid)
		if err != nil {
			ReplyEphemeral(s, ic, "⚠️ No pude re-armar el timer: "+err.Error())
			return
		}
		ReplyEphemeral(s, ic, "✅ Timer re-armado sin cambiar crédito. Respawn <t:"+unixStr(dueAt)+":R>.")

	case "boss_setup":
		if len(parts) < 2 {
			return
		}
		bossID := parts[1]
		if !r.requireAdmin(ctx, s, ic, uid) {
			return
		}
		entry, err := r.bosses.Get(ctx, bossID)
		if err != nil {
			ReplyEphemeral(s, ic, "⚠️ No encontré ese boss.")
			return
		}
		ReplyEphemeral(s, ic, "¿Qué clan se lleva el crédito para **"+entry.Name+"**?",
			r.buildSetupClanRow(bossID)...)

	case "boss_setup_clan":
		if len(parts) < 3 {
			return
		}
		bossID, clan := parts[1], parts[2]
		if !r.requireAdmin(ctx, s, ic, uid) {
			return
		}
		var chID, msgID string
		if ic.Message != nil {
			chID, msgID = ic.Message.ChannelID, ic.Message.ID
		}
		// supersede cualquier pedido anterior para este boss
		r.pending.Create(service.PendingTimer{
			BossID:    bossID,
			Clan:      clan,
			ChannelID: chID,
			MessageID: msgID,
		})
		entry, _ := r.bosses.Get(ctx, bossID)
		ReplyEphemeral(s, ic, "Tipeá en el canal la cantidad de **minutos** hasta el respawn de **"+entry.Name+"** (clan "+clan+").")
	}
}
