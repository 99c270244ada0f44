package discord

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Intoss/ROMnotice/internal/app/service"
	"github.com/Intoss/ROMnotice/internal/domain"
	"github.com/Intoss/ROMnotice/internal/infra/storage"
)

// bossDirectory: lectura del estado de bosses para el menú.
// Lo implementa storage.BossRepo.
type bossDirectory interface {
	Get(ctx context.Context, bossID string) (domain.Boss, error)
	ListAll(ctx context.Context) ([]domain.Boss, error)
}

// killFeed: historial de kills para el panel por-boss.
// Lo implementa storage.KillLogRepo.
type killFeed interface {
	Recent(ctx context.Context, bossID string, limit int) ([]storage.KillRecord, error)
}

// userStore: registro y roles. Lo implementa storage.UserRepo.
type userStore interface {
	roleStore
	Ensure(ctx context.Context, discordID string) error
	SetRole(ctx context.Context, discordID, role string) error
	SoftDelete(ctx context.Context, discordID string) (bool, error)
}

type Router struct {
	s       *discordgo.Session
	guildID string
	ownerID string

	tk      *service.Timekeeper
	pending *service.PendingTimers
	bosses  bossDirectory
	users   userStore
	kills   killFeed
	clans   domain.ClanPair

	clickLimiter *userLimiter
}

func NewRouter(
	s *discordgo.Session,
	guildID, ownerID string,
	tk *service.Timekeeper,
	pending *service.PendingTimers,
	bosses bossDirectory,
	users userStore,
	kills killFeed,
) *Router {
	return &Router{
		s:            s,
		guildID:      guildID,
		ownerID:      ownerID,
		tk:           tk,
		pending:      pending,
		bosses:       bosses,
		users:        users,
		kills:        kills,
		clans:        tk.Clans(),
		clickLimiter: newUserLimiter(1 * time.Second),
	}
}

func (r *Router) Register() error {
	appID := r.s.State.User.ID
	for _, cmd := range Commands {
		if _, err := r.s.ApplicationCommandCreate(appID, r.guildID, cmd); err != nil {
			return err
		}
	}
	return nil
}

func (r *Router) Handlers() {
	r.s.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		switch ic.Type {
		case discordgo.InteractionApplicationCommand:
			r.handleSlash(s, ic)
		case discordgo.InteractionMessageComponent:
			r.handleMessageComponent(s, ic)
		}
	})

	// Mensajes de texto: sólo nos importan los minutos del timer manual.
	r.s.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		r.handleMinutesInput(s, m)
	})
}

func (r *Router) handleSlash(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	data := ic.ApplicationCommandData()
	uid := interactionUserID(ic)
	log.Printf("slash: /%s by=%s guild=%s", data.Name, uid, ic.GuildID)

	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("panic in slash /%s: %v", data.Name, rec)
			ReplyEphemeral(s, ic, "⚠️ Ocurrió un error inesperado.")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
	defer cancel()

	switch data.Name {
	case "start":
		if err := r.users.Ensure(ctx, uid); err != nil {
			log.Printf("ensure user %s: %v", uid, err)
		}
		embed, comps, err := r.buildMenu(ctx)
		if err != nil {
			_ = DeferEphemeral(s, ic)
			ReplyEphemeral(s, ic, "⚠️ No pude armar el menú: "+err.Error())
			return
		}
		RespondMenu(s, ic, embed, comps)

	case "menu":
		embed, comps, err := r.buildMenu(ctx)
		if err != nil {
			_ = DeferEphemeral(s, ic)
			ReplyEphemeral(s, ic, "⚠️ No pude armar el menú: "+err.Error())
			return
		}
		RespondMenu(s, ic, embed, comps)

	case "help":
		_ = DeferEphemeral(s, ic)
		ReplyEphemeral(s, ic, helpText)

	case "stop":
		_ = DeferEphemeral(s, ic)
		removed, err := r.users.SoftDelete(ctx, uid)
		if err != nil {
			ReplyEphemeral(s, ic, "⚠️ No pude darte de baja: "+err.Error())
			return
		}
		if !removed {
			ReplyEphemeral(s, ic, "Ya estabas dado de baja. Con `/start` volvés.")
			return
		}
		ReplyEphemeral(s, ic, "✅ Listo, no te llegan más avisos. Con `/start` volvés cuando quieras.")

	case "addadmin":
		_ = DeferEphemeral(s, ic)
		if uid != r.ownerID {
			ReplyEphemeral(s, ic, "❌ Sólo el owner del bot puede nombrar admins.")
			return
		}
		target := data.Options[0].UserValue(s)
		if target == nil {
			ReplyEphemeral(s, ic, "⚠️ Usuario inválido.")
			return
		}
		if err := r.users.SetRole(ctx, target.ID, storage.RoleAdmin); err != nil {
			ReplyEphemeral(s, ic, "⚠️ No pude guardar el rol: "+err.Error())
			return
		}
		ReplyEphemeral(s, ic, "✅ <@"+target.ID+"> ahora es admin.")
	}
}

// handleMinutesInput cierra el flujo Setup: el admin tipea los minutos en
// el canal y acá se consume el pedido pendiente más viejo.
func (r *Router) handleMinutesInput(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if r.pending.Len() == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if !r.isPrivileged(ctx, m.Author.ID) {
		return
	}

	text := strings.TrimSpace(m.Content)
	mins, ok := parseMinutes(text)
	if !ok {
		_, _ = s.ChannelMessageSend(m.ChannelID, "❌ Tipeá el número de minutos (sólo dígitos).")
		return
	}

	pt, ok := r.pending.TakeFirst()
	if !ok {
		return
	}

	dueAt, err := r.tk.OverrideCustom(ctx, pt.BossID, pt.Clan, m.Author.ID, time.Duration(mins)*time.Minute)
	if err != nil {
		_, _ = s.ChannelMessageSend(m.ChannelID, "⚠️ No pude armar el timer: "+err.Error())
		return
	}

	// editamos el mensaje del setup para cerrar el flujo visualmente
	entry, _ := domain.Find(pt.BossID)
	done := "✅ Timer para **" + entry.Name + "** armado: " + text + " min (clan " + pt.Clan + ")."
	if pt.ChannelID != "" && pt.MessageID != "" {
		_, err := s.ChannelMessageEdit(pt.ChannelID, pt.MessageID, done)
		if err != nil {
			log.Printf("edit setup msg: %v", err)
		}
	}
	_, _ = s.ChannelMessageSend(m.ChannelID,
		done+" Respawn <t:"+unixStr(dueAt)+":R>.")
}

func interactionUserID(ic *discordgo.InteractionCreate) string {
	if ic.Member != nil && ic.Member.User != nil {
		return ic.Member.User.ID
	}
	if ic.User != nil {
		return ic.User.ID
	}
	return ""
}

// parseMinutes acepta sólo dígitos (como el input original), 1..43200.
func parseMinutes(s string) (int, bool) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 || n > 24*60*30 {
		return 0, false
	}
	return n, true
}

func unixStr(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 10)
}
