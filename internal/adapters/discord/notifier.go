package discord

import (
	"context"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Intoss/ROMnotice/internal/domain"
	"github.com/Intoss/ROMnotice/internal/infra/storage"
)

// userDirectory: de dónde salen los destinatarios del broadcast.
// Lo implementa storage.UserRepo.
type userDirectory interface {
	AllIDs(ctx context.Context) ([]string, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]string, error)
}

// Notifier implementa service.Notifier sobre Discord: DM a cada usuario
// registrado y, si está configurado, un post al canal de anuncios.
// Best-effort en serio: un destinatario caído no frena a los demás y
// ningún error sube al countdown.
type Notifier struct {
	s        *discordgo.Session
	users    userDirectory
	announce string // channel id opcional, "" = sin canal de anuncios
}

func NewNotifier(s *discordgo.Session, users userDirectory, announceChannelID string) *Notifier {
	return &Notifier{s: s, users: users, announce: announceChannelID}
}

func (n *Notifier) BossKilled(ctx context.Context, boss domain.Boss, clan string, dueAt time.Time) {
	text := renderKilled(boss, clan, dueAt)
	n.broadcast(ctx, text)
	n.toAnnounce(text)
}

func (n *Notifier) RespawnSoon(ctx context.Context, boss domain.Boss, queueClan string, dueAt time.Time) {
	text := renderWarning(boss, queueClan, dueAt)
	n.broadcast(ctx, text)
	n.toAnnounce(text)
}

func (n *Notifier) BossAvailable(ctx context.Context, boss domain.Boss) {
	n.broadcast(ctx, renderAvailable(boss))
}

// TimersRestored es ruido operativo, no un evento de juego: va sólo a los
// admins, no a todos los registrados.
func (n *Notifier) TimersRestored(ctx context.Context, restored int) {
	ids, err := n.users.AllIDs(ctx)
	if err != nil {
		log.Printf("[notify] list recipients: %v", err)
		return
	}
	roles, err := n.users.FindByIDs(ctx, ids)
	if err != nil {
		log.Printf("[notify] roles: %v", err)
		return
	}
	admins := ids[:0]
	for _, uid := range ids {
		if roles[uid] == storage.RoleAdmin {
			admins = append(admins, uid)
		}
	}
	n.send(ctx, admins, renderRestored(restored))
}

// broadcast manda un DM a cada usuario registrado, ignorando fallos
// individuales (usuario bloqueó al bot, DMs cerrados, etc).
func (n *Notifier) broadcast(ctx context.Context, text string) {
	ids, err := n.users.AllIDs(ctx)
	if err != nil {
		log.Printf("[notify] list recipients: %v", err)
		return
	}
	n.send(ctx, ids, text)
}

func (n *Notifier) send(ctx context.Context, ids []string, text string) {
	defer step("notify.broadcast")()

	failed := 0
	for _, uid := range ids {
		if ctx.Err() != nil {
			return
		}
		ch, err := n.s.UserChannelCreate(uid)
		if err != nil {
			failed++
			continue
		}
		if _, err := n.s.ChannelMessageSend(ch.ID, text); err != nil {
			failed++
		}
	}
	if failed > 0 {
		log.Printf("[notify] broadcast: %d/%d recipients failed", failed, len(ids))
	}
}

func (n *Notifier) toAnnounce(text string) {
	if n.announce == "" {
		return
	}
	if _, err := n.s.ChannelMessageSend(n.announce, text); err != nil {
		log.Printf("[notify] announce channel: %v", err)
	}
}
