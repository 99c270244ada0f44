package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/Intoss/ROMnotice/internal/infra/storage"
)

// roleStore: lookup de rol para la autorización. Lo implementa storage.UserRepo.
type roleStore interface {
	Get(ctx context.Context, discordID string) (storage.User, error)
}

// isPrivileged: owner del bot o rol 'admin' en la tabla users. El core
// confía en el caller; este chequeo vive sólo en el adapter.
func (r *Router) isPrivileged(ctx context.Context, userID string) bool {
	if userID == r.ownerID {
		return true
	}
	u, err := r.users.Get(ctx, userID)
	if err != nil {
		return false
	}
	return u.Role == storage.RoleAdmin
}

func (r *Router) requireAdmin(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate, userID string) bool {
	if r.isPrivileged(ctx, userID) {
		return true
	}
	ReplyEphemeral(s, ic, "🔒 Sólo los admins pueden hacer esto.")
	return false
}
