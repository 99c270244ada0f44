package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	discordrouter "github.com/Intoss/ROMnotice/internal/adapters/discord"
	"github.com/Intoss/ROMnotice/internal/app/service"
	"github.com/Intoss/ROMnotice/internal/domain"
	"github.com/Intoss/ROMnotice/internal/infra/config"
	"github.com/Intoss/ROMnotice/internal/infra/storage"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	_ = godotenv.Load()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := config.Load()

	clans := domain.DefaultClans
	if cfg.ClanA != "" && cfg.ClanB != "" {
		clans = domain.ClanPair{cfg.ClanA, cfg.ClanB}
	}

	// DB
	db, err := storage.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := storage.Migrate(db); err != nil {
		log.Fatal("migrate:", err)
	}
	log.Println("✅ DB lista y migrada")

	// Repos
	bossRepo := storage.NewBossRepo(db)
	userRepo := storage.NewUserRepo(db)
	killRepo := storage.NewKillLogRepo(db)

	// Seed idempotente: roster de bosses + owner como admin
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
	if err := bossRepo.Seed(seedCtx, domain.Registry); err != nil {
		log.Fatal("seed bosses:", err)
	}
	if err := userRepo.EnsureOwner(seedCtx, cfg.OwnerID); err != nil {
		log.Fatal("seed owner:", err)
	}
	cancelSeed()
	log.Printf("✅ seed ok (%d bosses, owner=%s)", len(domain.Registry), cfg.OwnerID)

	// Discord session
	auth := cfg.DiscordToken
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(auth)), "bot ") {
		auth = "Bot " + strings.TrimSpace(auth)
	}
	s, err := discordgo.New(auth)
	if err != nil {
		log.Fatal(err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent
	if err := s.Open(); err != nil {
		log.Fatal(err)
	}
	defer s.Close()
	log.Printf("✅ Conectado como %s (%s)", s.State.User.Username, s.State.User.ID)

	// Core
	notifier := discordrouter.NewNotifier(s, userRepo, cfg.AnnounceChannelID)
	tk := service.NewTimekeeper(bossRepo, killRepo, notifier, clans)
	pending := service.NewPendingTimers()

	// Router
	r := discordrouter.NewRouter(s, cfg.DiscordGuild, cfg.OwnerID, tk, pending, bossRepo, userRepo, killRepo)
	if err := r.Register(); err != nil {
		log.Fatalf("registrando comandos: %v", err)
	}
	r.Handlers()
	log.Printf("✅ comandos registrados en guild %s", cfg.DiscordGuild)

	// Recovery: re-armar countdowns desde la DB
	if n, err := tk.Resume(context.Background()); err != nil {
		log.Printf("⚠️ resume: %v", err)
	} else {
		log.Printf("✅ %d timer(s) restaurados", n)
	}

	// Esperar señal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-stop
	tk.Shutdown()
}
