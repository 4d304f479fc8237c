package cli

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"school-quiz-bot/internal/config"
	"school-quiz-bot/internal/infra/postgres"
)

const broadcastConcurrency = 8

// NewBroadcastCmd sends a message to every registered user. Delivery is
// best-effort: failures are logged per recipient and tallied, nothing is
// retried.
func NewBroadcastCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "broadcast <message>",
		Short: "Send a message to all registered users",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBroadcast(cmd.Context(), *configPath, args[0])
		},
	}
}

func runBroadcast(ctx context.Context, configPath, text string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token not configured (telegram.token or BOT_TOKEN)")
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	ids, err := postgres.NewUserStore(pool).ListTelegramIDs(ctx)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		log.Printf("broadcast: no registered users")
		return nil
	}

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return fmt.Errorf("telegram: %w", err)
	}

	var sent, failed atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(broadcastConcurrency)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := api.Send(tgbotapi.NewMessage(id, text)); err != nil {
				failed.Add(1)
				log.Printf("broadcast: send to %d: %v", id, err)
				return nil
			}
			sent.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	log.Printf("broadcast: sent=%d failed=%d total=%d", sent.Load(), failed.Load(), len(ids))
	return nil
}
