package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"school-quiz-bot/internal/config"
	"school-quiz-bot/internal/domain"
	"school-quiz-bot/internal/infra/memory"
	"school-quiz-bot/internal/infra/postgres"
	"school-quiz-bot/internal/leaderboard"
	"school-quiz-bot/internal/quiz"
	"school-quiz-bot/internal/reading"
	transport "school-quiz-bot/internal/transport/http"
	"school-quiz-bot/internal/transport/telegram"
)

// NewStartCmd builds the CLI subcommand to start the bot and the HTTP API.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz bot and the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

// userStore is what the wiring needs from either the Postgres or the
// in-memory user registry.
type userStore interface {
	telegram.UserRegistry
	transport.UserDirectory
	quiz.ResultSink
	ListTelegramIDs(ctx context.Context) ([]int64, error)
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token not configured (telegram.token or BOT_TOKEN)")
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var users userStore = memory.NewUserStore()
	var readingResults transport.ReadingResultStore = memory.NewReadingStore()
	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		users = postgres.NewUserStore(pool)
		readingResults = postgres.NewReadingStore(pool)
	} else {
		log.Printf("no postgres url configured, using in-memory stores")
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	bank, err := loadBank(cfg.Quiz.BankPath)
	if err != nil {
		return err
	}
	mocks, err := loadMocks(cfg.Reading.MocksPath)
	if err != nil {
		return err
	}

	quizLength := cfg.QuizLength()
	window := cfg.QuestionWindow()
	if bank.Len() < quizLength {
		return fmt.Errorf("%w: quiz.length=%d, bank=%d", domain.ErrBankTooSmall, quizLength, bank.Len())
	}

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return fmt.Errorf("telegram: %w", err)
	}

	board := leaderboard.New(redisClient)
	sink := quiz.MultiSink{users, leaderboard.NewSink(board, users, quizLength)}
	timers := quiz.NewTimerManager()
	presenter := telegram.NewPresenter(api)
	engine := quiz.NewEngine(bank, timers, presenter, sink, quizLength, window)
	bot := telegram.NewBot(api, engine, users, quizLength, window)
	handler := transport.NewHandler(users, mocks, readingResults, board)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	botCtx, stopBot := context.WithCancel(ctx)
	defer stopBot()
	go bot.Run(botCtx)

	go func() {
		log.Printf("starting HTTP API on :%s (quiz: %d questions, %s per question)", finalPort, quizLength, window)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down...")
	}

	stopBot()
	engine.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func loadBank(path string) (*quiz.Bank, error) {
	if path != "" {
		return quiz.LoadBank(path)
	}
	log.Printf("no question bank configured, using the built-in sample")
	return quiz.NewBank(sampleQuestions())
}

func loadMocks(path string) (*reading.Library, error) {
	if path != "" {
		return reading.LoadLibrary(path)
	}
	return reading.NewLibrary(sampleMocks())
}

// sampleQuestions keeps the bot usable without a questions file; swap in a
// real bank via quiz.bank_path for production.
func sampleQuestions() []domain.Question {
	return []domain.Question{
		{Prompt: "2 + 2 nechaga teng?", Options: []string{"3", "4", "5"}, Correct: 1},
		{Prompt: "O‘zbekiston poytaxti qaysi shahar?", Options: []string{"Samarqand", "Buxoro", "Toshkent"}, Correct: 2},
		{Prompt: "Suvning kimyoviy formulasi qanday?", Options: []string{"H2O", "CO2", "O2"}, Correct: 0},
		{Prompt: "Yer quyosh atrofini necha kunda aylanadi?", Options: []string{"365", "30", "24"}, Correct: 0},
		{Prompt: "Eng katta okean qaysi?", Options: []string{"Atlantika", "Tinch", "Hind"}, Correct: 1},
		{Prompt: "Alisher Navoiy qaysi asrda yashagan?", Options: []string{"XIII", "XV", "XVII"}, Correct: 1},
		{Prompt: "Uchburchak ichki burchaklari yig‘indisi necha gradus?", Options: []string{"90", "180", "360"}, Correct: 1},
		{Prompt: "Yorug‘lik tezligi taxminan qancha?", Options: []string{"300 000 km/s", "150 000 km/s", "1 000 km/s"}, Correct: 0},
		{Prompt: "Eng kichik tub son qaysi?", Options: []string{"0", "1", "2"}, Correct: 2},
		{Prompt: "Fotosintez qaysi organoidda kechadi?", Options: []string{"Mitoxondriya", "Xloroplast", "Yadro"}, Correct: 1},
		{Prompt: "Amudaryo qaysi dengizga quyiladi?", Options: []string{"Kaspiy", "Orol", "Qora"}, Correct: 1},
		{Prompt: "O‘zbekiston mustaqillikka qachon erishgan?", Options: []string{"1990", "1991", "1992"}, Correct: 1},
		{Prompt: "100 ning kvadrat ildizi nechaga teng?", Options: []string{"10", "50", "1000"}, Correct: 0},
		{Prompt: "Davriy jadval kim tomonidan tuzilgan?", Options: []string{"Mendeleyev", "Nyuton", "Eynshteyn"}, Correct: 0},
		{Prompt: "Eng baland tog‘ cho‘qqisi qaysi?", Options: []string{"Everest", "K2", "Elbrus"}, Correct: 0},
		{Prompt: "Bir sutkada necha soat bor?", Options: []string{"12", "24", "48"}, Correct: 1},
	}
}

func sampleMocks() []byte {
	return []byte(`[
  {
    "id": "mock-1",
    "part1": {"answers": ["library", "teacher"]},
    "part2": {"answers": ["A", "C"]},
    "part3": {"answers": ["TRUE", "FALSE"]},
    "part4": {"answers": ["ii", "iv"]},
    "part5": {"summary": {"answers": ["energy"]}, "mc": {"answers": ["B"]}}
  }
]`)
}
