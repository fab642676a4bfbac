package main

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cazehq/bizcon/internal/entity"
	"github.com/cazehq/bizcon/internal/infra/chatlog"
	"github.com/cazehq/bizcon/internal/infra/database"
	"github.com/cazehq/bizcon/internal/infra/http/handlers"
	"github.com/cazehq/bizcon/internal/infra/http/middleware"
	"github.com/cazehq/bizcon/internal/infra/integration/calendar"
	"github.com/cazehq/bizcon/internal/infra/integration/knowledge"
	"github.com/cazehq/bizcon/internal/infra/integration/llm"
	"github.com/cazehq/bizcon/internal/infra/mail"
	"github.com/cazehq/bizcon/internal/infra/queue"
	"github.com/cazehq/bizcon/internal/usecase"
)

func main() {
	godotenv.Load()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(
		envOr("RABBITMQ_USER", "user"),
		envOr("RABBITMQ_PASS", "password"),
		envOr("RABBITMQ_HOST", "localhost"),
		envOr("RABBITMQ_PORT", "5672"),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// 1. Repositories and stores
	leadRepo := database.NewLeadRepository(db)
	ownerRepo := database.NewOwnerRepository(db)

	transcripts, err := chatlog.NewFileStore(envOr("CHAT_LOG_DIR", "chat_logs"))
	if err != nil {
		log.Fatal(err)
	}

	// 2. Gateways and adapters
	languageModel := llm.NewClient(
		os.Getenv("OPENAI_BASE_URL"),
		os.Getenv("OPENAI_API_KEY"),
		envOr("OPENAI_MODEL", "gpt-4o-mini"),
	)
	knowledgeStore := knowledge.NewClient(envOr("KNOWLEDGE_URL", "http://localhost:8100"))
	calendarGateway := calendar.NewClient(envOr("CALENDAR_URL", "http://localhost:8200"), os.Getenv("CALENDAR_TOKEN"))
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	mailSender := mail.NewEmailSender(
		os.Getenv("MAIL_HOST"), envOrInt("MAIL_PORT", 587),
		os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"), os.Getenv("MAIL_FROM"),
	)

	// 3. Shared per-lead lock, owner fallback chain
	locks := usecase.NewKeyedMutex()
	owners := usecase.NewOwnerResolverChain(
		&usecase.RepoOwnerResolver{Repo: ownerRepo},
		&usecase.FileOwnerResolver{Path: os.Getenv("OWNER_CONFIG_PATH")},
		&usecase.StaticOwnerResolver{Owner: entity.Owner{
			Name:  envOr("DEFAULT_OWNER_NAME", "Default Owner"),
			Email: envOr("DEFAULT_OWNER_EMAIL", "default-owner@yourcompany.com"),
		}},
	)

	// 4. UseCases
	sessions := usecase.NewSessionManager(leadRepo, knowledgeStore, languageModel, transcripts, producer, locks)
	proposeUC := usecase.NewProposeMeetingUseCase(leadRepo, knowledgeStore, languageModel, calendarGateway, owners, locks)
	dispatchUC := usecase.NewDispatchMeetingUseCase(leadRepo, mailSender, locks)
	classifyUC := usecase.NewClassifyInterestUseCase(leadRepo, languageModel, proposeUC, sessions, locks)
	inviteUC := usecase.NewInviteLeadsUseCase(
		leadRepo, knowledgeStore, languageModel, mailSender,
		envOr("CHAT_BASE_URL", "http://localhost:5173/chat?user="),
	)

	// 5. Worker (consumes terminated transcripts, classifies, auto-drafts)
	worker := queue.NewWorker(rabbitMQ.Ch, classifyUC)
	go worker.Start(queue.QueueName)

	// 6. Handlers
	chatHandler := handlers.NewChatHandler(sessions, transcripts)
	meetingHandler := handlers.NewMeetingHandler(proposeUC, dispatchUC)
	leadHandler := handlers.NewLeadHandler(leadRepo, inviteUC)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)

	// 7. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	r.Post("/chat/{leadId}", chatHandler.HandleTurn)
	r.Get("/admin/chats/{leadId}", chatHandler.HandleTranscript)

	r.Post("/meeting/propose", meetingHandler.HandlePropose)
	r.Post("/meeting/review", meetingHandler.HandleReview)
	r.Post("/meeting/send", meetingHandler.HandleSend)

	r.Post("/leads", leadHandler.HandleCapture)
	r.Get("/leads", leadHandler.HandleList)
	r.Post("/leads/invite", leadHandler.HandleInvite)

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := ":" + envOr("PORT", "8080")
	log.Printf("BizCon engagement API listening on %s", port)
	http.ListenAndServe(port, r)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
