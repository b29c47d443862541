package server

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"slidesync/internal/broadcast"
	"slidesync/internal/config"
	"slidesync/internal/handler"
	"slidesync/internal/repository"
	"slidesync/internal/service"
	"slidesync/internal/session"
)

// Server Fiber 서버 래퍼
type Server struct {
	app                 *fiber.App
	cfg                 *config.Config
	hub                 *broadcast.Hub
	relay               *broadcast.RedisRelay
	presentationHandler *handler.PresentationHandler
	presentationWS      *handler.PresentationWSHandler
	healthHandler       *handler.HealthHandler
}

// New 새 서버 인스턴스 생성
func New(cfg *config.Config, repo repository.PresentationRepository) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "SlideSync",
		ServerHeader:          "Fiber",
		StrictRouting:         false,
		CaseSensitive:         true,
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		IdleTimeout:           cfg.Server.IdleTimeout,
		Prefork:               false, // WebSocket과 호환성 문제로 비활성화
		BodyLimit:             4 * 1024 * 1024,
		DisableStartupMessage: false,
	})

	hub := broadcast.NewHub()

	// Redis 릴레이 초기화 (선택적)
	var broadcaster broadcast.Broadcaster = hub
	var relay *broadcast.RedisRelay
	var relayPinger handler.Pinger
	if cfg.Redis.Enabled {
		var err error
		relay, err = broadcast.NewRedisRelay(&cfg.Redis, hub)
		if err != nil {
			log.Printf("⚠️ Redis relay initialization failed: %v (broadcast stays local)", err)
		} else {
			relay.Start()
			broadcaster = relay
			relayPinger = handler.PingerFunc(relay.Health)
			log.Printf("✅ Redis relay enabled (channel: %s)", cfg.Redis.Channel)
		}
	} else {
		log.Println("ℹ️ Redis relay not configured (broadcast stays local)")
	}

	presentationService := service.NewPresentationService(repo, broadcaster)
	registry := session.NewRegistry(presentationService, broadcaster)

	return &Server{
		app:                 app,
		cfg:                 cfg,
		hub:                 hub,
		relay:               relay,
		presentationHandler: handler.NewPresentationHandler(presentationService),
		presentationWS:      handler.NewPresentationWSHandler(hub, broadcaster, registry, cfg.WebSocket.WriteTimeout),
		healthHandler:       handler.NewHealthHandler(repo, relayPinger),
	}
}

// App 내부 Fiber 앱 (테스트용)
func (s *Server) App() *fiber.App {
	return s.app
}

// SetupMiddleware 미들웨어 설정
func (s *Server) SetupMiddleware() {
	// 패닉 복구
	s.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	// 로깅
	s.app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${ip} | ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	// CORS
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: s.cfg.CORS.AllowOrigins,
		AllowHeaders: s.cfg.CORS.AllowHeaders,
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
}

// SetupRoutes 라우트 설정
func (s *Server) SetupRoutes() {
	// 헬스체크 엔드포인트
	s.app.Get("/health", s.healthHandler.Check)
	s.app.Get("/health/live", s.healthHandler.Liveness)
	s.app.Get("/health/ready", s.healthHandler.Readiness)

	// 생성 요청 제한 (IP 기반)
	createLimiter := limiter.New(limiter.Config{
		Max:        s.cfg.RateLimit.CreateMax,
		Expiration: s.cfg.RateLimit.CreateExpiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).SendString("too many requests, please try again later")
		},
	})

	// Presentation 라우트 그룹
	presentations := s.app.Group("/presentations")
	presentations.Get("/", s.presentationHandler.GetPresentations)
	presentations.Post("/", createLimiter, s.presentationHandler.CreatePresentation)
	presentations.Get("/:presentationId", s.presentationHandler.GetPresentation)
	presentations.Delete("/:presentationId", s.presentationHandler.DeletePresentation)

	// Slide 라우트
	presentations.Post("/:presentationId/slides", s.presentationHandler.AddSlide)
	presentations.Put("/:presentationId/slides/:slideId", s.presentationHandler.UpdateSlide)
	presentations.Delete("/:presentationId/slides/:slideId", s.presentationHandler.DeleteSlide)

	// Field 라우트
	presentations.Post("/:presentationId/slides/:slideId/fields", s.presentationHandler.AddField)
	presentations.Put("/:presentationId/slides/:slideId/fields/:fieldId", s.presentationHandler.UpdateField)
	presentations.Delete("/:presentationId/slides/:slideId/fields/:fieldId", s.presentationHandler.DeleteField)

	// WebSocket 업그레이드 체크 미들웨어
	s.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket 실시간 편집 엔드포인트
	s.app.Get("/ws", websocket.New(s.presentationWS.HandleWebSocket, websocket.Config{
		ReadBufferSize:  s.cfg.WebSocket.ReadBufferSize,
		WriteBufferSize: s.cfg.WebSocket.WriteBufferSize,
	}))
}

// Start 서버 시작 (Graceful Shutdown 지원)
func (s *Server) Start() error {
	// Graceful Shutdown 설정
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("🛑 Shutting down server...")
		if err := s.Shutdown(); err != nil {
			log.Fatalf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("🚀 SlideSync starting on %s", s.cfg.Server.Port)
	log.Printf("📡 WebSocket endpoint: ws://localhost%s/ws", s.cfg.Server.Port)

	return s.app.Listen(s.cfg.Server.Port)
}

// Shutdown 서버 종료
func (s *Server) Shutdown() error {
	if s.relay != nil {
		if err := s.relay.Close(); err != nil {
			log.Printf("⚠️ Redis relay close error: %v", err)
		}
	}
	return s.app.ShutdownWithTimeout(30 * time.Second)
}
