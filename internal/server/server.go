package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "portfolio-chat/docs"
	"portfolio-chat/internal/ai"
	"portfolio-chat/internal/config"
	"portfolio-chat/internal/handler"
	"portfolio-chat/internal/persona"
	"portfolio-chat/internal/pkg/storagefactory"
	"portfolio-chat/internal/server/middleware"
	"portfolio-chat/internal/service"
)

const (
	shutdownTimeout = 10 * time.Second

	// multipartOverhead multipart 边界与表单头的额外空间
	multipartOverhead = 64 << 10
)

// Services 路由依赖的业务服务
type Services struct {
	Chat    handler.ChatStarter
	Speech  handler.SpeechProcessor
	Persona *persona.Persona
}

// Server HTTP 服务器
type Server struct {
	cfg      *config.Config
	engine   *gin.Engine
	frontend *frontend
}

// New 创建服务器实例
// 初始化顺序: 人设 -> AI 客户端 -> 临时存储 -> 业务服务 -> 路由
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	p, err := persona.Load(cfg.Persona.PromptFile)
	if err != nil {
		return nil, err
	}

	aiClient, err := ai.NewClient(ctx, cfg, p.SystemPrompt())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AI client: %w", err)
	}

	store, err := storagefactory.NewStorage(&cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info().Str("type", store.GetStorageType()).Msg("transient storage ready")

	return NewWithServices(cfg, Services{
		Chat:    service.NewChatService(aiClient),
		Speech:  service.NewSpeechService(aiClient, aiClient, store),
		Persona: p,
	}), nil
}

// NewWithServices 使用给定的服务创建服务器实例
func NewWithServices(cfg *config.Config, services Services) *Server {
	// 设置 Gin 模式
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	if services.Persona == nil {
		services.Persona = persona.Default()
	}

	srv := &Server{
		cfg:      cfg,
		engine:   gin.New(),
		frontend: newFrontend(cfg.Server.FrontendDir),
	}

	if !srv.frontend.available() {
		log.Warn().Str("frontend_dir", cfg.Server.FrontendDir).Msg("frontend bundle not found, only API routes will be served")
	}

	srv.setupRoutes(services)

	return srv
}

// setupRoutes 设置路由
func (s *Server) setupRoutes(services Services) {
	// 全局中间件
	s.engine.Use(middleware.Recovery())
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Logger())
	s.engine.Use(middleware.CORS())

	// 健康检查
	healthHandler := handler.NewHealthHandler()
	profileHandler := handler.NewProfileHandler(services.Persona)

	api := s.engine.Group("/api")
	{
		api.GET("/health", healthHandler.Health)
		api.GET("/ready", healthHandler.Ready)
		api.GET("/user_info", profileHandler.Profile)
	}

	// Swagger 文档
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 对话与语音接口，路径与前端保持一致
	chatHandler := handler.NewChatHandler(services.Chat)
	speechHandler := handler.NewSpeechHandler(services.Speech, s.cfg.Server.MaxUploadSize)

	s.engine.POST("/chat", chatHandler.Chat)
	s.engine.POST("/transcribe",
		middleware.BodyLimit(s.cfg.Server.MaxUploadSize+multipartOverhead, "Audio file too large"),
		speechHandler.Transcribe,
	)
	s.engine.POST("/tts", speechHandler.TTS)

	// 前端单页应用
	s.frontend.register(s.engine)
}

// Run 监听 addr 并启动服务器
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve 在给定 listener 上提供服务，ctx 结束后优雅关闭
// 所有请求的 context 派生自 ctx：关闭时进行中的对话流以 error 事件结束，Shutdown 无需等待超时
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	// 启动服务器
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 等待关闭信号或错误
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// Engine 获取 Gin 引擎 (用于测试)
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
