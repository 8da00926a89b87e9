package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Pacotes de infraestrutura e utilitários
	"sweetshop/config"
	"sweetshop/internal/pkg/cache"
	"sweetshop/internal/pkg/database"
	"sweetshop/internal/pkg/logger"
	"sweetshop/internal/pkg/token"

	// Camadas da aplicação para Injeção de Dependências
	"sweetshop/internal/api/router"
	"sweetshop/internal/api/sweet"
	"sweetshop/internal/api/user"
	"sweetshop/internal/repository/sweetrepo"
	"sweetshop/internal/repository/userrepo"
	"sweetshop/internal/service/sweetservice"
	"sweetshop/internal/service/userservice"
)

// @title SweetShop API
// @version 1.0
// @description Backend de catálogo e estoque da loja de doces, com autenticação JWT e RBAC.
// @BasePath /api
func main() {
	// 1. Configuração e Inicialização
	stdlog.Println("⚡ Inicializando serviço SweetShop...")

	// O godotenv.Load() procura por um arquivo .env na raiz. Se não existir,
	// seguimos apenas com as variáveis do ambiente do sistema (ex: Docker).
	if err := godotenv.Load(); err != nil {
		stdlog.Println("⚠️ Aviso: Arquivo .env não encontrado. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Configurações carregadas.", nil)

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	log.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache (Redis)
	cacheClient := cache.NewRedisClient(cfg.RedisAddr)
	log.Info("Cliente Redis inicializado.", nil)

	// 3. Injeção de Dependências (Repository -> Service -> Handler)

	// A. Serviço de Tokens (JWT) — chave lida uma única vez aqui
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)
	log.Debug("Serviço de Tokens JWT inicializado.", nil)

	// B. Usuários (autenticação)
	userRepo := userrepo.NewUserRepository(db, cfg.DBTimeout, log)
	userSvc := userservice.NewService(userRepo, tokenSvc, log)
	userHandler := user.NewHandler(userSvc, log, cfg.TokenExpiry)
	log.Debug("Camadas de Usuário inicializadas.", nil)

	// C. Doces (catálogo e estoque)
	sweetRepo := sweetrepo.NewSweetRepository(db, cacheClient, cfg.DBTimeout, log)
	sweetSvc := sweetservice.NewService(sweetRepo, log)
	sweetHandler := sweet.NewHandler(sweetSvc, log)
	log.Debug("Camadas de Doce inicializadas.", nil)

	// 4. Configuração e Início do Roteador/Servidor
	r := router.NewRouter(sweetHandler, userHandler, tokenSvc, cacheClient,
		cfg.RateLimitMaxRequests, cfg.RateLimitPeriod)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		log.Info("Servidor SweetShop ouvindo.", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}
