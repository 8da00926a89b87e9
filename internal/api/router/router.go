package router

import (
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"sweetshop/internal/api/sweet"
	"sweetshop/internal/api/user"
	"sweetshop/internal/domain"
	"sweetshop/internal/pkg/cache"
	"sweetshop/internal/pkg/middleware"

	_ "sweetshop/docs" // Registro da documentação swagger gerada
)

// NewRouter configura e retorna o roteador HTTP principal.
// Recebe os Handlers já inicializados por injeção de dependências e o
// serviço de tokens para montar os middlewares de autenticação/autorização.
func NewRouter(
	sweetHandler *sweet.Handler,
	userHandler *user.Handler,
	tokenSvc middleware.TokenService,
	cacheClient cache.Client,
	rateLimit int,
	ratePeriod time.Duration,
) http.Handler {
	mux := http.NewServeMux()

	authenticated := middleware.NewAuthMiddleware(tokenSvc)
	adminOnly := middleware.PermissionMiddleware(domain.RoleAdmin)

	// --- Health Check ---
	mux.HandleFunc("GET /ping", PingHandler)

	// --- Autenticação ---
	mux.HandleFunc("POST /api/auth/register", userHandler.RegisterUserHandler)
	mux.HandleFunc("POST /api/auth/login", userHandler.LoginUserHandler)
	mux.HandleFunc("POST /api/auth/logout", userHandler.LogoutUserHandler)

	// --- Catálogo (leitura pública) ---
	// O padrão literal /search tem precedência sobre o curinga {id}.
	mux.HandleFunc("GET /api/sweets", sweetHandler.ListSweetsHandler)
	mux.HandleFunc("GET /api/sweets/search", sweetHandler.SearchSweetsHandler)
	mux.HandleFunc("GET /api/sweets/{id}", sweetHandler.GetSweetByIDHandler)

	// --- Catálogo (escrita autenticada) ---
	mux.HandleFunc("POST /api/sweets", authenticated(sweetHandler.CreateSweetHandler))
	mux.HandleFunc("POST /api/sweets/{id}/purchase", authenticated(sweetHandler.PurchaseSweetHandler))

	// --- Catálogo (somente admin) ---
	mux.HandleFunc("PUT /api/sweets/{id}", authenticated(adminOnly(sweetHandler.UpdateSweetHandler)))
	mux.HandleFunc("DELETE /api/sweets/{id}", authenticated(adminOnly(sweetHandler.DeleteSweetHandler)))
	mux.HandleFunc("POST /api/sweets/{id}/restock", authenticated(adminOnly(sweetHandler.RestockSweetHandler)))

	// --- Documentação ---
	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Middleware global de rate limiting (desabilitado quando limit <= 0,
	// útil nos testes que montam o roteador sem Redis).
	if cacheClient != nil && rateLimit > 0 {
		return middleware.RateLimiter(cacheClient, rateLimit, ratePeriod)(mux)
	}

	return mux
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
