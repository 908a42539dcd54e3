package httptransport

import (
	"expvar"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"creditjack/internal/app/account"
	"creditjack/internal/app/arcade"
	"creditjack/internal/app/table"
	"creditjack/internal/config"
	"creditjack/internal/store"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

type Services struct {
	Accounts *account.Service
	Arcade   *arcade.Service
	Tables   *table.Coordinator
}

func NewRouter(st store.Store, cfg config.ServerConfig, svc Services) *chi.Mux {
	accountHandlers := NewAccountHandlers(svc.Accounts)
	gameHandlers := NewGameHandlers(svc.Arcade, svc.Tables)
	adminHandlers := NewAdminHandlers(st, svc.Accounts)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(APILogMiddleware()).Get("/healthz", adminHandlers.Health())

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())
		r.Get("/accounts/{account_id}", accountHandlers.Get())
		r.Get("/accounts/{account_id}/ledger", accountHandlers.Ledger())
		r.Post("/accounts/{account_id}/bank", accountHandlers.Bank())
		r.Post("/accounts/{account_id}/daily", accountHandlers.Daily())
		r.Post("/accounts/{account_id}/weekly", accountHandlers.Weekly())
		r.Post("/accounts/{account_id}/search", accountHandlers.Search())
		r.Post("/transfers", accountHandlers.Transfer())
		r.Get("/leaderboard", accountHandlers.Leaderboard())
		r.Get("/interest", accountHandlers.Interest())

		r.Post("/games/coinflip", gameHandlers.CoinFlip())
		r.Post("/games/guess", gameHandlers.Guess())
		r.Post("/games/blackjack", gameHandlers.StartBlackjack())
		r.Get("/games/blackjack/{table_id}", gameHandlers.GetBlackjack())
		r.Post("/games/blackjack/{table_id}/actions", gameHandlers.ActBlackjack())

		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.AdminAPIKey))
			r.Use(BodyCaptureMiddleware(4096))
			r.Post("/interest", adminHandlers.ApplyInterest())
			r.Get("/debug/vars", expvar.Handler().ServeHTTP)
		})
	})
	return r
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 32)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
