package wire

import (
	"ev-rental/internal/adaptor"
	"ev-rental/internal/data/entity"
	"ev-rental/internal/data/repository"
	"ev-rental/internal/gateway"
	"ev-rental/internal/usecase"
	"ev-rental/pkg/middleware"
	"ev-rental/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

var (
	roleRenter = string(entity.RoleRenter)
	roleStaff  = string(entity.RoleStaff)
	roleAdmin  = string(entity.RoleAdmin)
)

// App menyimpan semua dependencies
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring menginisialisasi semua dependencies
func Wiring(repo *repository.Repository, db adaptor.Pinger, gw gateway.PaymentGateway, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, gw, config, logger)
	handler := adaptor.NewHandler(service, db, logger)

	return &App{
		Router:  setupRouter(handler, service.Auth, logger),
		Service: service,
	}
}

func setupRouter(handler *adaptor.Handler, auth middleware.Authenticator, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))

	r.Get("/health", handler.Health.Check)

	r.Route("/api", func(r chi.Router) {
		wireAuth(r, handler.Auth, auth, logger)
		wireUser(r, handler.User, auth, logger)
		wireInventory(r, handler.Station, handler.Vehicle, auth, logger)
		wireBooking(r, handler.Booking, auth, logger)
		wirePayment(r, handler.Payment, auth, logger)
		wireRegistry(r, handler, auth, logger)
	})

	return r
}
