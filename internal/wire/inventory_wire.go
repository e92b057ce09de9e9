package wire

import (
	"ev-rental/internal/adaptor"
	"ev-rental/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireInventory(
	r chi.Router,
	stationHandler *adaptor.StationHandler,
	vehicleHandler *adaptor.VehicleHandler,
	auth middleware.Authenticator,
	log *zap.Logger,
) {
	r.Route("/stations", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Get("/", stationHandler.GetStations)
		r.Get("/{id}", stationHandler.GetStation)

		// ==================== ADMIN ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(auth, log))
			r.Use(middleware.RequireRoles(log, roleAdmin))

			r.Post("/", stationHandler.CreateStation)
			r.Put("/{id}", stationHandler.UpdateStation)
			r.Delete("/{id}", stationHandler.DeleteStation)
		})
	})

	r.Route("/vehicles", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Get("/", vehicleHandler.GetVehicles)
		r.Get("/{id}", vehicleHandler.GetVehicle)

		// ==================== STAFF ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(auth, log))
			r.Use(middleware.RequireRoles(log, roleStaff, roleAdmin))

			r.Post("/", vehicleHandler.CreateVehicle)
			r.Put("/{id}", vehicleHandler.UpdateVehicle)
			r.Patch("/{id}/status", vehicleHandler.UpdateVehicleStatus)
		})

		// ==================== ADMIN ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(auth, log))
			r.Use(middleware.RequireRoles(log, roleAdmin))

			r.Delete("/{id}", vehicleHandler.DeleteVehicle)
		})
	})
}
