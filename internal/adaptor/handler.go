package adaptor

import (
	"ev-rental/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Station      *StationHandler
	Vehicle      *VehicleHandler
	Booking      *BookingHandler
	Payment      *PaymentHandler
	Document     *DocumentHandler
	Contract     *ContractHandler
	Inspection   *InspectionHandler
	Notification *NotificationHandler
	Promotion    *PromotionHandler
	Health       *HealthHandler
}

func NewHandler(service *usecase.Service, db Pinger, log *zap.Logger) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(service.Auth, log),
		User:         NewUserHandler(service.User, log),
		Station:      NewStationHandler(service.Station, log),
		Vehicle:      NewVehicleHandler(service.Vehicle, log),
		Booking:      NewBookingHandler(service.Booking, log),
		Payment:      NewPaymentHandler(service.Payment, log),
		Document:     NewDocumentHandler(service.Document, log),
		Contract:     NewContractHandler(service.Contract, log),
		Inspection:   NewInspectionHandler(service.Inspection, log),
		Notification: NewNotificationHandler(service.Notification, log),
		Promotion:    NewPromotionHandler(service.Promotion, log),
		Health:       NewHealthHandler(db, log),
	}
}
