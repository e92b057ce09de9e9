package usecase

import (
	"ev-rental/internal/data/repository"
	"ev-rental/internal/gateway"
	"ev-rental/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth         AuthService
	User         UserService
	Station      StationService
	Vehicle      VehicleService
	Booking      BookingService
	Payment      PaymentService
	Document     DocumentService
	Contract     ContractService
	Inspection   InspectionService
	Notification NotificationService
	Promotion    PromotionService
}

func NewService(repo *repository.Repository, gw gateway.PaymentGateway, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Auth:         NewAuthService(repo, config, log),
		User:         NewUserService(repo, log),
		Station:      NewStationService(repo, log),
		Vehicle:      NewVehicleService(repo, log),
		Booking:      NewBookingService(repo, log),
		Payment:      NewPaymentService(repo, gw, log),
		Document:     NewDocumentService(repo, log),
		Contract:     NewContractService(repo, log),
		Inspection:   NewInspectionService(repo, log),
		Notification: NewNotificationService(repo, log),
		Promotion:    NewPromotionService(repo, log),
	}
}
