package usecase

import (
	"time"

	"ev-rental/internal/data/entity"
	"ev-rental/internal/data/repository"
	"ev-rental/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var testNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

type world struct {
	repo  *repository.Repository
	store *memStore
	log   *zap.Logger
}

func newWorld() *world {
	repo, store := newMemRepository()
	return &world{repo: repo, store: store, log: zap.NewNop()}
}

func (w *world) addStation(status entity.StationStatus) entity.Station {
	st := entity.Station{
		Base:      entity.NewBase(testNow),
		Name:      "Station " + uuid.NewString()[:8],
		Address:   "1 Main St",
		Latitude:  -23.55,
		Longitude: -46.63,
		Capacity:  10,
		Status:    status,
	}
	w.store.stations[st.ID] = st
	return st
}

func (w *world) addVehicle(stationID uuid.UUID, status entity.VehicleStatus) entity.Vehicle {
	v := entity.Vehicle{
		Base:         entity.NewBase(testNow),
		StationID:    stationID,
		LicensePlate: "EV-" + uuid.NewString()[:6],
		Brand:        "Volt",
		Model:        "City",
		Status:       status,
		BatteryLevel: 90,
		PricePerHour: 25,
	}
	w.store.vehicles[v.ID] = v
	return v
}

func (w *world) addUser(role entity.UserRole) entity.User {
	hashed, err := utils.HashPassword("secret-password")
	if err != nil {
		panic(err)
	}
	u := entity.User{
		Base:         entity.NewBase(testNow),
		Email:        uuid.NewString()[:8] + "@example.com",
		PasswordHash: hashed,
		FullName:     "Test " + string(role),
		Role:         role,
		IsActive:     true,
	}
	w.store.users[u.ID] = u
	return u
}

func (w *world) addBooking(userID uuid.UUID, v entity.Vehicle, status entity.BookingStatus, start time.Time, hours int) entity.Booking {
	b := entity.Booking{
		BaseNoDelete:   entity.NewBaseNoDelete(testNow),
		UserID:         userID,
		VehicleID:      v.ID,
		StationID:      v.StationID,
		StartTime:      start,
		EndTime:        start.Add(time.Duration(hours) * time.Hour),
		Status:         status,
		PickupLocation: "Gate A",
		TotalPrice:     float64(hours) * v.PricePerHour,
	}
	w.store.bookings[b.ID] = b
	return b
}

func (w *world) vehicle(id uuid.UUID) entity.Vehicle {
	w.store.mu.Lock()
	defer w.store.mu.Unlock()
	return w.store.vehicles[id]
}

func (w *world) booking(id uuid.UUID) entity.Booking {
	w.store.mu.Lock()
	defer w.store.mu.Unlock()
	return w.store.bookings[id]
}

func (w *world) payment(id uuid.UUID) entity.Payment {
	w.store.mu.Lock()
	defer w.store.mu.Unlock()
	return w.store.payments[id]
}

func (w *world) notificationsFor(userID uuid.UUID) []entity.Notification {
	w.store.mu.Lock()
	defer w.store.mu.Unlock()

	var out []entity.Notification
	for _, n := range w.store.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

func (w *world) bookingService() *bookingService {
	svc := NewBookingService(w.repo, w.log).(*bookingService)
	svc.now = fixedClock
	svc.notify.now = fixedClock
	return svc
}

func identityOf(u entity.User) utils.Identity {
	return utils.Identity{UserID: u.ID, Role: string(u.Role), SessionID: uuid.New()}
}

func ptr[T any](v T) *T { return &v }
