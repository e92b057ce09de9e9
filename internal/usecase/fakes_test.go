package usecase

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"ev-rental/internal/data/entity"
	"ev-rental/internal/data/repository"
	"ev-rental/pkg/apperror"
	"ev-rental/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// memStore backs every fake repository. Rows are stored by value so a
// snapshot is a shallow copy of each map.
type memStore struct {
	mu sync.Mutex

	users         map[uuid.UUID]entity.User
	sessions      map[uuid.UUID]entity.Session
	stations      map[uuid.UUID]entity.Station
	vehicles      map[uuid.UUID]entity.Vehicle
	bookings      map[uuid.UUID]entity.Booking
	payments      map[uuid.UUID]entity.Payment
	promotions    map[uuid.UUID]entity.Promotion
	documents     map[uuid.UUID]entity.Document
	contracts     map[uuid.UUID]entity.Contract
	inspections   map[uuid.UUID]entity.Inspection
	notifications map[uuid.UUID]entity.Notification

	// failures maps "Repo.Method" to an error returned instead of running it.
	failures map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		users:         map[uuid.UUID]entity.User{},
		sessions:      map[uuid.UUID]entity.Session{},
		stations:      map[uuid.UUID]entity.Station{},
		vehicles:      map[uuid.UUID]entity.Vehicle{},
		bookings:      map[uuid.UUID]entity.Booking{},
		payments:      map[uuid.UUID]entity.Payment{},
		promotions:    map[uuid.UUID]entity.Promotion{},
		documents:     map[uuid.UUID]entity.Document{},
		contracts:     map[uuid.UUID]entity.Contract{},
		inspections:   map[uuid.UUID]entity.Inspection{},
		notifications: map[uuid.UUID]entity.Notification{},
		failures:      map[string]error{},
	}
}

func (s *memStore) snapshot() *memStore {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &memStore{
		users:         maps.Clone(s.users),
		sessions:      maps.Clone(s.sessions),
		stations:      maps.Clone(s.stations),
		vehicles:      maps.Clone(s.vehicles),
		bookings:      maps.Clone(s.bookings),
		payments:      maps.Clone(s.payments),
		promotions:    maps.Clone(s.promotions),
		documents:     maps.Clone(s.documents),
		contracts:     maps.Clone(s.contracts),
		inspections:   maps.Clone(s.inspections),
		notifications: maps.Clone(s.notifications),
	}
}

func (s *memStore) restore(snap *memStore) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = snap.users
	s.sessions = snap.sessions
	s.stations = snap.stations
	s.vehicles = snap.vehicles
	s.bookings = snap.bookings
	s.payments = snap.payments
	s.promotions = snap.promotions
	s.documents = snap.documents
	s.contracts = snap.contracts
	s.inspections = snap.inspections
	s.notifications = snap.notifications
}

func (s *memStore) failOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

// lock takes the store mutex and returns the injected failure for op, if any.
func (s *memStore) lock(op string) error {
	s.mu.Lock()
	return s.failures[op]
}

func uniqueErr(constraint string) error {
	return &pgconn.PgError{Code: database.UniqueViolation, ConstraintName: constraint}
}

func notFoundErr(kind string, id uuid.UUID) error {
	return fmt.Errorf("%s %s not found", kind, id)
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}

// newMemRepository returns a Repository whose Tx serialises units of work and
// rolls the store back when fn fails.
func newMemRepository() (*repository.Repository, *memStore) {
	store := newMemStore()

	build := func() *repository.Repository {
		return &repository.Repository{
			User:         &memUserRepo{store},
			Session:      &memSessionRepo{store},
			Station:      &memStationRepo{store},
			Vehicle:      &memVehicleRepo{store},
			Booking:      &memBookingRepo{store},
			Payment:      &memPaymentRepo{store},
			Promotion:    &memPromotionRepo{store},
			Document:     &memDocumentRepo{store},
			Contract:     &memContractRepo{store},
			Inspection:   &memInspectionRepo{store},
			Notification: &memNotificationRepo{store},
		}
	}

	base := build()
	txRepo := build()
	txRepo.Tx = joinedMemTx{repo: txRepo}
	base.Tx = &memTransactor{store: store, repo: txRepo}

	return base, store
}

type memTransactor struct {
	mu    sync.Mutex
	store *memStore
	repo  *repository.Repository
}

func (t *memTransactor) WithinTx(_ context.Context, fn func(tx *repository.Repository) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := t.store.snapshot()
	if err := fn(t.repo); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

type joinedMemTx struct {
	repo *repository.Repository
}

func (j joinedMemTx) WithinTx(_ context.Context, fn func(tx *repository.Repository) error) error {
	return fn(j.repo)
}

// ==================== USERS ====================

type memUserRepo struct{ s *memStore }

func (r *memUserRepo) Create(_ context.Context, user *entity.User) error {
	if err := r.s.lock("User.Create"); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.DeletedAt == nil && strings.EqualFold(u.Email, user.Email) {
			return uniqueErr("users_email_key")
		}
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok || u.DeletedAt != nil {
		return nil, nil
	}
	return &u, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.DeletedAt == nil && strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) matching(filter repository.UserFilter) []*entity.User {
	var out []*entity.User
	for _, u := range r.s.users {
		if u.DeletedAt != nil || (filter.Role != nil && u.Role != *filter.Role) {
			continue
		}
		out = append(out, &u)
	}
	slices.SortFunc(out, func(a, b *entity.User) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out
}

func (r *memUserRepo) FindAll(_ context.Context, filter repository.UserFilter, limit, offset int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.matching(filter), limit, offset), nil
}

func (r *memUserRepo) Count(_ context.Context, filter repository.UserFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.matching(filter))), nil
}

func (r *memUserRepo) Update(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if u, ok := r.s.users[user.ID]; !ok || u.DeletedAt != nil {
		return notFoundErr("user", user.ID)
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok || u.DeletedAt != nil {
		return notFoundErr("user", id)
	}
	now := time.Now()
	u.DeletedAt = &now
	u.IsActive = false
	r.s.users[id] = u
	return nil
}

// ==================== SESSIONS ====================

type memSessionRepo struct{ s *memStore }

func (r *memSessionRepo) Create(_ context.Context, session *entity.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sessions[session.ID] = *session
	return nil
}

func (r *memSessionRepo) FindValidSession(_ context.Context, id uuid.UUID) (*entity.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sess, ok := r.s.sessions[id]
	if !ok || !sess.IsValid(time.Now()) {
		return nil, nil
	}
	return &sess, nil
}

func (r *memSessionRepo) Revoke(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sess, ok := r.s.sessions[id]
	if !ok || sess.RevokedAt != nil {
		return fmt.Errorf("session not found or already revoked")
	}
	now := time.Now()
	sess.RevokedAt = &now
	r.s.sessions[id] = sess
	return nil
}

func (r *memSessionRepo) RevokeAllUserSessions(_ context.Context, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now()
	for id, sess := range r.s.sessions {
		if sess.UserID == userID && sess.RevokedAt == nil {
			sess.RevokedAt = &now
			r.s.sessions[id] = sess
		}
	}
	return nil
}

func (r *memSessionRepo) CleanExpiredSessions(_ context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now()
	for id, sess := range r.s.sessions {
		if !sess.IsValid(now) {
			delete(r.s.sessions, id)
		}
	}
	return nil
}

// ==================== STATIONS ====================

type memStationRepo struct{ s *memStore }

func (r *memStationRepo) Create(_ context.Context, station *entity.Station) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.stations[station.ID] = *station
	return nil
}

func (r *memStationRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Station, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	st, ok := r.s.stations[id]
	if !ok || st.DeletedAt != nil {
		return nil, nil
	}
	return &st, nil
}

func (r *memStationRepo) matching(filter repository.StationFilter) []*entity.Station {
	var out []*entity.Station
	for _, st := range r.s.stations {
		if st.DeletedAt != nil || (filter.Status != nil && st.Status != *filter.Status) {
			continue
		}
		out = append(out, &st)
	}
	slices.SortFunc(out, func(a, b *entity.Station) int { return strings.Compare(a.Name, b.Name) })
	return out
}

func (r *memStationRepo) FindAll(_ context.Context, filter repository.StationFilter, limit, offset int) ([]*entity.Station, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.matching(filter), limit, offset), nil
}

func (r *memStationRepo) Count(_ context.Context, filter repository.StationFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.matching(filter))), nil
}

func (r *memStationRepo) Update(_ context.Context, station *entity.Station) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if st, ok := r.s.stations[station.ID]; !ok || st.DeletedAt != nil {
		return notFoundErr("station", station.ID)
	}
	r.s.stations[station.ID] = *station
	return nil
}

func (r *memStationRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	st, ok := r.s.stations[id]
	if !ok || st.DeletedAt != nil {
		return notFoundErr("station", id)
	}
	now := time.Now()
	st.DeletedAt = &now
	r.s.stations[id] = st
	return nil
}

func (r *memStationRepo) HasVehicles(_ context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, v := range r.s.vehicles {
		if v.StationID == id && v.DeletedAt == nil {
			return true, nil
		}
	}
	return false, nil
}

// ==================== VEHICLES ====================

type memVehicleRepo struct{ s *memStore }

func (r *memVehicleRepo) Create(_ context.Context, vehicle *entity.Vehicle) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, v := range r.s.vehicles {
		if v.DeletedAt == nil && strings.EqualFold(v.LicensePlate, vehicle.LicensePlate) {
			return uniqueErr("vehicles_plate_key")
		}
	}
	r.s.vehicles[vehicle.ID] = *vehicle
	return nil
}

func (r *memVehicleRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	v, ok := r.s.vehicles[id]
	if !ok || v.DeletedAt != nil {
		return nil, nil
	}
	return &v, nil
}

func (r *memVehicleRepo) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*entity.Vehicle, error) {
	if err := r.s.lock("Vehicle.FindByIDForUpdate"); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()

	v, ok := r.s.vehicles[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (r *memVehicleRepo) matching(filter repository.VehicleFilter) []*entity.Vehicle {
	var out []*entity.Vehicle
	for _, v := range r.s.vehicles {
		if v.DeletedAt != nil ||
			(filter.StationID != nil && v.StationID != *filter.StationID) ||
			(filter.Status != nil && v.Status != *filter.Status) {
			continue
		}
		out = append(out, &v)
	}
	slices.SortFunc(out, func(a, b *entity.Vehicle) int { return strings.Compare(a.LicensePlate, b.LicensePlate) })
	return out
}

func (r *memVehicleRepo) FindAll(_ context.Context, filter repository.VehicleFilter, limit, offset int) ([]*entity.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.matching(filter), limit, offset), nil
}

func (r *memVehicleRepo) Count(_ context.Context, filter repository.VehicleFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.matching(filter))), nil
}

func (r *memVehicleRepo) Update(_ context.Context, vehicle *entity.Vehicle) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.vehicles[vehicle.ID]
	if !ok || existing.DeletedAt != nil {
		return notFoundErr("vehicle", vehicle.ID)
	}
	for id, v := range r.s.vehicles {
		if id != vehicle.ID && v.DeletedAt == nil && strings.EqualFold(v.LicensePlate, vehicle.LicensePlate) {
			return uniqueErr("vehicles_plate_key")
		}
	}
	r.s.vehicles[vehicle.ID] = *vehicle
	return nil
}

func (r *memVehicleRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entity.VehicleStatus, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	v, ok := r.s.vehicles[id]
	if !ok || v.DeletedAt != nil {
		return notFoundErr("vehicle", id)
	}
	v.Status = status
	v.UpdatedAt = at
	r.s.vehicles[id] = v
	return nil
}

func (r *memVehicleRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	v, ok := r.s.vehicles[id]
	if !ok || v.DeletedAt != nil {
		return notFoundErr("vehicle", id)
	}
	now := time.Now()
	v.DeletedAt = &now
	r.s.vehicles[id] = v
	return nil
}

// ==================== BOOKINGS ====================

type memBookingRepo struct{ s *memStore }

// Create enforces the same no-overlap rule as the exclusion constraint.
func (r *memBookingRepo) Create(_ context.Context, booking *entity.Booking) error {
	if err := r.s.lock("Booking.Create"); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()

	if booking.Status.IsOccupying() {
		for _, b := range r.s.bookings {
			if b.VehicleID == booking.VehicleID && b.Status.IsOccupying() && b.Overlaps(booking.StartTime, booking.EndTime) {
				return apperror.ErrSlotConflict
			}
		}
	}
	r.s.bookings[booking.ID] = *booking
	return nil
}

func (r *memBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *memBookingRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return r.FindByID(ctx, id)
}

func (r *memBookingRepo) matching(filter repository.BookingFilter) []*entity.Booking {
	var out []*entity.Booking
	for _, b := range r.s.bookings {
		if (filter.UserID != nil && b.UserID != *filter.UserID) ||
			(filter.VehicleID != nil && b.VehicleID != *filter.VehicleID) ||
			(filter.StationID != nil && b.StationID != *filter.StationID) ||
			(filter.Status != nil && b.Status != *filter.Status) {
			continue
		}
		out = append(out, &b)
	}
	slices.SortFunc(out, func(a, b *entity.Booking) int { return b.StartTime.Compare(a.StartTime) })
	return out
}

func (r *memBookingRepo) FindAll(_ context.Context, filter repository.BookingFilter, limit, offset int) ([]*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.matching(filter), limit, offset), nil
}

func (r *memBookingRepo) Count(_ context.Context, filter repository.BookingFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.matching(filter))), nil
}

func (r *memBookingRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entity.BookingStatus, at time.Time) error {
	if err := r.s.lock("Booking.UpdateStatus"); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()

	b, ok := r.s.bookings[id]
	if !ok {
		return notFoundErr("booking", id)
	}
	b.Status = status
	b.UpdatedAt = at
	r.s.bookings[id] = b
	return nil
}

func (r *memBookingRepo) FindOverlapping(_ context.Context, vehicleID uuid.UUID, start, end time.Time) (*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, b := range r.s.bookings {
		if b.VehicleID == vehicleID && b.Status.IsOccupying() && b.Overlaps(start, end) {
			return &b, nil
		}
	}
	return nil, nil
}

func (r *memBookingRepo) HasOccupying(_ context.Context, vehicleID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, b := range r.s.bookings {
		if b.VehicleID == vehicleID && b.Status.IsOccupying() {
			return true, nil
		}
	}
	return false, nil
}

// ==================== PAYMENTS ====================

type memPaymentRepo struct{ s *memStore }

func (r *memPaymentRepo) Create(_ context.Context, payment *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.payments[payment.ID] = *payment
	return nil
}

func (r *memPaymentRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.payments[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *memPaymentRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	return r.FindByID(ctx, id)
}

func (r *memPaymentRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID) ([]*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []*entity.Payment{}
	for _, p := range r.s.payments {
		if p.BookingID == bookingID {
			out = append(out, &p)
		}
	}
	slices.SortFunc(out, func(a, b *entity.Payment) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

func (r *memPaymentRepo) FindActiveByBookingID(_ context.Context, bookingID uuid.UUID) (*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.payments {
		if p.BookingID == bookingID && (p.Status == entity.PaymentStatusPending || p.Status == entity.PaymentStatusPaid) {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *memPaymentRepo) Update(_ context.Context, payment *entity.Payment) error {
	if err := r.s.lock("Payment.Update"); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()

	if _, ok := r.s.payments[payment.ID]; !ok {
		return notFoundErr("payment", payment.ID)
	}
	r.s.payments[payment.ID] = *payment
	return nil
}

// ==================== PROMOTIONS ====================

type memPromotionRepo struct{ s *memStore }

func (r *memPromotionRepo) Create(_ context.Context, promotion *entity.Promotion) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.promotions {
		if p.DeletedAt == nil && p.Code == promotion.Code {
			return uniqueErr("promotions_code_key")
		}
	}
	r.s.promotions[promotion.ID] = *promotion
	return nil
}

func (r *memPromotionRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Promotion, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.promotions[id]
	if !ok || p.DeletedAt != nil {
		return nil, nil
	}
	return &p, nil
}

func (r *memPromotionRepo) FindByCode(_ context.Context, code string) (*entity.Promotion, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.promotions {
		if p.DeletedAt == nil && p.Code == code {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *memPromotionRepo) FindActive(_ context.Context, now time.Time) ([]*entity.Promotion, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []*entity.Promotion{}
	for _, p := range r.s.promotions {
		if p.IsRedeemable(now) {
			out = append(out, &p)
		}
	}
	slices.SortFunc(out, func(a, b *entity.Promotion) int { return a.EndsAt.Compare(b.EndsAt) })
	return out, nil
}

func (r *memPromotionRepo) Update(_ context.Context, promotion *entity.Promotion) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if p, ok := r.s.promotions[promotion.ID]; !ok || p.DeletedAt != nil {
		return notFoundErr("promotion", promotion.ID)
	}
	r.s.promotions[promotion.ID] = *promotion
	return nil
}

func (r *memPromotionRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.promotions[id]
	if !ok || p.DeletedAt != nil {
		return notFoundErr("promotion", id)
	}
	now := time.Now()
	p.DeletedAt = &now
	r.s.promotions[id] = p
	return nil
}

// ==================== DOCUMENTS ====================

type memDocumentRepo struct{ s *memStore }

func (r *memDocumentRepo) Create(_ context.Context, document *entity.Document) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.documents[document.ID] = *document
	return nil
}

func (r *memDocumentRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.documents[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *memDocumentRepo) matching(filter repository.DocumentFilter) []*entity.Document {
	var out []*entity.Document
	for _, d := range r.s.documents {
		if (filter.UserID != nil && d.UserID != *filter.UserID) ||
			(filter.Status != nil && d.Status != *filter.Status) {
			continue
		}
		out = append(out, &d)
	}
	slices.SortFunc(out, func(a, b *entity.Document) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out
}

func (r *memDocumentRepo) FindAll(_ context.Context, filter repository.DocumentFilter, limit, offset int) ([]*entity.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.matching(filter), limit, offset), nil
}

func (r *memDocumentRepo) Count(_ context.Context, filter repository.DocumentFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.matching(filter))), nil
}

func (r *memDocumentRepo) HasActiveOfType(_ context.Context, userID uuid.UUID, docType entity.DocumentType) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, d := range r.s.documents {
		if d.UserID == userID && d.Type == docType && d.Status != entity.DocumentStatusRejected {
			return true, nil
		}
	}
	return false, nil
}

func (r *memDocumentRepo) UpdateReview(_ context.Context, document *entity.Document) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.documents[document.ID]; !ok {
		return notFoundErr("document", document.ID)
	}
	r.s.documents[document.ID] = *document
	return nil
}

func (r *memDocumentRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.documents[id]; !ok {
		return notFoundErr("document", id)
	}
	delete(r.s.documents, id)
	return nil
}

// ==================== CONTRACTS ====================

type memContractRepo struct{ s *memStore }

func (r *memContractRepo) Create(_ context.Context, contract *entity.Contract) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.contracts {
		if c.BookingID == contract.BookingID {
			return uniqueErr("contracts_booking_id_key")
		}
	}
	r.s.contracts[contract.ID] = *contract
	return nil
}

func (r *memContractRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Contract, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.contracts[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *memContractRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID) (*entity.Contract, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.contracts {
		if c.BookingID == bookingID {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memContractRepo) UpdateStatus(_ context.Context, contract *entity.Contract) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.contracts[contract.ID]; !ok {
		return notFoundErr("contract", contract.ID)
	}
	r.s.contracts[contract.ID] = *contract
	return nil
}

// ==================== INSPECTIONS ====================

type memInspectionRepo struct{ s *memStore }

func (r *memInspectionRepo) Create(_ context.Context, inspection *entity.Inspection) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.inspections[inspection.ID] = *inspection
	return nil
}

func (r *memInspectionRepo) FindByVehicleID(_ context.Context, vehicleID uuid.UUID) ([]*entity.Inspection, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []*entity.Inspection{}
	for _, i := range r.s.inspections {
		if i.VehicleID == vehicleID {
			out = append(out, &i)
		}
	}
	slices.SortFunc(out, func(a, b *entity.Inspection) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

// ==================== NOTIFICATIONS ====================

type memNotificationRepo struct{ s *memStore }

func (r *memNotificationRepo) Create(_ context.Context, notification *entity.Notification) error {
	if err := r.s.lock("Notification.Create"); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()

	r.s.notifications[notification.ID] = *notification
	return nil
}

func (r *memNotificationRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n, ok := r.s.notifications[id]
	if !ok {
		return nil, nil
	}
	return &n, nil
}

func (r *memNotificationRepo) matching(userID uuid.UUID, unreadOnly bool) []*entity.Notification {
	var out []*entity.Notification
	for _, n := range r.s.notifications {
		if n.UserID != userID || (unreadOnly && n.IsRead) {
			continue
		}
		out = append(out, &n)
	}
	slices.SortFunc(out, func(a, b *entity.Notification) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out
}

func (r *memNotificationRepo) FindByUserID(_ context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]*entity.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.matching(userID, unreadOnly), limit, offset), nil
}

func (r *memNotificationRepo) CountByUserID(_ context.Context, userID uuid.UUID, unreadOnly bool) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.matching(userID, unreadOnly))), nil
}

func (r *memNotificationRepo) MarkRead(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n, ok := r.s.notifications[id]
	if !ok {
		return notFoundErr("notification", id)
	}
	n.IsRead = true
	r.s.notifications[id] = n
	return nil
}

func (r *memNotificationRepo) MarkAllRead(_ context.Context, userID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var updated int64
	for id, n := range r.s.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			r.s.notifications[id] = n
			updated++
		}
	}
	return updated, nil
}
