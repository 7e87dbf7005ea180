package tests

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"fleet/internal/domain"
	"fleet/internal/redis"
	"fleet/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK TRIP REPOSITORY
// ──────────────────────────────────────────────

// MockTripRepository is a mock implementation of TripRepository. Its
// Start and Complete mirror the conditional-update semantics of the
// postgres implementation: the status guard and the write happen under
// one lock, so concurrent callers see exactly-once transitions.
type MockTripRepository struct {
	mu       sync.RWMutex
	trips    map[string]*domain.Trip
	invoices []*domain.Invoice

	// Counters for verification
	CreateCallCount   int32
	StartCallCount    int32
	CompleteCallCount int32

	// Error injection
	CreateError   error
	GetByIDError  error
	CompleteError error
}

// NewMockTripRepository creates a new mock trip repository.
func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{
		trips: make(map[string]*domain.Trip),
	}
}

// AddTrip adds a trip to the mock repository.
func (m *MockTripRepository) AddTrip(trip *domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
}

func (m *MockTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
	return nil
}

func (m *MockTripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	if m.GetByIDError != nil {
		return nil, m.GetByIDError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	trip, ok := m.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *trip
	return &copy, nil
}

func (m *MockTripRepository) List(ctx context.Context, filter repository.TripFilter) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Trip, 0, len(m.trips))
	for _, trip := range m.trips {
		if filter.OrganizationID != "" && trip.OrganizationID != filter.OrganizationID {
			continue
		}
		if filter.DriverID != "" && trip.DriverID != filter.DriverID {
			continue
		}
		if filter.Status != "" && trip.Status != filter.Status {
			continue
		}
		copy := *trip
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockTripRepository) Start(ctx context.Context, id string, startTime time.Time) (*domain.Trip, error) {
	atomic.AddInt32(&m.StartCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	trip, ok := m.trips[id]
	if !ok || trip.Status != domain.TripStatusPending {
		return nil, repository.ErrNotFound
	}
	trip.Status = domain.TripStatusInProgress
	trip.StartTime = startTime
	copy := *trip
	return &copy, nil
}

func (m *MockTripRepository) Complete(ctx context.Context, trip *domain.Trip, invoice *domain.Invoice) error {
	atomic.AddInt32(&m.CompleteCallCount, 1)
	if m.CompleteError != nil {
		return m.CompleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.trips[trip.ID]
	if !ok || stored.Status != domain.TripStatusInProgress {
		return repository.ErrNotFound
	}
	updated := *trip
	m.trips[trip.ID] = &updated
	m.invoices = append(m.invoices, invoice)
	return nil
}

func (m *MockTripRepository) SetTotalAmount(ctx context.Context, id string, amount float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	trip, ok := m.trips[id]
	if !ok {
		return repository.ErrNotFound
	}
	trip.TotalAmount = amount
	return nil
}

// GetTrip returns a trip for test assertions.
func (m *MockTripRepository) GetTrip(id string) *domain.Trip {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trips[id]
}

// CountInvoices returns the number of invoices written by Complete.
func (m *MockTripRepository) CountInvoices() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.invoices)
}

// CompletionInvoices returns the invoices written by Complete.
func (m *MockTripRepository) CompletionInvoices() []*domain.Invoice {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Invoice, len(m.invoices))
	copy(result, m.invoices)
	return result
}

// ──────────────────────────────────────────────
// MOCK TRACK POINT REPOSITORY
// ──────────────────────────────────────────────

// MockTrackPointRepository is a mock implementation of TrackPointRepository.
type MockTrackPointRepository struct {
	mu     sync.RWMutex
	points []*domain.TrackPoint

	// Counters for verification
	AppendCallCount int32

	// Error injection
	AppendError     error
	ListByTripError error
}

// NewMockTrackPointRepository creates a new mock track point repository.
func NewMockTrackPointRepository() *MockTrackPointRepository {
	return &MockTrackPointRepository{}
}

// AddPoint adds a track point to the mock repository.
func (m *MockTrackPointRepository) AddPoint(point *domain.TrackPoint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.points = append(m.points, point)
}

func (m *MockTrackPointRepository) Append(ctx context.Context, point *domain.TrackPoint) error {
	atomic.AddInt32(&m.AppendCallCount, 1)
	if m.AppendError != nil {
		return m.AppendError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.points = append(m.points, point)
	return nil
}

func (m *MockTrackPointRepository) ListByTrip(ctx context.Context, tripID string) ([]*domain.TrackPoint, error) {
	if m.ListByTripError != nil {
		return nil, m.ListByTripError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.TrackPoint, 0)
	for _, p := range m.points {
		if p.TripID == tripID {
			copy := *p
			result = append(result, &copy)
		}
	}
	return result, nil
}

// CountPoints returns the number of stored points for test assertions.
func (m *MockTrackPointRepository) CountPoints() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.points)
}

// ──────────────────────────────────────────────
// MOCK INVOICE REPOSITORY
// ──────────────────────────────────────────────

// MockInvoiceRepository is a mock implementation of InvoiceRepository.
type MockInvoiceRepository struct {
	mu       sync.RWMutex
	invoices map[string]*domain.Invoice

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockInvoiceRepository creates a new mock invoice repository.
func NewMockInvoiceRepository() *MockInvoiceRepository {
	return &MockInvoiceRepository{
		invoices: make(map[string]*domain.Invoice),
	}
}

func (m *MockInvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invoices[invoice.ID] = invoice
	return nil
}

func (m *MockInvoiceRepository) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	invoice, ok := m.invoices[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *invoice
	return &copy, nil
}

func (m *MockInvoiceRepository) List(ctx context.Context, tripID string) ([]*domain.Invoice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Invoice, 0, len(m.invoices))
	for _, inv := range m.invoices {
		if tripID != "" && inv.TripID != tripID {
			continue
		}
		copy := *inv
		result = append(result, &copy)
	}
	return result, nil
}

// CountInvoices returns the number of stored invoices.
func (m *MockInvoiceRepository) CountInvoices() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.invoices)
}

// ──────────────────────────────────────────────
// MOCK TARIFF REPOSITORY
// ──────────────────────────────────────────────

// MockTariffRepository is a mock implementation of TariffRepository.
type MockTariffRepository struct {
	mu      sync.RWMutex
	fixed   map[string]*domain.FixedTariff
	rate    float64
	hasRate bool

	// Error injection
	GetFixedError     error
	GetRateError      error
	SetRatePerKmError error
}

// NewMockTariffRepository creates a new mock tariff repository.
func NewMockTariffRepository() *MockTariffRepository {
	return &MockTariffRepository{
		fixed: make(map[string]*domain.FixedTariff),
	}
}

func tariffKey(organizationID, sourceID, destinationID string) string {
	return organizationID + "|" + sourceID + "|" + destinationID
}

// AddFixed adds a fixed tariff to the mock repository.
func (m *MockTariffRepository) AddFixed(tariff *domain.FixedTariff) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fixed[tariffKey(tariff.OrganizationID, tariff.SourceID, tariff.DestinationID)] = tariff
}

func (m *MockTariffRepository) GetFixed(ctx context.Context, organizationID, sourceID, destinationID string) (*domain.FixedTariff, error) {
	if m.GetFixedError != nil {
		return nil, m.GetFixedError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	tariff, ok := m.fixed[tariffKey(organizationID, sourceID, destinationID)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *tariff
	return &copy, nil
}

func (m *MockTariffRepository) GetRatePerKm(ctx context.Context) (float64, error) {
	if m.GetRateError != nil {
		return 0, m.GetRateError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.hasRate {
		return 0, repository.ErrNotFound
	}
	return m.rate, nil
}

func (m *MockTariffRepository) SetRatePerKm(ctx context.Context, rate float64) error {
	if m.SetRatePerKmError != nil {
		return m.SetRatePerKmError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rate = rate
	m.hasRate = true
	return nil
}

// ──────────────────────────────────────────────
// MOCK PRESET REPOSITORY
// ──────────────────────────────────────────────

// MockPresetRepository is a mock implementation of PresetRepository.
// Locations are kept in insertion order; ListActiveLocations preserves
// it, matching the deterministic ordering of the postgres store.
type MockPresetRepository struct {
	mu           sync.RWMutex
	locations    []*domain.PresetLocation
	destinations map[string]*domain.PresetDestination

	// Error injection
	ListActiveError error
}

// NewMockPresetRepository creates a new mock preset repository.
func NewMockPresetRepository() *MockPresetRepository {
	return &MockPresetRepository{
		destinations: make(map[string]*domain.PresetDestination),
	}
}

// AddLocation adds a preset location to the mock repository.
func (m *MockPresetRepository) AddLocation(loc *domain.PresetLocation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locations = append(m.locations, loc)
}

// AddDestination adds a preset destination to the mock repository.
func (m *MockPresetRepository) AddDestination(dest *domain.PresetDestination) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.destinations[dest.ID] = dest
}

func (m *MockPresetRepository) GetLocation(ctx context.Context, id string) (*domain.PresetLocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, loc := range m.locations {
		if loc.ID == id {
			copy := *loc
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockPresetRepository) ListActiveLocations(ctx context.Context, organizationID string) ([]*domain.PresetLocation, error) {
	if m.ListActiveError != nil {
		return nil, m.ListActiveError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.PresetLocation, 0)
	for _, loc := range m.locations {
		if loc.OrganizationID != organizationID || !loc.Active {
			continue
		}
		copy := *loc
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockPresetRepository) GetDestination(ctx context.Context, id string) (*domain.PresetDestination, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	dest, ok := m.destinations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *dest
	return &copy, nil
}

// ──────────────────────────────────────────────
// MOCK VEHICLE REPOSITORY
// ──────────────────────────────────────────────

// MockVehicleRepository is a mock implementation of VehicleRepository.
type MockVehicleRepository struct {
	mu       sync.RWMutex
	vehicles map[string]*domain.Vehicle

	// Counters for verification
	GetByIDCallCount int32
}

// NewMockVehicleRepository creates a new mock vehicle repository.
func NewMockVehicleRepository() *MockVehicleRepository {
	return &MockVehicleRepository{
		vehicles: make(map[string]*domain.Vehicle),
	}
}

// AddVehicle adds a vehicle to the mock repository.
func (m *MockVehicleRepository) AddVehicle(vehicle *domain.Vehicle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vehicles[vehicle.ID] = vehicle
}

func (m *MockVehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	atomic.AddInt32(&m.GetByIDCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	vehicle, ok := m.vehicles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *vehicle
	return &copy, nil
}

// ──────────────────────────────────────────────
// MOCK LIVE STORE
// ──────────────────────────────────────────────

// MockLiveStore is a mock implementation of LiveStoreInterface. It
// ignores TTL; tests exercise overwrite semantics, not expiry timing.
type MockLiveStore struct {
	mu        sync.RWMutex
	positions map[string]*redis.LivePosition

	// Counters for verification
	UpdateCallCount int32

	// Error injection
	UpdateError   error
	ListLiveError error
}

// NewMockLiveStore creates a new mock live store.
func NewMockLiveStore() *MockLiveStore {
	return &MockLiveStore{
		positions: make(map[string]*redis.LivePosition),
	}
}

func (m *MockLiveStore) Update(ctx context.Context, pos *redis.LivePosition) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *pos
	m.positions[pos.VehicleID] = &copy
	return nil
}

func (m *MockLiveStore) Get(ctx context.Context, vehicleID string) (*redis.LivePosition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pos, ok := m.positions[vehicleID]
	if !ok {
		return nil, nil
	}
	copy := *pos
	return &copy, nil
}

func (m *MockLiveStore) ListLive(ctx context.Context) ([]*redis.LivePosition, error) {
	if m.ListLiveError != nil {
		return nil, m.ListLiveError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*redis.LivePosition, 0, len(m.positions))
	for _, pos := range m.positions {
		copy := *pos
		result = append(result, &copy)
	}
	return result, nil
}

// CountPositions returns the number of live entries.
func (m *MockLiveStore) CountPositions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.positions)
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool

	// Error injection
	AcquireError error
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]bool),
	}
}

func (m *MockLockStore) AcquireInvoiceLock(ctx context.Context, tripID string, ttl time.Duration) (bool, error) {
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[tripID] {
		return false, nil
	}
	m.locks[tripID] = true
	return true, nil
}

func (m *MockLockStore) ReleaseInvoiceLock(ctx context.Context, tripID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, tripID)
	return nil
}

// HoldLock marks a trip's invoice lock as taken by another worker.
func (m *MockLockStore) HoldLock(tripID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locks[tripID] = true
}

// Ensure mocks satisfy the interfaces they stand in for.
var (
	_ repository.TripRepository       = (*MockTripRepository)(nil)
	_ repository.TrackPointRepository = (*MockTrackPointRepository)(nil)
	_ repository.InvoiceRepository    = (*MockInvoiceRepository)(nil)
	_ repository.TariffRepository     = (*MockTariffRepository)(nil)
	_ repository.PresetRepository     = (*MockPresetRepository)(nil)
	_ repository.VehicleRepository    = (*MockVehicleRepository)(nil)
	_ redis.LiveStoreInterface        = (*MockLiveStore)(nil)
	_ redis.LockStoreInterface        = (*MockLockStore)(nil)
)
