// Package store holds the dashboard's city collection and the operations that
// change it. All mutations go through dispatch so that every state transition
// is applied atomically under one lock; gateway calls and persistence writes
// happen outside of it.
package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/wthr-dev/wthr/internal/logger"
	"github.com/wthr-dev/wthr/internal/models"
)

// Gateway fetches weather data from the provider
type Gateway interface {
	CurrentByQuery(ctx context.Context, query string) (*models.City, error)
	CurrentByID(ctx context.Context, id int64) (*models.City, error)
	Forecast(ctx context.Context, lat, lon float64) ([]models.ForecastPoint, error)
	Suggest(ctx context.Context, query string) ([]models.CitySuggestion, error)
}

// Persister is the durable {id, name} list used for rehydration.
// Implementations swallow their own failures.
type Persister interface {
	Read() []models.StoredCity
	Write(cities []models.StoredCity)
	Clear()
}

// State is a point-in-time copy of the store
type State struct {
	Cities        []models.City
	IsInitialized bool
	IsLoading     bool
	Error         string
	Refreshing    map[int64]bool
}

// Store is the city collection state container
type Store struct {
	gateway Gateway
	persist Persister
	log     *logger.Logger
	now     func() time.Time

	mu            sync.Mutex
	cities        []models.City
	isInitialized bool
	initClaimed   bool
	loading       int
	errMsg        string
	refreshing    map[int64]int
	version       uint64

	// writeMu orders persistence writes; written is the last version on disk
	writeMu sync.Mutex
	written uint64

	subMu   sync.Mutex
	subs    map[int]chan struct{}
	nextSub int
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger used for gateway and persistence failures
func WithLogger(l *logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock sets the time source for UpdatedAt
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates an uninitialized store
func New(gw Gateway, p Persister, opts ...Option) *Store {
	s := &Store{
		gateway:    gw,
		persist:    p,
		log:        logger.Nop(),
		now:        time.Now,
		cities:     []models.City{},
		refreshing: make(map[int64]int),
		subs:       make(map[int]chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// AddCity hydrates a city by free-text query and stores it. The returned
// city is the stored record, which is not necessarily the last one: a query
// resolving to an id already present replaces that entry in place. The
// returned error is informational: State already reflects the outcome.
func (s *Store) AddCity(ctx context.Context, query string) (models.City, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		err := &ValidationError{Field: "query", Message: MsgEmptyQuery}
		s.dispatch(addRejected{message: err.Message})
		return models.City{}, err
	}

	if s.hasName(trimmed) {
		err := &ValidationError{Field: "query", Message: MsgDuplicateCity}
		s.dispatch(addRejected{message: err.Message})
		return models.City{}, err
	}

	s.dispatch(addStarted{})

	city, err := s.gateway.CurrentByQuery(ctx, trimmed)
	if err != nil {
		s.log.Error(err, map[string]any{"op": "add_city", "query": trimmed})
		s.dispatch(addFailed{message: ErrorMessage(err, MsgAddFailed)})
		return models.City{}, err
	}

	stamped := s.stamp(city)
	s.dispatch(addSucceeded{city: stamped})

	if stored, ok := s.CityByID(stamped.ID); ok {
		return stored, nil
	}
	// removed concurrently right after the add
	return *stamped, nil
}

// RemoveCity drops the city with id. Removing an absent id still rewrites
// the persisted list.
func (s *Store) RemoveCity(id int64) {
	s.dispatch(removed{id: id})
}

// RefreshCity re-hydrates one city by id, replacing it in place. A city
// removed while the refresh is in flight stays removed.
func (s *Store) RefreshCity(ctx context.Context, id int64) error {
	s.dispatch(refreshStarted{id: id})

	city, err := s.gateway.CurrentByID(ctx, id)
	if err != nil {
		s.log.Error(err, map[string]any{"op": "refresh_city", "city_id": id})
		s.dispatch(refreshFailed{id: id, message: ErrorMessage(err, MsgRefreshFailed)})
		return err
	}

	s.dispatch(refreshSucceeded{id: id, city: s.stamp(city)})
	return nil
}

// Initialize rehydrates the persisted list once per store lifetime. Every
// stored city is fetched concurrently; failures are reported together and
// pruned from the list. Calls after the first return immediately.
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	if s.initClaimed {
		s.mu.Unlock()
		return
	}
	s.initClaimed = true
	s.mu.Unlock()

	refs := s.persist.Read()
	if len(refs) == 0 {
		s.dispatch(initEmpty{})
		return
	}

	s.dispatch(initStarted{})

	type outcome struct {
		city *models.City
		err  error
	}
	results := make([]outcome, len(refs))

	var wg sync.WaitGroup
	for i, ref := range refs {
		wg.Add(1)
		go func(i int, ref models.StoredCity) {
			defer wg.Done()
			city, err := s.gateway.CurrentByID(ctx, ref.ID)
			results[i] = outcome{city: city, err: err}
		}(i, ref)
	}
	wg.Wait()

	hydrated := make([]models.City, 0, len(refs))
	var failed []string
	for i, res := range results {
		if res.err != nil {
			s.log.Warning("failed to rehydrate city", map[string]any{
				"city_id": refs[i].ID,
				"name":    refs[i].Name,
				"error":   res.err.Error(),
			})
			failed = append(failed, refs[i].Name)
			continue
		}
		hydrated = append(hydrated, *s.stamp(res.city))
	}

	s.log.Info("store initialized", map[string]any{
		"stored":     len(refs),
		"rehydrated": len(hydrated),
		"failed":     len(failed),
	})

	s.dispatch(rehydrated{cities: hydrated, failed: failed})
}

// ClearError resets the user-facing error
func (s *Store) ClearError() {
	s.dispatch(errorCleared{})
}

// CityByID looks up a city without mutating anything
func (s *Store) CityByID(id int64) (models.City, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := indexOf(s.cities, id); i >= 0 {
		return s.cities[i], true
	}
	return models.City{}, false
}

// IsRefreshing reports whether a refresh of id is in flight
func (s *Store) IsRefreshing(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshing[id] > 0
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	cities := make([]models.City, len(s.cities))
	copy(cities, s.cities)

	refreshing := make(map[int64]bool, len(s.refreshing))
	for id, n := range s.refreshing {
		if n > 0 {
			refreshing[id] = true
		}
	}

	return State{
		Cities:        cities,
		IsInitialized: s.isInitialized,
		IsLoading:     s.loading > 0,
		Error:         s.errMsg,
		Refreshing:    refreshing,
	}
}

// Forecast fetches the short-range forecast for a city in the collection
func (s *Store) Forecast(ctx context.Context, id int64) ([]models.ForecastPoint, error) {
	city, ok := s.CityByID(id)
	if !ok {
		return nil, ErrCityNotFound
	}
	return s.gateway.Forecast(ctx, city.Coord.Lat, city.Coord.Lon)
}

// Suggest returns autocomplete suggestions. Suggestions never touch State.
func (s *Store) Suggest(ctx context.Context, query string) ([]models.CitySuggestion, error) {
	return s.gateway.Suggest(ctx, query)
}

// ClearPersisted removes the durable list. The in-memory collection is kept.
func (s *Store) ClearPersisted() {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.persist.Clear()
}

// Subscribe returns a channel signalled after every state change and a
// function that cancels the subscription. Signals coalesce: a slow reader
// sees at least one signal after the latest change.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan struct{}, 1)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}

func (s *Store) notify() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (s *Store) hasName(query string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.cities {
		if strings.EqualFold(c.Name, query) {
			return true
		}
	}
	return false
}

// stamp sets UpdatedAt to the store clock on a private copy of city
func (s *Store) stamp(city *models.City) *models.City {
	c := *city
	c.UpdatedAt = s.now()
	return &c
}

// dispatch applies a under the state lock, notifies subscribers and, when the
// action changed the mirrored list, persists it
func (s *Store) dispatch(a action) {
	s.mu.Lock()
	persist := a.apply(s)
	var (
		refs    []models.StoredCity
		version uint64
	)
	if persist {
		s.version++
		version = s.version
		refs = models.StoredCities(s.cities)
	}
	s.mu.Unlock()

	s.notify()

	if persist {
		s.write(version, refs)
	}
}

func (s *Store) write(version uint64, refs []models.StoredCity) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	// a newer mirror already reached the persister
	if version < s.written {
		return
	}
	s.written = version
	s.persist.Write(refs)
}

func indexOf(cities []models.City, id int64) int {
	for i := range cities {
		if cities[i].ID == id {
			return i
		}
	}
	return -1
}
