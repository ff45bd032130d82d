package store

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mainbong/restaurant_finder/internal/logger"
	"github.com/mainbong/restaurant_finder/internal/places"
)

// RandomPickLimit is the page size fetched for a random pick.
const RandomPickLimit = 50

// SearchParams are the user controlled search inputs. Two fetches continue
// the same result list only if their params are equal.
type SearchParams struct {
	Query  string
	Radius int
	Sort   places.SortKey
}

// Notifier receives transient user-facing messages.
type Notifier interface {
	Notify(message string, isError bool)
}

// State is a copy of the store contents for rendering.
type State struct {
	Params      SearchParams
	Limit       int
	Loading     bool
	Error       string
	Restaurants []places.Place
	NextCursor  string
	Selected    *places.Place
	HoveredID   string
}

// Store holds the search parameters and the accumulated result list.
type Store struct {
	searcher places.Searcher
	notifier Notifier

	mu          sync.Mutex
	params      SearchParams
	lastParams  SearchParams
	fetched     bool
	limit       int
	inFlight    int
	err         string
	restaurants []places.Place
	nextCursor  string
	selected    *places.Place
	hoveredID   string
	intn        func(n int) int
}

// New creates a store fetching through searcher. notifier may be nil.
func New(searcher places.Searcher, notifier Notifier, initial SearchParams) *Store {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Store{
		searcher: searcher,
		notifier: notifier,
		params:   initial,
		limit:    places.DefaultLimit,
		intn:     rng.Intn,
	}
}

// SetRandom replaces the random index source used by RandomPick (for testing).
func (s *Store) SetRandom(intn func(n int) int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intn = intn
}

// SetLimit changes the page size used by FetchPlaces.
func (s *Store) SetLimit(limit int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit > 0 {
		s.limit = limit
	}
}

func (s *Store) SetQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params.Query = query
}

func (s *Store) SetRadius(radius int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if radius < 0 {
		radius = 0
	}
	s.params.Radius = radius
}

func (s *Store) SetSort(sort places.SortKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params.Sort = sort
}

// Params returns the current search parameters.
func (s *Store) Params() SearchParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// Loading reports whether a page fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight > 0
}

// NextCursor returns the continuation cursor of the last page, empty when
// there are no more pages.
func (s *Store) NextCursor() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextCursor
}

// HasMore reports whether another page can be fetched.
func (s *Store) HasMore() bool {
	return s.NextCursor() != ""
}

// Search replaces the parameters and fetches the first page.
func (s *Store) Search(ctx context.Context, params SearchParams) error {
	s.mu.Lock()
	s.params = params
	s.mu.Unlock()
	return s.FetchPlaces(ctx, "")
}

// LoadMore fetches the page after the current one, if any.
func (s *Store) LoadMore(ctx context.Context) error {
	cursor := s.NextCursor()
	if cursor == "" {
		return nil
	}
	return s.FetchPlaces(ctx, cursor)
}

// FetchPlaces fetches a page for the current parameters. Without a cursor the
// result list is replaced; with a cursor the page is appended, provided the
// parameters still equal those of the previous fetch. A cursor left over from
// different parameters is dropped and the first page is fetched instead.
// Responses for parameters that changed while the request was in flight are
// discarded. On failure the error is recorded and prior results are kept.
func (s *Store) FetchPlaces(ctx context.Context, cursor string) error {
	s.mu.Lock()
	params := s.params
	if cursor != "" && (!s.fetched || params != s.lastParams) {
		logger.Info("dropping cursor from a previous search (query=%q)", params.Query)
		cursor = ""
	}
	limit := s.limit
	s.inFlight++
	s.err = ""
	s.mu.Unlock()

	requestID := uuid.NewString()
	logger.Debug("[%s] fetching places query=%q radius=%d sort=%q cursor=%t", requestID, params.Query, params.Radius, params.Sort, cursor != "")

	page, err := s.searcher.Search(ctx, places.SearchRequest{
		Query:  params.Query,
		Limit:  limit,
		Radius: params.Radius,
		Cursor: cursor,
		Sort:   params.Sort,
	})

	s.mu.Lock()
	s.inFlight--
	if err != nil {
		s.err = err.Error()
		s.mu.Unlock()
		logger.Error("[%s] fetch failed: %v", requestID, err)
		s.notify(err.Error(), true)
		return err
	}
	if s.params != params {
		s.mu.Unlock()
		logger.Info("[%s] discarding response for outdated search", requestID)
		return nil
	}

	if cursor == "" {
		s.restaurants = append([]places.Place(nil), page.Results...)
	} else {
		s.restaurants = append(s.restaurants, page.Results...)
	}
	s.nextCursor = page.NextCursor
	s.lastParams = params
	s.fetched = true
	total := len(s.restaurants)
	s.mu.Unlock()

	logger.Info("[%s] received %d places (total %d, more=%t)", requestID, len(page.Results), total, page.NextCursor != "")
	return nil
}

// RandomPick fetches a larger first page for the current parameters, picks
// one place uniformly at random and selects it. The paginated list is left
// untouched. An empty result set yields (nil, nil).
func (s *Store) RandomPick(ctx context.Context) (*places.Place, error) {
	params := s.Params()

	page, err := s.searcher.Search(ctx, places.SearchRequest{
		Query:  params.Query,
		Limit:  RandomPickLimit,
		Radius: params.Radius,
		Sort:   params.Sort,
	})
	if err != nil {
		s.mu.Lock()
		s.err = err.Error()
		s.mu.Unlock()
		logger.Error("random pick failed: %v", err)
		s.notify(err.Error(), true)
		return nil, err
	}
	if len(page.Results) == 0 {
		s.notify("No restaurants found nearby", false)
		return nil, nil
	}

	s.mu.Lock()
	pick := page.Results[s.intn(len(page.Results))]
	s.selected = &pick
	s.mu.Unlock()

	logger.Info("random pick: %s (%s)", pick.Name, pick.ID)
	return &pick, nil
}

// Select marks the place with id as selected. It reports whether the place
// is in the current result list.
func (s *Store) Select(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.restaurants {
		if s.restaurants[i].ID == id {
			pick := s.restaurants[i]
			s.selected = &pick
			return true
		}
	}
	return false
}

// ClearSelection drops the selected place.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
}

// Hover records the highlighted place; an empty id clears it.
func (s *Store) Hover(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hoveredID = id
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := State{
		Params:      s.params,
		Limit:       s.limit,
		Loading:     s.inFlight > 0,
		Error:       s.err,
		Restaurants: append([]places.Place(nil), s.restaurants...),
		NextCursor:  s.nextCursor,
		HoveredID:   s.hoveredID,
	}
	if s.selected != nil {
		sel := *s.selected
		state.Selected = &sel
	}
	return state
}

func (s *Store) notify(message string, isError bool) {
	if s.notifier != nil {
		s.notifier.Notify(message, isError)
	}
}
