package store

import "github.com/wthr-dev/wthr/internal/models"

// action is one state transition. apply runs with the state lock held and
// reports whether the mirrored persisted list must be rewritten.
type action interface {
	apply(s *Store) bool
}

type addRejected struct{ message string }

func (a addRejected) apply(s *Store) bool {
	s.errMsg = a.message
	return false
}

type addStarted struct{}

func (addStarted) apply(s *Store) bool {
	s.loading++
	s.errMsg = ""
	return false
}

type addSucceeded struct{ city *models.City }

func (a addSucceeded) apply(s *Store) bool {
	s.loading--
	// ids stay unique: an add that resolves to a city already present
	// replaces it in place
	if i := indexOf(s.cities, a.city.ID); i >= 0 {
		s.cities = replaceAt(s.cities, i, *a.city)
		return true
	}
	s.cities = append(s.cities, *a.city)
	return true
}

type addFailed struct{ message string }

func (a addFailed) apply(s *Store) bool {
	s.loading--
	s.errMsg = a.message
	return false
}

type removed struct{ id int64 }

func (a removed) apply(s *Store) bool {
	kept := make([]models.City, 0, len(s.cities))
	for _, c := range s.cities {
		if c.ID != a.id {
			kept = append(kept, c)
		}
	}
	s.cities = kept
	return true
}

type refreshStarted struct{ id int64 }

func (a refreshStarted) apply(s *Store) bool {
	s.refreshing[a.id]++
	s.errMsg = ""
	return false
}

type refreshSucceeded struct {
	id   int64
	city *models.City
}

func (a refreshSucceeded) apply(s *Store) bool {
	s.settleRefresh(a.id)

	i := indexOf(s.cities, a.id)
	if i < 0 {
		return false
	}
	s.cities = replaceAt(s.cities, i, *a.city)
	return true
}

type refreshFailed struct {
	id      int64
	message string
}

func (a refreshFailed) apply(s *Store) bool {
	s.settleRefresh(a.id)
	s.errMsg = a.message
	return false
}

type initEmpty struct{}

func (initEmpty) apply(s *Store) bool {
	s.isInitialized = true
	return false
}

type initStarted struct{}

func (initStarted) apply(s *Store) bool {
	s.loading++
	s.errMsg = ""
	return false
}

type rehydrated struct {
	cities []models.City
	failed []string
}

func (a rehydrated) apply(s *Store) bool {
	cities := make([]models.City, 0, len(a.cities)+len(s.cities))
	cities = append(cities, a.cities...)
	// cities added while rehydration was in flight follow the stored ones
	for _, c := range s.cities {
		if indexOf(cities, c.ID) < 0 {
			cities = append(cities, c)
		}
	}
	s.cities = cities

	s.loading--
	s.isInitialized = true
	if len(a.failed) > 0 {
		s.errMsg = rehydrateMessage(a.failed)
	} else {
		s.errMsg = ""
	}
	return true
}

type errorCleared struct{}

func (errorCleared) apply(s *Store) bool {
	s.errMsg = ""
	return false
}

func (s *Store) settleRefresh(id int64) {
	if s.refreshing[id] <= 1 {
		delete(s.refreshing, id)
		return
	}
	s.refreshing[id]--
}

// replaceAt swaps in city at position i. UpdatedAt never moves backwards for
// the same city.
func replaceAt(cities []models.City, i int, city models.City) []models.City {
	if prev := cities[i].UpdatedAt; city.UpdatedAt.Before(prev) {
		city.UpdatedAt = prev
	}
	cities[i] = city
	return cities
}
