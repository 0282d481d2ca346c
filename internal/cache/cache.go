package cache

import (
	"sync"
	"time"
)

// Регион — именованная группа закэшированных результатов запросов с общей
// политикой устаревания и инвалидации. Инвалидация только целиком по региону:
// записи — это результаты выборок, а не строки, и отслеживать происхождение
// ключей ради точечного сброса здесь не окупается.
type Region string

const (
	RegionRooms            Region = "rooms"
	RegionSlots            Region = "slots"
	RegionSlotsByRoom      Region = "slots-by-room"
	RegionSlotsByDateRange Region = "slots-by-date-range"
	RegionAvailableSlots   Region = "available-slots"
	RegionReservations     Region = "reservations"
	RegionUserReservations Region = "user-reservations"
)

// Config — TTL и предельное число записей одного региона.
type Config struct {
	TTL        time.Duration
	MaxEntries int
}

type entry struct {
	value     any
	expiresAt time.Time
}

type region struct {
	cfg Config

	mu      sync.RWMutex
	entries map[string]entry
}

// Service — явный кэш-объект, внедряемый в сервисы. Никакого глобального
// состояния: регионы и их параметры задаются при конструировании.
type Service struct {
	regions map[Region]*region
}

func New(regions map[Region]Config) *Service {
	s := &Service{regions: make(map[Region]*region, len(regions))}
	for name, cfg := range regions {
		s.regions[name] = &region{
			cfg:     cfg,
			entries: make(map[string]entry),
		}
	}
	return s
}

// Read — сквозное чтение: на промахе зовёт loader и запоминает результат.
// Loader намеренно выполняется вне блокировки: два конкурентных промаха по
// одному ключу могут оба сходить в БД — loader'ы это чистые чтения, дубль
// работы дешевле дополнительного локинга.
func (s *Service) Read(name Region, key string, loader func() (any, error)) (any, error) {
	r, ok := s.regions[name]
	if !ok {
		// Незарегистрированный регион — просто не кэшируем.
		return loader()
	}

	r.mu.RLock()
	e, hit := r.entries[key]
	r.mu.RUnlock()
	if hit && time.Now().Before(e.expiresAt) {
		return e.value, nil
	}

	v, err := loader()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if len(r.entries) >= r.cfg.MaxEntries {
		r.evictLocked()
	}
	r.entries[key] = entry{value: v, expiresAt: time.Now().Add(r.cfg.TTL)}
	r.mu.Unlock()

	return v, nil
}

// evictLocked освобождает место: сперва все протухшие записи, если их не
// нашлось — произвольную (регионы маленькие, честный LRU не нужен).
func (r *region) evictLocked() {
	now := time.Now()
	removed := false
	for k, e := range r.entries {
		if now.After(e.expiresAt) {
			delete(r.entries, k)
			removed = true
		}
	}
	if removed {
		return
	}
	for k := range r.entries {
		delete(r.entries, k)
		return
	}
}

// Invalidate сбрасывает перечисленные регионы целиком.
func (s *Service) Invalidate(names ...Region) {
	for _, name := range names {
		if r, ok := s.regions[name]; ok {
			r.mu.Lock()
			r.entries = make(map[string]entry)
			r.mu.Unlock()
		}
	}
}

// InvalidateAll сбрасывает все регионы.
func (s *Service) InvalidateAll() {
	for name := range s.regions {
		s.Invalidate(name)
	}
}

// Len возвращает число живых записей региона (для тестов и метрик).
func (s *Service) Len(name Region) int {
	r, ok := s.regions[name]
	if !ok {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// ReadAs — типизированная обёртка над Read.
func ReadAs[T any](s *Service, name Region, key string, loader func() (T, error)) (T, error) {
	v, err := s.Read(name, key, func() (any, error) { return loader() })
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
