package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"quiz-runner/internal/domain"
)

// BankLoader fetches a question bank from a backing store (files, Postgres).
type BankLoader interface {
	LoadBank(ctx context.Context, bankID string) ([]domain.Question, error)
}

// BankRepository caches validated banks with TTL so each source is parsed once.
type BankRepository struct {
	loader BankLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedBank
}

type cachedBank struct {
	questions []domain.Question
	expiresAt time.Time
}

// NewBankRepository caches loader results. A ttl of zero or less caches forever.
func NewBankRepository(loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedBank),
	}
}

func (r *BankRepository) GetBank(ctx context.Context, bankID string) ([]domain.Question, error) {
	if questions, ok := r.cached(bankID); ok {
		return questions, nil
	}

	result, err, _ := r.sf.Do(bankID, func() (interface{}, error) {
		if questions, ok := r.cached(bankID); ok {
			return questions, nil
		}

		questions, err := r.loader.LoadBank(ctx, bankID)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cache[bankID] = cachedBank{
			questions: questions,
			expiresAt: r.clock().Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (r *BankRepository) cached(bankID string) ([]domain.Question, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[bankID]
	if !ok {
		return nil, false
	}
	if r.ttl > 0 && !entry.expiresAt.After(r.clock()) {
		return nil, false
	}
	return entry.questions, true
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticBankLoader is a simple loader backed by an in-memory map (useful for tests/demos).
type StaticBankLoader struct {
	banks map[string][]domain.Question
}

func NewStaticBankLoader(banks map[string][]domain.Question) *StaticBankLoader {
	return &StaticBankLoader{banks: banks}
}

func (l *StaticBankLoader) LoadBank(_ context.Context, bankID string) ([]domain.Question, error) {
	if questions, ok := l.banks[bankID]; ok {
		return questions, nil
	}
	return nil, domain.ErrBankNotFound
}
