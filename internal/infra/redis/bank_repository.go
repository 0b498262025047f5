package redis

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"quiz-runner/internal/bank"
	"quiz-runner/internal/domain"
)

// BankLoader fetches a question bank from a backing store (files, Postgres).
type BankLoader interface {
	LoadBank(ctx context.Context, bankID string) ([]domain.Question, error)
}

// BankRepository caches question banks in Redis and falls back to a loader on cache miss.
// Banks are stored in the question source format as: SET quiz:bank:{bankID} <json> EX ttl
type BankRepository struct {
	client *redis.Client
	loader BankLoader
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewBankRepository(client *redis.Client, loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *BankRepository) GetBank(ctx context.Context, bankID string) ([]domain.Question, error) {
	key := r.key(bankID)
	if questions, ok := r.cached(ctx, key); ok {
		return questions, nil
	}

	result, err, _ := r.sf.Do(bankID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if questions, ok := r.cached(ctx, key); ok {
			return questions, nil
		}

		questions, err := r.loader.LoadBank(ctx, bankID)
		if err != nil {
			return nil, err
		}

		data, err := bank.Encode(questions)
		if err != nil {
			return nil, err
		}
		// best-effort: a failed cache write only costs a reload
		if err := r.client.Set(ctx, key, data, r.ttlWithJitter()).Err(); err != nil {
			log.Printf("cache bank %s: %v", bankID, err)
		}
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

// Invalidate drops a cached bank so the next read goes to the loader.
func (r *BankRepository) Invalidate(ctx context.Context, bankID string) error {
	return r.client.Del(ctx, r.key(bankID)).Err()
}

func (r *BankRepository) cached(ctx context.Context, key string) ([]domain.Question, bool) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("read cached bank %s: %v", key, err)
		}
		return nil, false
	}
	questions, err := bank.Parse(data)
	if err != nil {
		log.Printf("discard cached bank %s: %v", key, err)
		return nil, false
	}
	return questions, true
}

func (r *BankRepository) key(bankID string) string {
	return "quiz:bank:" + bankID
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
