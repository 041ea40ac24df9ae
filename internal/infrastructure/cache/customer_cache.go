package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/hitzu/taxdown-tech-challenge/internal/domain/customer"
	"github.com/hitzu/taxdown-tech-challenge/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultCustomerTTL = 5 * time.Minute

// generationTTLFactor keeps generation counters well past any entry they guard
const generationTTLFactor = 10

// fillScript writes KEYS[1] only while the generation in KEYS[2] still matches
// the one observed before the database read. A mutation bumps the generation,
// so a fill racing with it is dropped instead of caching the old row.
var fillScript = redis.NewScript(`
local current = redis.call("GET", KEYS[2]) or ""
if current ~= ARGV[2] then
  return 0
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[3])
return 1
`)

// NewRedisClient creates a Redis client and verifies it with a ping
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// CachedCustomerRepository decorates a customer.Repository with a Redis
// read-through cache for FindByID. Every mutation evicts the affected key and
// bumps its generation, which invalidates fills that started before it.
// Redis failures are logged and the call falls through to the inner
// repository, so the cache never changes an outcome.
type CachedCustomerRepository struct {
	inner     customer.Repository
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
	logger    *zap.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// CachedCustomerRepositoryOption configures a CachedCustomerRepository
type CachedCustomerRepositoryOption func(*CachedCustomerRepository)

// WithTTL sets how long a cached customer lives
func WithTTL(ttl time.Duration) CachedCustomerRepositoryOption {
	return func(r *CachedCustomerRepository) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithKeyPrefix namespaces every cache key
func WithKeyPrefix(prefix string) CachedCustomerRepositoryOption {
	return func(r *CachedCustomerRepository) {
		r.keyPrefix = prefix
	}
}

// WithCacheLogger sets the logger
func WithCacheLogger(logger *zap.Logger) CachedCustomerRepositoryOption {
	return func(r *CachedCustomerRepository) {
		r.logger = logger
	}
}

// NewCachedCustomerRepository wraps inner. A nil client disables caching.
func NewCachedCustomerRepository(inner customer.Repository, client *redis.Client, opts ...CachedCustomerRepositoryOption) *CachedCustomerRepository {
	r := &CachedCustomerRepository{
		inner:  inner,
		client: client,
		ttl:    defaultCustomerTTL,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// customerSnapshot is the cached JSON form of a customer
type customerSnapshot struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	PhoneNumber     string          `json:"phoneNumber"`
	AvailableCredit decimal.Decimal `json:"availableCredit"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func snapshotOf(c *customer.Customer) customerSnapshot {
	id, _ := c.ID()
	return customerSnapshot{
		ID:              id.Value(),
		Name:            c.Name(),
		Email:           c.Email().Value(),
		PhoneNumber:     c.PhoneNumber().Value(),
		AvailableCredit: c.AvailableCredit().Value(),
		CreatedAt:       c.CreatedAt(),
		UpdatedAt:       c.UpdatedAt(),
	}
}

func (s customerSnapshot) restore() (*customer.Customer, error) {
	id, err := customer.NewCustomerID(s.ID)
	if err != nil {
		return nil, err
	}
	email, err := customer.NewEmail(s.Email)
	if err != nil {
		return nil, err
	}
	phone, err := customer.NewPhoneNumber(s.PhoneNumber)
	if err != nil {
		return nil, err
	}
	credit, err := customer.NewAvailableCredit(s.AvailableCredit)
	if err != nil {
		return nil, err
	}
	return customer.RestoreCustomer(customer.RestoreParams{
		ID:              id,
		Name:            s.Name,
		Email:           email,
		PhoneNumber:     phone,
		AvailableCredit: credit,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	})
}

func (r *CachedCustomerRepository) key(id customer.CustomerID) string {
	return r.keyPrefix + "customer:" + strconv.FormatInt(id.Value(), 10)
}

func (r *CachedCustomerRepository) generationKey(id customer.CustomerID) string {
	return r.keyPrefix + "customer:gen:" + strconv.FormatInt(id.Value(), 10)
}

// FindByID serves from Redis when possible and populates it on a miss
func (r *CachedCustomerRepository) FindByID(ctx context.Context, id customer.CustomerID) (*customer.Customer, error) {
	if r.client == nil {
		return r.inner.FindByID(ctx, id)
	}

	key := r.key(id)
	data, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var snap customerSnapshot
		if jsonErr := json.Unmarshal(data, &snap); jsonErr == nil {
			if c, restoreErr := snap.restore(); restoreErr == nil {
				r.hits.Add(1)
				return c, nil
			}
		}
		r.logger.Warn("Discarding corrupt customer cache entry", zap.String("key", key))
		r.evict(ctx, id)
	case errors.Is(err, redis.Nil):
	default:
		r.logger.Warn("Customer cache read failed", zap.String("key", key), zap.Error(err))
	}

	r.misses.Add(1)
	if err != nil && !errors.Is(err, redis.Nil) {
		return r.inner.FindByID(ctx, id)
	}

	genKey := r.generationKey(id)
	generation, err := r.client.Get(ctx, genKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		r.logger.Warn("Customer cache read failed", zap.String("key", genKey), zap.Error(err))
		return r.inner.FindByID(ctx, id)
	}

	c, err := r.inner.FindByID(ctx, id)
	if err != nil || c == nil {
		return c, err
	}

	payload, err := json.Marshal(snapshotOf(c))
	if err != nil {
		return c, nil
	}
	stored, err := fillScript.Run(ctx, r.client, []string{key, genKey}, payload, generation, r.ttl.Milliseconds()).Int()
	if err != nil {
		r.logger.Warn("Customer cache write failed", zap.String("key", key), zap.Error(err))
	} else if stored == 0 {
		r.logger.Debug("Skipped customer cache fill after concurrent mutation", zap.String("key", key))
	}
	return c, nil
}

// FindAll is not cached
func (r *CachedCustomerRepository) FindAll(ctx context.Context, query customer.ListQuery) (*customer.ListResult, error) {
	return r.inner.FindAll(ctx, query)
}

// FindByEmailAndPhoneNumber is not cached
func (r *CachedCustomerRepository) FindByEmailAndPhoneNumber(ctx context.Context, email customer.Email, phoneNumber customer.PhoneNumber) (*customer.Customer, error) {
	return r.inner.FindByEmailAndPhoneNumber(ctx, email, phoneNumber)
}

// Save delegates and evicts the customer when it was already persisted
func (r *CachedCustomerRepository) Save(ctx context.Context, c *customer.Customer) (*customer.Customer, error) {
	saved, err := r.inner.Save(ctx, c)
	if id, ok := c.ID(); ok {
		r.evict(ctx, id)
	}
	return saved, err
}

// Delete delegates and evicts
func (r *CachedCustomerRepository) Delete(ctx context.Context, id customer.CustomerID) error {
	err := r.inner.Delete(ctx, id)
	r.evict(ctx, id)
	return err
}

// Update delegates and evicts
func (r *CachedCustomerRepository) Update(ctx context.Context, id customer.CustomerID, patch customer.Patch) (*customer.Customer, error) {
	updated, err := r.inner.Update(ctx, id, patch)
	r.evict(ctx, id)
	return updated, err
}

// AddAvailableCredit delegates and evicts
func (r *CachedCustomerRepository) AddAvailableCredit(ctx context.Context, id customer.CustomerID, amount decimal.Decimal) (*customer.Customer, error) {
	updated, err := r.inner.AddAvailableCredit(ctx, id, amount)
	r.evict(ctx, id)
	return updated, err
}

func (r *CachedCustomerRepository) evict(ctx context.Context, id customer.CustomerID) {
	if r.client == nil {
		return
	}
	genKey := r.generationKey(id)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.PExpire(ctx, genKey, r.ttl*generationTTLFactor)
		pipe.Del(ctx, r.key(id))
		return nil
	})
	if err != nil {
		r.logger.Warn("Customer cache eviction failed", zap.Int64("customer_id", id.Value()), zap.Error(err))
	}
}

// CacheStats reports FindByID hit and miss counts
type CacheStats struct {
	Hits   int64
	Misses int64
}

// Stats returns cache statistics
func (r *CachedCustomerRepository) Stats() CacheStats {
	return CacheStats{Hits: r.hits.Load(), Misses: r.misses.Load()}
}

// Ensure CachedCustomerRepository implements customer.Repository
var _ customer.Repository = (*CachedCustomerRepository)(nil)
