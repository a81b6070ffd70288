package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"travellink/internal/domain"
	"travellink/internal/domain/models"

	"github.com/redis/go-redis/v9"
)

const (
	redisLeadIndex  = "leads"
	redisLeadPrefix = "lead:"

	// redisWatchAttempts bounds optimistic retries when a watched key changes under us.
	redisWatchAttempts = 5
)

// RedisLeadStore keeps each lead as JSON under lead:<id> and orders them in
// the "leads" sorted set by creation time.
type RedisLeadStore struct {
	client *redis.Client
}

func NewRedisLeadStore(ctx context.Context, client *redis.Client) (*RedisLeadStore, error) {
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisLeadStore{client: client}, nil
}

func leadKey(id string) string { return redisLeadPrefix + id }

func (s *RedisLeadStore) SaveLead(ctx context.Context, lead models.Lead) error {
	data, err := json.Marshal(lead)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, leadKey(lead.ID), data, 0)
		pipe.ZAdd(ctx, redisLeadIndex, redis.Z{Score: float64(lead.CreatedAt.UnixMilli()), Member: lead.ID})
		return nil
	})
	return err
}

func (s *RedisLeadStore) GetLead(ctx context.Context, id string) (models.Lead, error) {
	data, err := s.client.Get(ctx, leadKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Lead{}, domain.NotFoundError{Resource: "lead"}
	}
	if err != nil {
		return models.Lead{}, err
	}
	var lead models.Lead
	if err := json.Unmarshal(data, &lead); err != nil {
		return models.Lead{}, fmt.Errorf("decode lead %s: %w", id, err)
	}
	return lead, nil
}

func (s *RedisLeadStore) ListLeads(ctx context.Context, f models.LeadFilter) ([]models.Lead, error) {
	ids, err := s.client.ZRevRange(ctx, redisLeadIndex, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.Lead{}, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = leadKey(id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	out := make([]models.Lead, 0, len(vals))
	for _, v := range vals {
		raw, ok := v.(string)
		if !ok {
			// index entry without a body; skip
			continue
		}
		var lead models.Lead
		if err := json.Unmarshal([]byte(raw), &lead); err != nil {
			return nil, fmt.Errorf("decode lead: %w", err)
		}
		if MatchLead(lead, f) {
			out = append(out, lead)
		}
	}
	SortLeads(out)
	return out, nil
}

// UpdateLeadStatus rewrites the lead under WATCH. A concurrent write to the same lead
// aborts the transaction, which is retried on fresh data up to redisWatchAttempts times.
func (s *RedisLeadStore) UpdateLeadStatus(ctx context.Context, id string, status models.LeadStatus, at time.Time) (models.Lead, error) {
	key := leadKey(id)
	var updated models.Lead
	err := retryTxFailed(ctx, redisWatchAttempts, func() error {
		return s.client.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if errors.Is(err, redis.Nil) {
				return domain.NotFoundError{Resource: "lead"}
			}
			if err != nil {
				return err
			}
			if err := json.Unmarshal(data, &updated); err != nil {
				return fmt.Errorf("decode lead %s: %w", id, err)
			}
			updated.Status = status
			updated.UpdatedAt = at
			next, err := json.Marshal(updated)
			if err != nil {
				return err
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, next, 0)
				return nil
			})
			return err
		}, key)
	})
	if err != nil {
		return models.Lead{}, err
	}
	return updated, nil
}

// retryTxFailed runs fn until it stops failing with redis.TxFailedErr. Exhausted
// retries surface as a conflict so the caller can try again later.
func retryTxFailed(ctx context.Context, attempts int, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return domain.ConflictError{Resource: "lead", Msg: "concurrent update, try again", Err: err}
}
