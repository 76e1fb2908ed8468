package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// PolicyStore persists the owner's policy overrides. Absent a stored value
// it hands back the defaults; appointment data is never stored here.
type PolicyStore struct {
	redis *redis.Client
}

// NewPolicyStore creates a policy store. A nil client means defaults only.
func NewPolicyStore(redisClient *redis.Client) *PolicyStore {
	return &PolicyStore{redis: redisClient}
}

const policyKey = "catalog:policy"

// Get retrieves the booking policy, returning defaults if none is stored.
func (s *PolicyStore) Get(ctx context.Context) (Policy, error) {
	if s == nil || s.redis == nil {
		return DefaultPolicy(), nil
	}

	data, err := s.redis.Get(ctx, policyKey).Bytes()
	if err == redis.Nil {
		return DefaultPolicy(), nil
	}
	if err != nil {
		return Policy{}, fmt.Errorf("catalog: get policy: %w", err)
	}

	var p Policy
	if err := json.Unmarshal(data, &p); err != nil {
		return Policy{}, fmt.Errorf("catalog: unmarshal policy: %w", err)
	}
	return p, nil
}

// Set saves the booking policy.
func (s *PolicyStore) Set(ctx context.Context, p Policy) error {
	if s == nil || s.redis == nil {
		return fmt.Errorf("catalog: policy store not configured")
	}
	if p.SlotStepMinutes <= 0 || p.TravelBufferMinutes < 0 || p.CancelNoticeHours < 0 || p.LateFeeCents < 0 {
		return ErrInvalidPolicy
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("catalog: marshal policy: %w", err)
	}
	if err := s.redis.Set(ctx, policyKey, data, 0).Err(); err != nil {
		return fmt.Errorf("catalog: set policy: %w", err)
	}
	return nil
}
