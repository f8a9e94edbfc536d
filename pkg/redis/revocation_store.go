package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedTokenPrefix = "session:revoked:"

// RevocationStore keeps a denylist of logged-out session token ids.
// Entries expire together with the token they block.
type RevocationStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewRevocationStore creates a store backed by the given client
func NewRevocationStore(c *redis.Client) *RevocationStore {
	return &RevocationStore{client: c, now: time.Now}
}

// Revoke blocks the token id until expiresAt. Tokens already expired are ignored.
func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, revokedTokenPrefix+tokenID, "1", ttl).Err()
}

// IsRevoked reports whether the token id was revoked
func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	n, err := s.client.Exists(ctx, revokedTokenPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
