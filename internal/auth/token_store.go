package auth

import (
	"context"
	"time"

	"cozinhai/internal/kv"
)

const revokedTokenKeyPrefix = "revoked:session_token:"

// TokenStoreInterface defines revocation bookkeeping for session tokens.
type TokenStoreInterface interface {
	RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

// TokenStore keeps revoked token ids in Redis until the token would expire anyway.
type TokenStore struct {
	kv *kv.Client
}

// Ensure TokenStore implements TokenStoreInterface
var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(client *kv.Client) *TokenStore {
	return &TokenStore{kv: client}
}

// RevokeToken marks a token id as revoked for ttl. Expired tokens need no entry.
func (s *TokenStore) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	return s.kv.Flag(ctx, revokedTokenKeyPrefix+tokenID, ttl)
}

// IsTokenRevoked checks whether a token id was revoked.
func (s *TokenStore) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	return s.kv.IsFlagged(ctx, revokedTokenKeyPrefix+tokenID)
}
