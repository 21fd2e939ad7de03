package repository

import (
	"context"
	"errors"

	"videoflix/entities"
)

// TokenRepository resolves opaque API tokens to a principal.
type TokenRepository interface {
	FindToken(ctx context.Context, key string) (*entities.AuthToken, error)
	GetOrCreateToken(ctx context.Context, userID uint, key string) (*entities.AuthToken, error)
}

func (r *repo) FindToken(ctx context.Context, key string) (*entities.AuthToken, error) {
	token := &entities.AuthToken{}
	if err := r.conn(ctx).First(token, "key = ?", key).Error; err != nil {
		return nil, translate(err)
	}
	return token, nil
}

// GetOrCreateToken returns the user's existing token, or stores key for them.
func (r *repo) GetOrCreateToken(ctx context.Context, userID uint, key string) (*entities.AuthToken, error) {
	token := &entities.AuthToken{}
	err := r.conn(ctx).First(token, "user_id = ?", userID).Error
	if err == nil {
		return token, nil
	}
	if err = translate(err); !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	token = &entities.AuthToken{Key: key, UserID: userID}
	if err := r.conn(ctx).Create(token).Error; err != nil {
		return nil, err
	}
	return token, nil
}
