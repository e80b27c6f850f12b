package token

import (
	"fmt"
	"time"

	"github.com/go-redis/redis"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewRepository(client *redis.Client) *redisRepository {
	return &redisRepository{client}
}

// redisRepository tracks the refresh tokens currently valid for each user. A
// token absent from redis has been rotated or revoked.
type redisRepository struct {
	client *redis.Client
}

func (r redisRepository) SetRefreshToken(userId uint, tokenId string, expiresIn time.Duration) error {
	err := r.client.Set(refreshTokenKey(userId, tokenId), "valid", expiresIn).Err()
	if err != nil {
		return fmt.Errorf("failed to store refresh token for user %d: %v", userId, err)
	}

	return nil
}

func (r redisRepository) DeleteRefreshToken(userId uint, previousTokenId string) error {
	err := r.client.Del(refreshTokenKey(userId, previousTokenId)).Err()
	if err != nil {
		return fmt.Errorf("failed to delete refresh token for user %d: %v", userId, err)
	}

	return nil
}

// DeleteRefreshTokens revokes every refresh token of the user.
func (r redisRepository) DeleteRefreshTokens(userId uint) error {
	pattern := refreshTokenKey(userId, "*")

	var cursor uint64
	for {
		keys, next, err := r.client.Scan(cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan refresh tokens for user %d: %v", userId, err)
		}

		if len(keys) > 0 {
			if err := r.client.Del(keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete refresh tokens for user %d: %v", userId, err)
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func refreshTokenKey(userId uint, tokenId string) string {
	return fmt.Sprintf("refreshToken:%d:%s", userId, tokenId)
}
