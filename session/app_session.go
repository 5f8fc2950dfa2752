package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AppSessionStore 业务会话：不透明 session id -> Redis JSON
type AppSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewAppSessionStore(rdb *redis.Client, ttl time.Duration) *AppSessionStore {
	return &AppSessionStore{rdb: rdb, ttl: ttl}
}

type AppSession struct {
	AccountID uint  `json:"aid"`
	IssuedAt  int64 `json:"iat"`
	ExpiresAt int64 `json:"exp"`
}

func key(id string) string          { return fmt.Sprintf("eq:sess:%s", id) }
func accountSetKey(aid uint) string { return fmt.Sprintf("eq:account_sessions:%d", aid) }

func (s *AppSessionStore) Create(ctx context.Context, id string, accountID uint) error {
	now := time.Now()
	b, _ := json.Marshal(AppSession{
		AccountID: accountID,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.ttl).Unix(),
	})
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, key(id), b, s.ttl)
	pipe.SAdd(ctx, accountSetKey(accountID), id)
	pipe.Expire(ctx, accountSetKey(accountID), s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *AppSessionStore) Get(ctx context.Context, id string) (*AppSession, error) {
	b, err := s.rdb.Get(ctx, key(id)).Bytes()
	if err != nil {
		return nil, err
	}
	var as AppSession
	if err := json.Unmarshal(b, &as); err != nil {
		return nil, err
	}
	return &as, nil
}

func (s *AppSessionStore) Delete(ctx context.Context, id string) error {
	as, _ := s.Get(ctx, id) // 忽略失败
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, key(id))
	if as != nil {
		pipe.SRem(ctx, accountSetKey(as.AccountID), id)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// 删除账号时撤销它的所有会话
func (s *AppSessionStore) RevokeAllForAccount(ctx context.Context, accountID uint) error {
	ids, err := s.rdb.SMembers(ctx, accountSetKey(accountID)).Result()
	if err != nil && err != redis.Nil {
		return err
	}

	pipe := s.rdb.TxPipeline()
	for _, sid := range ids {
		pipe.Del(ctx, key(sid))
	}
	pipe.Del(ctx, accountSetKey(accountID))
	_, err = pipe.Exec(ctx)
	return err
}
