package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"
)

// CacheBuilder is a fluent helper over a valkey client for the common
// get/set/delete-by-key patterns used by repositories and middleware.
type CacheBuilder struct {
	client CacheClient
	key    string
	value  any
	ttl    time.Duration
	ctx    context.Context
}

func NewCacheBuilder(client CacheClient, key string) *CacheBuilder {
	return &CacheBuilder{
		client: client,
		key:    key,
		ctx:    context.Background(),
	}
}

func (b *CacheBuilder) WithStruct(value any) *CacheBuilder {
	b.value = value
	return b
}

func (b *CacheBuilder) WithTTL(ttl time.Duration) *CacheBuilder {
	b.ttl = ttl
	return b
}

func (b *CacheBuilder) WithContext(ctx context.Context) *CacheBuilder {
	b.ctx = ctx
	return b
}

func (b *CacheBuilder) Set() error {
	payload, err := json.Marshal(b.value)
	if err != nil {
		return err
	}

	cmd := b.client.B().Set().Key(b.key).Value(string(payload))
	if b.ttl > 0 {
		return b.client.Do(b.ctx, cmd.Ex(b.ttl).Build()).Error()
	}
	return b.client.Do(b.ctx, cmd.Build()).Error()
}

// Get unmarshals the cached value into dest, reporting whether the key was
// present. A miss is not an error.
func (b *CacheBuilder) Get(dest any) (bool, error) {
	raw, err := b.client.Do(b.ctx, b.client.B().Get().Key(b.key).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return false, nil
		}
		return false, err
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, err
	}

	return true, nil
}

func (b *CacheBuilder) Delete() error {
	return b.client.Do(b.ctx, b.client.B().Del().Key(b.key).Build()).Error()
}
