package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/redis/go-redis/v9"
)

const (
	docKeyPrefix   = "doc:"
	colKeyPrefix   = "col:"
	watchKeyPrefix = "watch:"
)

// RedisStore implements DocStore on Redis: one JSON value per document,
// a set of ids per collection, and a pub/sub channel per collection for
// change events. Concurrent field merges are last-write-wins.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed document store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func splitPath(path string) (collection, id string) {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return "", path
	}
	return path[:idx], path[idx+1:]
}

func (s *RedisStore) Get(ctx context.Context, path string) (json.RawMessage, error) {
	data, err := s.client.Get(ctx, docKeyPrefix+path).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return json.RawMessage(data), nil
}

func (s *RedisStore) List(ctx context.Context, collection string) ([]Document, error) {
	ids, err := s.client.SMembers(ctx, colKeyPrefix+collection).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list collection: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = docKeyPrefix + collection + "/" + id
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}

	docs := make([]Document, 0, len(ids))
	for i, v := range values {
		str, ok := v.(string)
		if !ok {
			// Index entry without a document; skip and let the next
			// write repair the set.
			continue
		}
		docs = append(docs, Document{ID: ids[i], Data: json.RawMessage(str)})
	}
	return docs, nil
}

func (s *RedisStore) Set(ctx context.Context, path string, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	collection, id := splitPath(path)

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, docKeyPrefix+path, data, 0)
	if collection != "" {
		pipe.SAdd(ctx, colKeyPrefix+collection, id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	s.publish(ctx, collection, Event{Type: EventPut, ID: id})
	return nil
}

func (s *RedisStore) SetAll(ctx context.Context, collection string, docs map[string]interface{}) error {
	if len(docs) == 0 {
		return nil
	}
	pipe := s.client.TxPipeline()
	for id, doc := range docs {
		data, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to marshal document %s: %w", id, err)
		}
		pipe.Set(ctx, docKeyPrefix+collection+"/"+id, data, 0)
		pipe.SAdd(ctx, colKeyPrefix+collection, id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write batch: %w", err)
	}
	s.publish(ctx, collection, Event{Type: EventPut})
	return nil
}

func (s *RedisStore) Merge(ctx context.Context, path string, fields map[string]interface{}) error {
	doc := make(map[string]interface{})
	raw, err := s.Get(ctx, path)
	if err == nil {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("failed to decode document: %w", err)
		}
	} else if err != ErrNotFound {
		return err
	}

	for k, v := range fields {
		if v == nil {
			delete(doc, k)
			continue
		}
		doc[k] = v
	}
	return s.Set(ctx, path, doc)
}

func (s *RedisStore) Delete(ctx context.Context, path string) error {
	collection, id := splitPath(path)

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, docKeyPrefix+path)
	if collection != "" {
		pipe.SRem(ctx, colKeyPrefix+collection, id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	s.publish(ctx, collection, Event{Type: EventDelete, ID: id})
	return nil
}

func (s *RedisStore) DeleteAll(ctx context.Context, collection string) error {
	ids, err := s.client.SMembers(ctx, colKeyPrefix+collection).Result()
	if err != nil {
		return fmt.Errorf("failed to list collection: %w", err)
	}

	pipe := s.client.TxPipeline()
	for _, id := range ids {
		pipe.Del(ctx, docKeyPrefix+collection+"/"+id)
	}
	pipe.Del(ctx, colKeyPrefix+collection)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear collection: %w", err)
	}
	s.publish(ctx, collection, Event{Type: EventDelete})
	return nil
}

func (s *RedisStore) Watch(ctx context.Context, collection string) (<-chan Event, error) {
	sub := s.client.Subscribe(ctx, watchKeyPrefix+collection)
	// Force the subscription to be established before returning.
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	events := make(chan Event, 64)
	go func() {
		defer close(events)
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					continue
				}
				select {
				case events <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return events, nil
}

func (s *RedisStore) publish(ctx context.Context, collection string, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if err := s.client.Publish(ctx, watchKeyPrefix+collection, data).Err(); err != nil {
		log.Printf("Failed to publish change event for %s: %v", collection, err)
	}
}
