package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/motionxstudio/api/internal/store"
)

// fakeStore is an in-memory DocStore recording merge and delete calls so
// tests can assert on write patterns.
type fakeStore struct {
	mu   sync.Mutex
	docs map[string]json.RawMessage

	mergeCalls  []mergeCall
	deleteCalls []string
}

type mergeCall struct {
	path   string
	fields map[string]interface{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: make(map[string]json.RawMessage)}
}

func (f *fakeStore) put(path string, doc interface{}) {
	data, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	f.mu.Lock()
	f.docs[path] = data
	f.mu.Unlock()
}

func (f *fakeStore) Get(_ context.Context, path string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[path]
	if !ok {
		return nil, store.ErrNotFound
	}
	return doc, nil
}

func (f *fakeStore) List(_ context.Context, collection string) ([]store.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := collection + "/"
	var docs []store.Document
	for path, data := range f.docs {
		if len(path) <= len(prefix) || path[:len(prefix)] != prefix {
			continue
		}
		id := path[len(prefix):]
		nested := false
		for i := range id {
			if id[i] == '/' {
				nested = true
				break
			}
		}
		if !nested {
			docs = append(docs, store.Document{ID: id, Data: data})
		}
	}
	return docs, nil
}

func (f *fakeStore) Set(_ context.Context, path string, doc interface{}) error {
	f.put(path, doc)
	return nil
}

func (f *fakeStore) SetAll(_ context.Context, collection string, docs map[string]interface{}) error {
	for id, doc := range docs {
		f.put(collection+"/"+id, doc)
	}
	return nil
}

func (f *fakeStore) Merge(ctx context.Context, path string, fields map[string]interface{}) error {
	doc := make(map[string]interface{})
	raw, err := f.Get(ctx, path)
	if err == nil {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return err
		}
	}
	for k, v := range fields {
		if v == nil {
			delete(doc, k)
			continue
		}
		doc[k] = v
	}
	f.put(path, doc)

	f.mu.Lock()
	f.mergeCalls = append(f.mergeCalls, mergeCall{path: path, fields: fields})
	f.mu.Unlock()
	return nil
}

func (f *fakeStore) Delete(_ context.Context, path string) error {
	f.mu.Lock()
	delete(f.docs, path)
	f.deleteCalls = append(f.deleteCalls, path)
	f.mu.Unlock()
	return nil
}

func (f *fakeStore) DeleteAll(ctx context.Context, collection string) error {
	docs, _ := f.List(ctx, collection)
	f.mu.Lock()
	for _, doc := range docs {
		delete(f.docs, collection+"/"+doc.ID)
	}
	f.mu.Unlock()
	return nil
}

func (f *fakeStore) Watch(ctx context.Context, collection string) (<-chan store.Event, error) {
	ch := make(chan store.Event)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

func (f *fakeStore) mergesFor(path string) []mergeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var calls []mergeCall
	for _, c := range f.mergeCalls {
		if c.path == path {
			calls = append(calls, c)
		}
	}
	return calls
}
