// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrObjectNotFound is returned by Memory for unknown keys.
var ErrObjectNotFound = errors.New("object not found")

// Memory is an in-process BlobStore used by the mock backend and tests.
type Memory struct {
	mu        sync.RWMutex
	objects   map[string][]byte
	mimeTypes map[string]string
	baseURL   string
}

// NewMemory creates an empty in-memory blob store whose URLs start with
// baseURL (e.g. "/uploads").
func NewMemory(baseURL string) *Memory {
	return &Memory{
		objects:   make(map[string][]byte),
		mimeTypes: make(map[string]string),
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

func (m *Memory) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.objects[key] = data
	m.mimeTypes[key] = contentType
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.objects[key]; !ok {
		return ErrObjectNotFound
	}
	delete(m.objects, key)
	delete(m.mimeTypes, key)
	return nil
}

// Get returns a copy of the stored object and its content type.
func (m *Memory) Get(key string) ([]byte, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.objects[key]
	if !ok {
		return nil, "", false
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, m.mimeTypes[key], true
}

func (m *Memory) FileURL(key string) string {
	return m.baseURL + "/" + key
}

func (m *Memory) KeyFromURL(rawURL string) (string, bool) {
	prefix := m.baseURL + "/"
	if !strings.HasPrefix(rawURL, prefix) {
		return "", false
	}
	return rawURL[len(prefix):], true
}
