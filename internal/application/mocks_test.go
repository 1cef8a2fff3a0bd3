package application

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/oksasatya/birthday-reminder-api/internal/domain/entity"
)

type MockIndex struct{ mock.Mock }

func (m *MockIndex) Index(ctx context.Context, f entity.Friend) error {
	return m.Called(ctx, f).Error(0)
}

func (m *MockIndex) Remove(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockIndex) Search(ctx context.Context, userID, query string, size int) ([]string, error) {
	args := m.Called(ctx, userID, query, size)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

type MockProvider struct{ mock.Mock }

func (m *MockProvider) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type MockCache struct{ mock.Mock }

func (m *MockCache) Get(ctx context.Context, friendID string, kind entity.SuggestionKind) (*entity.SuggestionResult, bool) {
	args := m.Called(ctx, friendID, kind)
	res, _ := args.Get(0).(*entity.SuggestionResult)
	return res, args.Bool(1)
}

func (m *MockCache) Set(ctx context.Context, friendID string, res entity.SuggestionResult) {
	m.Called(ctx, friendID, res)
}

func (m *MockCache) Invalidate(ctx context.Context, friendID string) {
	m.Called(ctx, friendID)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) PublishJSON(ctx context.Context, body any) error {
	return m.Called(ctx, body).Error(0)
}

type MockGuard struct{ mock.Mock }

func (m *MockGuard) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuard) Release(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type MockStore struct{ mock.Mock }

func (m *MockStore) Put(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	body, _ := io.ReadAll(r)
	args := m.Called(ctx, objectPath, contentType, string(body))
	return args.String(0), args.Error(1)
}
