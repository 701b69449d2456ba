package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/realtor-intake/internal/model"
	"github.com/sells-group/realtor-intake/internal/resilience"
)

type mockStore struct {
	mock.Mock
	Store
}

func (m *mockStore) SaveRawDescription(ctx context.Context, text string) (string, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Error(1)
}

func (m *mockStore) SavePropertyRecord(ctx context.Context, rec *model.PropertyRecord) (string, error) {
	args := m.Called(ctx, rec)
	return args.String(0), args.Error(1)
}

func (m *mockStore) GetPropertyRecord(ctx context.Context, id string) (*model.PropertyRecord, error) {
	args := m.Called(ctx, id)
	rec, _ := args.Get(0).(*model.PropertyRecord)
	return rec, args.Error(1)
}

func fastRetry() resilience.RetryConfig {
	return resilience.RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond}
}

func TestWithRetry_RetriesBusyWrites(t *testing.T) {
	ms := &mockStore{}
	busy := errors.New("sqlite: insert raw description: database is locked")
	ms.On("SaveRawDescription", mock.Anything, "text").Return("", busy).Twice()
	ms.On("SaveRawDescription", mock.Anything, "text").Return("raw-1", nil).Once()

	id, err := WithRetry(ms, fastRetry()).SaveRawDescription(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, "raw-1", id)
	ms.AssertNumberOfCalls(t, "SaveRawDescription", 3)
}

func TestWithRetry_DoesNotRetryNotFound(t *testing.T) {
	ms := &mockStore{}
	rec := &model.PropertyRecord{DescriptionRawID: "nope"}
	ms.On("SavePropertyRecord", mock.Anything, rec).Return("", ErrNotFound)

	_, err := WithRetry(ms, fastRetry()).SavePropertyRecord(context.Background(), rec)
	assert.ErrorIs(t, err, ErrNotFound)
	ms.AssertNumberOfCalls(t, "SavePropertyRecord", 1)
}

func TestWithRetry_ReadsPassThrough(t *testing.T) {
	ms := &mockStore{}
	ms.On("GetPropertyRecord", mock.Anything, "rec-1").Return(nil, errors.New("database is locked")).Once()

	_, err := WithRetry(ms, fastRetry()).GetPropertyRecord(context.Background(), "rec-1")
	require.Error(t, err)
	ms.AssertNumberOfCalls(t, "GetPropertyRecord", 1)
}
