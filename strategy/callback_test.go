package strategy_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-mlhauth/strategy"
)

func newFetcher(t *testing.T, mutate func(*strategy.Options)) *strategy.Fetcher {
	t.Helper()
	opts := strategy.DefaultOptions()
	if mutate != nil {
		mutate(&opts)
	}
	f, err := strategy.NewFetcher(opts, nil)
	require.NoError(t, err)
	return f
}

func TestCallbackMemoizesFetch(t *testing.T) {
	token := &mockAccessToken{}
	token.On("Get", mock.Anything, meURL).
		Return(jsonResponse(`{"data":{"id":"test-123","email":"jane@example.com"}}`), nil).Once()

	cb := strategy.NewCallback(context.Background(), newFetcher(t, nil), token)

	for i := 0; i < 5; i++ {
		require.NotNil(t, cb.UID())
		assert.Equal(t, "test-123", *cb.UID())
		assert.Equal(t, "jane@example.com", cb.Info()["email"])
		assert.Equal(t, "test-123", cb.Extra().RawInfo["id"])
		assert.NoError(t, cb.Err())
	}

	token.AssertNumberOfCalls(t, "Get", 1)
}

func TestCallbackMemoizesFailure(t *testing.T) {
	token := &mockAccessToken{}
	token.On("Get", mock.Anything, meURL).Return(nil, errors.New("timeout")).Once()

	cb := strategy.NewCallback(context.Background(), newFetcher(t, nil), token)

	assert.Nil(t, cb.UID())
	assert.Empty(t, cb.Info())
	assert.Empty(t, cb.RawInfo())
	assert.ErrorIs(t, cb.Err(), strategy.ErrProfileFetch)

	token.AssertNumberOfCalls(t, "Get", 1)
}

func TestCallbacksAreIndependent(t *testing.T) {
	fetcher := newFetcher(t, nil)

	first := &mockAccessToken{}
	first.On("Get", mock.Anything, meURL).Return(jsonResponse(`{"data":{"id":"a"}}`), nil).Once()
	second := &mockAccessToken{}
	second.On("Get", mock.Anything, meURL).Return(jsonResponse(`{"data":{"id":"b"}}`), nil).Once()

	a := strategy.NewCallback(context.Background(), fetcher, first)
	b := strategy.NewCallback(context.Background(), fetcher, second)

	assert.Equal(t, "a", a.Identity().UIDString())
	assert.Equal(t, "b", b.Identity().UIDString())
	first.AssertExpectations(t)
	second.AssertExpectations(t)
}

func TestCallbackComplexPayload(t *testing.T) {
	body := `{
		"data": {
			"id": "test-id",
			"first_name": "Jane",
			"last_name": null,
			"education": [
				{"school": {"name": "Test University", "location": "Test City"}, "graduation_year": 2024}
			],
			"social_profiles": [
				{"platform": "github", "url": "https://github.com"},
				"https://twitter.com"
			],
			"professional_experience": [
				{"company": "Tech Corp", "positions": [{"title": "Engineer", "years": [2022, 2023]}]}
			]
		}
	}`

	token := &mockAccessToken{}
	token.On("Get", mock.Anything, meURL).Return(jsonResponse(body), nil)

	cb := strategy.NewCallback(context.Background(), newFetcher(t, nil), token)

	info := cb.Info()
	assert.NotContains(t, info, "last_name")
	education := info["education"].([]any)
	assert.Equal(t, map[string]any{"name": "Test University", "location": "Test City"},
		education[0].(map[string]any)["school"])
	assert.Equal(t, []any{
		map[string]any{"platform": "github", "url": "https://github.com"},
		"https://twitter.com",
	}, info["social_profiles"])

	raw := cb.RawInfo()
	positions := raw["professional_experience"].([]any)[0].(map[string]any)["positions"].([]any)
	assert.Equal(t, []any{json.Number("2022"), json.Number("2023")}, positions[0].(map[string]any)["years"])
}

func TestCallbackExtraFieldsSubset(t *testing.T) {
	token := &mockAccessToken{}
	token.On("Get", mock.Anything, meURL).
		Return(jsonResponse(`{"data":{"id":"x","profile":{"age":22},"secret":"s"}}`), nil)

	fetcher := newFetcher(t, func(o *strategy.Options) {
		o.ExtraFields = []string{"profile", "identifiers"}
	})
	cb := strategy.NewCallback(context.Background(), fetcher, token)

	assert.Equal(t, map[string]any{"profile": map[string]any{"age": json.Number("22")}}, cb.RawInfo())
}
