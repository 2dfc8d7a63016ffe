package strategy_test

import (
	"context"

	"github.com/stretchr/testify/mock"
	"golang.org/x/oauth2"

	mlhoauth "github.com/goliatone/go-mlhauth/oauth2"
	"github.com/goliatone/go-mlhauth/strategy"
)

// mockAccessToken is an internal mock implementation of oauth2.AccessToken
type mockAccessToken struct {
	mock.Mock
}

func (m *mockAccessToken) Get(ctx context.Context, url string) (*mlhoauth.Response, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mlhoauth.Response), args.Error(1)
}

// mockClient is an internal mock implementation of strategy.Client
type mockClient struct {
	mock.Mock
}

func (m *mockClient) AuthCodeURL(ctx context.Context, data strategy.State, _ ...oauth2.AuthCodeOption) (string, error) {
	args := m.Called(ctx, data)
	return args.String(0), args.Error(1)
}

func (m *mockClient) ValidateState(ctx context.Context, state string) (strategy.State, error) {
	args := m.Called(ctx, state)
	return args.Get(0).(strategy.State), args.Error(1)
}

func (m *mockClient) Exchange(ctx context.Context, code string, _ ...oauth2.AuthCodeOption) (*oauth2.Token, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth2.Token), args.Error(1)
}

func (m *mockClient) AccessToken(ctx context.Context, token *oauth2.Token) mlhoauth.AccessToken {
	args := m.Called(ctx, token)
	return args.Get(0).(mlhoauth.AccessToken)
}

func jsonResponse(body string) *mlhoauth.Response {
	return &mlhoauth.Response{StatusCode: 200, Body: []byte(body)}
}
