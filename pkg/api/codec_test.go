package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuth struct{}

func (stubAuth) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error) {
	return connect.NewResponse(&RegisterResponse{
		User:  &User{ID: "u1", Email: req.Msg.Email, DisplayName: req.Msg.DisplayName},
		Token: "t",
	}), nil
}

func (stubAuth) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	return nil, connect.NewError(connect.CodeUnauthenticated, nil)
}

func (stubAuth) GetCurrentUser(ctx context.Context, req *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error) {
	return connect.NewResponse(&GetCurrentUserResponse{User: &User{ID: "u1"}}), nil
}

func newStubServer(t *testing.T) *httptest.Server {
	t.Helper()
	path, handler := NewAuthServiceHandler(stubAuth{})
	assert.Equal(t, "/tripsplit.v1.AuthService/", path)

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestClientRoundTrip(t *testing.T) {
	server := newStubServer(t)
	client := NewAuthServiceClient(http.DefaultClient, server.URL)

	resp, err := client.Register(context.Background(), connect.NewRequest(&RegisterRequest{Email: "a@example.com", DisplayName: "A"}))
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", resp.Msg.User.Email)

	_, err = client.Login(context.Background(), connect.NewRequest(&LoginRequest{}))
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
}

// Browsers speak the Connect protocol as plain JSON POSTs.
func TestPlainJSONPost(t *testing.T) {
	server := newStubServer(t)

	body := strings.NewReader(`{"email":"b@example.com","displayName":"B","password":"x"}`)
	resp, err := http.Post(server.URL+AuthServiceRegisterProcedure, "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	resp, err = http.Post(server.URL+"/tripsplit.v1.AuthService/Nope", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestJSONCodec(t *testing.T) {
	var c jsonCodec
	assert.Equal(t, "json", c.Name())

	var msg GetTripRequest
	assert.NoError(t, c.Unmarshal(nil, &msg))

	var bad LoginRequest
	assert.Error(t, c.Unmarshal([]byte(`{"email": 1}`), &bad))
}
