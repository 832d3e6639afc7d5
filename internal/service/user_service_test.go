package service

import (
	"context"
	"testing"
	"time"

	"github.com/haierkeys/ya-note-service/internal/dto"
	"github.com/haierkeys/ya-note-service/pkg/app"
	"github.com/haierkeys/ya-note-service/pkg/code"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserSvc(registerEnabled bool) (UserService, app.TokenManager) {
	tm := app.NewTokenManager(app.TokenConfig{SecretKey: "test", Expiry: time.Hour})
	cfg := &ServiceConfig{User: UserServiceConfig{RegisterIsEnable: registerEnabled}}
	return NewUserService(&memUserRepo{}, tm, nil, cfg), tm
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, tm := newUserSvc(true)

	user, err := svc.Register(ctx, &dto.UserCreateRequest{Username: "author", Password: "secret1", ConfirmPassword: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "author", user.Username)
	assert.Empty(t, user.Token)

	logged, err := svc.Login(ctx, &dto.UserLoginRequest{Username: "author", Password: "secret1"}, "127.0.0.1")
	require.NoError(t, err)
	require.NotEmpty(t, logged.Token)

	claims, err := tm.Parse(logged.Token)
	require.NoError(t, err)
	assert.Equal(t, user.UID, claims.UID)
	assert.Equal(t, "author", claims.Nickname)

	info, err := svc.GetInfo(ctx, user.UID)
	require.NoError(t, err)
	assert.Equal(t, "author", info.Username)
}

func TestUserService_RegisterErrors(t *testing.T) {
	ctx := context.Background()

	disabled, _ := newUserSvc(false)
	_, err := disabled.Register(ctx, &dto.UserCreateRequest{Username: "author", Password: "secret1", ConfirmPassword: "secret1"})
	assert.ErrorIs(t, err, code.ErrorUserRegisterIsDisable)

	svc, _ := newUserSvc(true)
	tests := []struct {
		name    string
		params  dto.UserCreateRequest
		wantErr *code.Code
	}{
		{"bad username", dto.UserCreateRequest{Username: "a b", Password: "secret1", ConfirmPassword: "secret1"}, code.ErrorUserUsernameNotValid},
		{"password mismatch", dto.UserCreateRequest{Username: "author", Password: "secret1", ConfirmPassword: "secret2"}, code.ErrorUserPasswordNotMatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, &tt.params)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err = svc.Register(ctx, &dto.UserCreateRequest{Username: "author", Password: "secret1", ConfirmPassword: "secret1"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, &dto.UserCreateRequest{Username: "author", Password: "secret1", ConfirmPassword: "secret1"})
	assert.ErrorIs(t, err, code.ErrorUserAlreadyExists)
}

func TestUserService_LoginFailures(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserSvc(true)
	_, err := svc.Register(ctx, &dto.UserCreateRequest{Username: "author", Password: "secret1", ConfirmPassword: "secret1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &dto.UserLoginRequest{Username: "author", Password: "wrong"}, "")
	assert.ErrorIs(t, err, code.ErrorUserLoginPasswordFailed)

	_, err = svc.Login(ctx, &dto.UserLoginRequest{Username: "nobody", Password: "secret1"}, "")
	assert.ErrorIs(t, err, code.ErrorUserLoginPasswordFailed)

	_, err = svc.GetInfo(ctx, 404)
	assert.ErrorIs(t, err, code.ErrorUserNotFound)
}
