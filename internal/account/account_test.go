package account

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/promptquest/internal/backend"
	"github.com/abhisek/promptquest/internal/backend/backendtest"
)

func TestValidateSignup(t *testing.T) {
	ok := Signup{Username: "ada", Email: "ada@example.com", Password: "secret"}

	tests := []struct {
		name  string
		mod   func(*Signup)
		field string
	}{
		{"valid", func(*Signup) {}, ""},
		{"missing username", func(f *Signup) { f.Username = "  " }, "username"},
		{"missing email", func(f *Signup) { f.Email = "" }, "email"},
		{"bad email", func(f *Signup) { f.Email = "ada" }, "email"},
		{"missing password", func(f *Signup) { f.Password = "" }, "password"},
		{"five chars", func(f *Signup) { f.Password = "12345" }, "password"},
		{"six chars", func(f *Signup) { f.Password = "123456" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ok
			tt.mod(&f)
			err := ValidateSignup(f)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestSignUp_ShortPasswordMakesNoBackendCall(t *testing.T) {
	fake := backendtest.New()
	svc := NewService(fake, nil)

	_, err := svc.SignUp(context.Background(), Signup{Username: "ada", Email: "ada@example.com", Password: "12345"})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Empty(t, fake.Calls())
}

func TestSignUp_SendsUsernameAttribute(t *testing.T) {
	fake := backendtest.New()
	svc := NewService(fake, nil)

	p, err := svc.SignUp(context.Background(), Signup{Username: " ada ", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "ada", p.Username())
	assert.Equal(t, "ada", DisplayName(p))
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	fake := backendtest.New()
	svc := NewService(fake, nil)
	f := Signup{Username: "ada", Email: "ada@example.com", Password: "secret1"}

	_, err := svc.SignUp(context.Background(), f)
	require.NoError(t, err)
	_, err = svc.SignUp(context.Background(), f)
	assert.ErrorIs(t, err, backend.ErrUserExists)
}

func TestSignInAndOut(t *testing.T) {
	fake := backendtest.New()
	fake.AddAccount(backend.Principal{ID: "u1", Email: "ada@example.com"}, "secret1")
	svc := NewService(fake, nil)
	ctx := context.Background()

	_, err := svc.SignIn(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, backend.ErrInvalidCredentials)

	p, err := svc.SignIn(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "u1", p.ID)

	cur, _ := fake.CurrentUser(ctx)
	require.NotNil(t, cur)

	require.NoError(t, svc.SignOut(ctx))
	cur, _ = fake.CurrentUser(ctx)
	assert.Nil(t, cur)
}

func TestSignIn_EmptyPasswordRejectedLocally(t *testing.T) {
	fake := backendtest.New()
	_, err := NewService(fake, nil).SignIn(context.Background(), "ada@example.com", "")
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Zero(t, fake.CallCount("SignIn"))
}

func TestDisplayNameFallback(t *testing.T) {
	assert.Equal(t, "champion", DisplayName(&backend.Principal{ID: "u1"}))
}
