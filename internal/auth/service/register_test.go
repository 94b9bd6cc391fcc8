package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"carehub/internal/auth/models"
	dErrors "carehub/pkg/domain-errors"
	"carehub/pkg/platform/sentinel"
	"carehub/pkg/requestcontext"
)

func (s *ServiceSuite) TestRegister_ValidationOrder() {
	tests := []struct {
		name    string
		mutate  func(r *models.RegisterRequest)
		wantMsg string
	}{
		{"missing first name", func(r *models.RegisterRequest) { r.FirstName = "" }, MsgFullNameRequired},
		{"missing last name", func(r *models.RegisterRequest) { r.LastName = "" }, MsgFullNameRequired},
		{"name checked before other fields", func(r *models.RegisterRequest) {
			r.FirstName = ""
			r.Email = ""
			r.Password = ""
		}, MsgFullNameRequired},
		{"missing email", func(r *models.RegisterRequest) { r.Email = "" }, MsgFieldsRequired},
		{"missing id number", func(r *models.RegisterRequest) { r.IDNumber = "" }, MsgFieldsRequired},
		{"missing phone number", func(r *models.RegisterRequest) { r.PhoneNumber = "" }, MsgFieldsRequired},
		{"missing address", func(r *models.RegisterRequest) { r.Address = "" }, MsgFieldsRequired},
		{"fields checked before password", func(r *models.RegisterRequest) {
			r.Address = ""
			r.Password = "x"
		}, MsgFieldsRequired},
		{"missing password", func(r *models.RegisterRequest) { r.Password = "" }, MsgPasswordTooShort},
		{"five character password", func(r *models.RegisterRequest) { r.Password = "abcde" }, MsgPasswordTooShort},
		{"four multibyte characters", func(r *models.RegisterRequest) { r.Password = "密码密码" }, MsgPasswordTooShort},
		{"blank names after trimming", func(r *models.RegisterRequest) { r.FirstName = "   " }, MsgFullNameRequired},
		{"password longer than bcrypt accepts", func(r *models.RegisterRequest) {
			r.Password = strings.Repeat("p", 73)
		}, "password exceeds max length of 72"},
		{"oversized address", func(r *models.RegisterRequest) {
			r.Address = strings.Repeat("a", 501)
		}, "address exceeds max length of 500"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			req := validRegisterRequest()
			tt.mutate(req)

			user, err := s.service.Register(context.Background(), req)

			s.Nil(user)
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, dErrors.CodeValidation))
			s.Equal(tt.wantMsg, err.Error())
		})
	}
	s.Equal(float64(len(tests)), testutil.ToFloat64(s.metrics.RegisterRejections.WithLabelValues("validation_failed")))
}

func (s *ServiceSuite) TestRegister_SixCharacterPasswordAccepted() {
	req := validRegisterRequest()
	req.Password = "abcdef"

	s.mockUsers.EXPECT().FindByEmail(gomock.Any(), req.Email).Return(nil, sentinel.ErrNotFound)
	s.mockHasher.EXPECT().Hash("abcdef").Return("$2a$12$hash", nil)
	s.mockUsers.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	user, err := s.service.Register(context.Background(), req)
	s.Require().NoError(err)
	s.NotNil(user)
}

func (s *ServiceSuite) TestRegister_SixMultibyteCharactersAccepted() {
	req := validRegisterRequest()
	req.Password = "пароль"

	s.mockUsers.EXPECT().FindByEmail(gomock.Any(), req.Email).Return(nil, sentinel.ErrNotFound)
	s.mockHasher.EXPECT().Hash("пароль").Return("$2a$12$hash", nil)
	s.mockUsers.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	_, err := s.service.Register(context.Background(), req)
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestRegister_NormalizesEmailWithoutMutatingInput() {
	req := validRegisterRequest()
	req.Email = "  Ada@Example.COM "

	s.mockUsers.EXPECT().FindByEmail(gomock.Any(), "ada@example.com").Return(nil, sentinel.ErrNotFound)
	s.mockHasher.EXPECT().Hash(req.Password).Return("$2a$12$hash", nil)
	s.mockUsers.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	user, err := s.service.Register(context.Background(), req)
	s.Require().NoError(err)
	s.Equal("ada@example.com", user.Email)
	s.Equal("  Ada@Example.COM ", req.Email)
}

func (s *ServiceSuite) TestRegister_NilRequest() {
	user, err := s.service.Register(context.Background(), nil)
	s.Nil(user)
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func (s *ServiceSuite) TestRegister_EmailTaken() {
	req := validRegisterRequest()
	s.mockUsers.EXPECT().FindByEmail(gomock.Any(), req.Email).Return(s.storedUser(), nil)

	user, err := s.service.Register(context.Background(), req)

	s.Nil(user)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	s.Equal(MsgEmailTaken, err.Error())
	s.Equal(1.0, testutil.ToFloat64(s.metrics.RegisterRejections.WithLabelValues("conflict")))
}

func (s *ServiceSuite) TestRegister_StoresHashNotPlaintext() {
	req := validRegisterRequest()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)

	var created *models.User
	gomock.InOrder(
		s.mockUsers.EXPECT().FindByEmail(gomock.Any(), req.Email).Return(nil, fmt.Errorf("user not found: %w", sentinel.ErrNotFound)),
		s.mockHasher.EXPECT().Hash(req.Password).Return("$2a$12$hashedvalue", nil),
		s.mockUsers.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *models.User) error {
			created = u
			return nil
		}),
	)

	user, err := s.service.Register(ctx, req)
	s.Require().NoError(err)

	s.Same(created, user)
	s.False(user.ID.IsNil())
	s.Equal("$2a$12$hashedvalue", user.PasswordHash)
	s.NotEqual(req.Password, user.PasswordHash)
	s.Equal(req.Email, user.Email)
	s.Equal(req.IDNumber, user.IDNumber)
	s.Equal(now, user.CreatedAt)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.UsersRegistered))
}

func (s *ServiceSuite) TestRegister_StoreConflictIsNotACrash() {
	req := validRegisterRequest()
	s.mockUsers.EXPECT().FindByEmail(gomock.Any(), req.Email).Return(nil, sentinel.ErrNotFound)
	s.mockHasher.EXPECT().Hash(req.Password).Return("$2a$12$hash", nil)
	s.mockUsers.EXPECT().Create(gomock.Any(), gomock.Any()).Return(fmt.Errorf("user already exists: %w", sentinel.ErrConflict))

	user, err := s.service.Register(context.Background(), req)

	s.Nil(user)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	s.Equal(MsgUserAlreadyExists, err.Error())
}

func (s *ServiceSuite) TestRegister_LookupFailureIsInternal() {
	req := validRegisterRequest()
	s.mockUsers.EXPECT().FindByEmail(gomock.Any(), req.Email).Return(nil, errors.New("connection refused"))

	_, err := s.service.Register(context.Background(), req)

	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	s.ErrorContains(err, "failed to look up user")
}

func (s *ServiceSuite) TestRegister_HashFailureIsNotABusinessError() {
	req := validRegisterRequest()
	s.mockUsers.EXPECT().FindByEmail(gomock.Any(), req.Email).Return(nil, sentinel.ErrNotFound)
	s.mockHasher.EXPECT().Hash(req.Password).Return("", dErrors.New(dErrors.CodeHashing, "could not hash password"))

	_, err := s.service.Register(context.Background(), req)

	s.True(dErrors.HasCode(err, dErrors.CodeHashing))
}

func (s *ServiceSuite) TestRegister_CreateFailureIsInternal() {
	req := validRegisterRequest()
	s.mockUsers.EXPECT().FindByEmail(gomock.Any(), req.Email).Return(nil, sentinel.ErrNotFound)
	s.mockHasher.EXPECT().Hash(req.Password).Return("$2a$12$hash", nil)
	s.mockUsers.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	_, err := s.service.Register(context.Background(), req)

	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	assert.NotContains(s.T(), err.Error(), req.Password)
}

func (s *ServiceSuite) TestRegister_DoesNotTouchStoreOnValidationFailure() {
	req := validRegisterRequest()
	req.Password = "123"

	// No expectations: any store or hasher call fails the test.
	_, err := s.service.Register(context.Background(), req)
	require.Error(s.T(), err)
}
