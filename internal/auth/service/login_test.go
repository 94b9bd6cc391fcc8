package service

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/mock/gomock"

	"carehub/internal/auth/metrics"
	dErrors "carehub/pkg/domain-errors"
	"carehub/pkg/platform/sentinel"
	"carehub/pkg/requestcontext"
)

func (s *ServiceSuite) TestLogin_Success() {
	stored := s.storedUser()
	s.mockUsers.EXPECT().FindByEmail(gomock.Any(), stored.Email).Return(stored, nil)
	s.mockHasher.EXPECT().Verify("engine42", stored.PasswordHash).Return(true, nil)
	s.mockTokens.EXPECT().Issue(gomock.Any(), requestcontext.Identity{
		UserID:    stored.ID,
		Email:     stored.Email,
		FirstName: stored.FirstName,
	}).Return("signed.jwt.token", nil)

	user, token, err := s.service.Login(context.Background(), stored.Email, "engine42")

	s.Require().NoError(err)
	s.Equal("signed.jwt.token", token)
	s.Equal(stored.ID, user.ID)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Logins.WithLabelValues(metrics.LoginSuccess)))
}

func (s *ServiceSuite) TestLogin_NormalizesEmail() {
	stored := s.storedUser()
	s.mockUsers.EXPECT().FindByEmail(gomock.Any(), "ada@example.com").Return(stored, nil)
	s.mockHasher.EXPECT().Verify("engine42", stored.PasswordHash).Return(true, nil)
	s.mockTokens.EXPECT().Issue(gomock.Any(), gomock.Any()).Return("t", nil)

	_, _, err := s.service.Login(context.Background(), "  Ada@Example.COM ", "engine42")
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestLogin_UnknownEmail() {
	s.mockUsers.EXPECT().FindByEmail(gomock.Any(), "ghost@example.com").Return(nil, sentinel.ErrNotFound)

	user, token, err := s.service.Login(context.Background(), "ghost@example.com", "whatever")

	s.Nil(user)
	s.Empty(token)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	s.Equal(MsgNoUser, err.Error())
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Logins.WithLabelValues(metrics.LoginNotFound)))
}

func (s *ServiceSuite) TestLogin_PasswordMismatch() {
	stored := s.storedUser()
	s.mockUsers.EXPECT().FindByEmail(gomock.Any(), stored.Email).Return(stored, nil)
	s.mockHasher.EXPECT().Verify("wrong-password", stored.PasswordHash).Return(false, nil)

	user, token, err := s.service.Login(context.Background(), stored.Email, "wrong-password")

	s.Nil(user)
	s.Empty(token)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	s.Equal(MsgPasswordMismatch, err.Error())
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Logins.WithLabelValues(metrics.LoginMismatch)))
}

func (s *ServiceSuite) TestLogin_MalformedHashIsInternal() {
	stored := s.storedUser()
	s.mockUsers.EXPECT().FindByEmail(gomock.Any(), stored.Email).Return(stored, nil)
	s.mockHasher.EXPECT().Verify(gomock.Any(), stored.PasswordHash).
		Return(false, dErrors.New(dErrors.CodeHashing, "stored password hash is malformed"))

	_, _, err := s.service.Login(context.Background(), stored.Email, "engine42")

	s.True(dErrors.HasCode(err, dErrors.CodeHashing))
}

func (s *ServiceSuite) TestLogin_MissingSecretIsNotABusinessError() {
	stored := s.storedUser()
	s.mockUsers.EXPECT().FindByEmail(gomock.Any(), stored.Email).Return(stored, nil)
	s.mockHasher.EXPECT().Verify(gomock.Any(), gomock.Any()).Return(true, nil)
	s.mockTokens.EXPECT().Issue(gomock.Any(), gomock.Any()).
		Return("", dErrors.New(dErrors.CodeMisconfigured, "token signing secret is not configured"))

	_, token, err := s.service.Login(context.Background(), stored.Email, "engine42")

	s.Empty(token)
	s.True(dErrors.HasCode(err, dErrors.CodeMisconfigured))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Logins.WithLabelValues(metrics.LoginError)))
}

func (s *ServiceSuite) TestLogin_StoreFailureIsInternal() {
	s.mockUsers.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

	_, _, err := s.service.Login(context.Background(), "ada@example.com", "engine42")

	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}
