package service

import (
	"context"
	"errors"

	"carehub/internal/auth/metrics"
	"carehub/internal/auth/models"
	"carehub/internal/platform/tracer"
	dErrors "carehub/pkg/domain-errors"
	"carehub/pkg/platform/privacy"
	"carehub/pkg/platform/sentinel"
)

// Messages returned to clients by Login.
const (
	MsgNoUser           = "No user found"
	MsgPasswordMismatch = "Passwords do not match"
)

// Login checks the credentials and issues a session token for
// {id, email, firstName}. Unknown emails and wrong passwords are business
// failures; hashing and signing failures are internal.
func (s *Service) Login(ctx context.Context, email, password string) (user *models.User, token string, err error) {
	email = models.NormalizeEmail(email)
	ctx, span := s.tracer.Start(ctx, tracer.SpanAuthLogin,
		tracer.String(tracer.AttrEmailDomain, privacy.EmailDomain(email)),
	)
	defer func() { span.End(err) }()

	user, err = s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.logFailure(ctx, "user_not_found", false, email)
			s.incrementLogin(metrics.LoginNotFound)
			return nil, "", dErrors.New(dErrors.CodeNotFound, MsgNoUser)
		}
		s.logFailure(ctx, "user_lookup_failed", true, email, "error", err)
		s.incrementLogin(metrics.LoginError)
		return nil, "", internalError(err, "failed to look up user")
	}

	ok, err := s.verify(ctx, password, user.PasswordHash)
	if err != nil {
		s.logFailure(ctx, "password_verify_failed", true, email, "user_id", user.ID.String(), "error", err)
		s.incrementLogin(metrics.LoginError)
		return nil, "", err
	}
	if !ok {
		s.logFailure(ctx, "password_mismatch", false, email, "user_id", user.ID.String())
		s.incrementLogin(metrics.LoginMismatch)
		return nil, "", dErrors.New(dErrors.CodeUnauthorized, MsgPasswordMismatch)
	}

	token, err = s.tokens.Issue(ctx, user.Claim())
	if err != nil {
		s.logFailure(ctx, "token_issue_failed", true, email, "user_id", user.ID.String(), "error", err)
		s.incrementLogin(metrics.LoginError)
		return nil, "", internalError(err, "failed to issue session token")
	}

	span.AddEvent(tracer.EventTokenIssued, tracer.String(tracer.AttrUserID, user.ID.String()))
	s.logInfo(ctx, "user_logged_in", "user_id", user.ID.String())
	s.incrementLogin(metrics.LoginSuccess)
	return user, token, nil
}
