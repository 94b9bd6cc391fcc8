package service

import (
	"context"
	"errors"
	"unicode/utf8"

	"carehub/internal/auth/models"
	"carehub/internal/platform/tracer"
	id "carehub/pkg/domain"
	dErrors "carehub/pkg/domain-errors"
	"carehub/pkg/platform/privacy"
	"carehub/pkg/platform/sentinel"
	"carehub/pkg/requestcontext"
	"carehub/pkg/validation"
)

// Messages returned to clients by Register.
const (
	MsgFullNameRequired  = "Full name is required"
	MsgFieldsRequired    = "Please enter all required fields"
	MsgPasswordTooShort  = "Password is required and must be atleast 6 characters long"
	MsgEmailTaken        = "Email is taken already"
	MsgUserAlreadyExists = "A user with this email or ID number already exists"
)

// Register validates req, hashes the password and stores a new user. The
// returned user carries the hash; hiding it is up to the caller.
//
// req is normalized on a copy first, so Register and Login agree on the
// canonical email whoever the caller is.
//
// Checks run in a fixed order and the first failure wins:
//  1. first and last name
//  2. email, id number, phone number and address
//  3. password length
//  4. email not already registered
func (s *Service) Register(ctx context.Context, in *models.RegisterRequest) (user *models.User, err error) {
	if in == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "register request is required")
	}
	req := *in
	req.Normalize()

	ctx, span := s.tracer.Start(ctx, tracer.SpanAuthRegister,
		tracer.String(tracer.AttrEmailDomain, privacy.EmailDomain(req.Email)),
	)
	defer func() { span.End(err) }()

	if err := validateRegistration(&req); err != nil {
		s.registerRejected(ctx, "validation_failed", err, req.Email)
		return nil, err
	}

	_, err = s.users.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		span.AddEvent(tracer.EventEmailTaken)
		err = dErrors.New(dErrors.CodeConflict, MsgEmailTaken)
		s.registerRejected(ctx, "email_taken", err, req.Email)
		return nil, err
	case errors.Is(err, sentinel.ErrNotFound):
	default:
		s.logFailure(ctx, "user_lookup_failed", true, req.Email, "error", err)
		return nil, internalError(err, "failed to look up user")
	}

	hashed, err := s.hash(ctx, req.Password)
	if err != nil {
		s.logFailure(ctx, "password_hash_failed", true, req.Email, "error", err)
		return nil, err
	}

	user = &models.User{
		ID:           id.NewUserID(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		IDNumber:     req.IDNumber,
		PhoneNumber:  req.PhoneNumber,
		Address:      req.Address,
		PasswordHash: hashed,
		CreatedAt:    requestcontext.Now(ctx).UTC(),
	}

	if err = s.users.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			err = dErrors.Wrap(err, dErrors.CodeConflict, MsgUserAlreadyExists)
			s.registerRejected(ctx, "user_exists", err, req.Email)
			return nil, err
		}
		s.logFailure(ctx, "user_create_failed", true, req.Email, "error", err)
		return nil, internalError(err, "failed to create user")
	}

	span.AddEvent(tracer.EventUserCreated, tracer.String(tracer.AttrUserID, user.ID.String()))
	s.logInfo(ctx, "user_registered", "user_id", user.ID.String())
	s.incrementUserRegistered()
	return user, nil
}

func validateRegistration(req *models.RegisterRequest) error {
	if req.FirstName == "" || req.LastName == "" {
		return dErrors.New(dErrors.CodeValidation, MsgFullNameRequired)
	}
	if req.Email == "" || req.IDNumber == "" || req.PhoneNumber == "" || req.Address == "" {
		return dErrors.New(dErrors.CodeValidation, MsgFieldsRequired)
	}
	if utf8.RuneCountInString(req.Password) < models.MinPasswordLength {
		return dErrors.New(dErrors.CodeValidation, MsgPasswordTooShort)
	}
	return checkLengths(req)
}

// checkLengths bounds every field, in bytes, to what the stores accept. bcrypt
// ignores bytes past 72, so longer passwords are refused rather than truncated.
func checkLengths(req *models.RegisterRequest) error {
	checks := []struct {
		field string
		value string
		max   int
	}{
		{"firstName", req.FirstName, validation.MaxNameLength},
		{"lastName", req.LastName, validation.MaxNameLength},
		{"email", req.Email, validation.MaxEmailLength},
		{"idNumber", req.IDNumber, validation.MaxIDNumberLength},
		{"phoneNumber", req.PhoneNumber, validation.MaxPhoneLength},
		{"address", req.Address, validation.MaxAddressLength},
		{"password", req.Password, validation.MaxPasswordLength},
	}
	for _, c := range checks {
		if err := validation.CheckStringLength(c.field, c.value, c.max); err != nil {
			return err
		}
	}
	return nil
}
