package auth

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	GET(path string, headers map[string]string) error
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
	HasCookie(name string) bool
}

const sessionCookie = "token"

// RegisterSteps registers authentication-related step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &authSteps{tc: tc}

	ctx.Step(`^I register "([^"]*)" with password "([^"]*)"$`, steps.register)
	ctx.Step(`^I register without a first name$`, steps.registerWithoutName)
	ctx.Step(`^a registered user "([^"]*)" with password "([^"]*)"$`, steps.registeredUser)
	ctx.Step(`^I log in as "([^"]*)" with password "([^"]*)"$`, steps.login)
	ctx.Step(`^I am logged in as "([^"]*)"$`, steps.loggedInAs)
	ctx.Step(`^I log out$`, steps.logout)
	ctx.Step(`^I should hold a session cookie$`, steps.shouldHoldCookie)
	ctx.Step(`^I should not hold a session cookie$`, steps.shouldNotHoldCookie)
}

type authSteps struct {
	tc TestContext
}

func registerBody(email, password string) map[string]any {
	return map[string]any{
		"firstName":   "Ada",
		"lastName":    "Lovelace",
		"email":       email,
		"idNumber":    "ID-" + email,
		"phoneNumber": "+27820000000",
		"address":     "1 Analytical Way",
		"password":    password,
	}
}

func (s *authSteps) register(ctx context.Context, email, password string) error {
	return s.tc.POST("/auth/register", registerBody(email, password))
}

func (s *authSteps) registerWithoutName(ctx context.Context) error {
	body := registerBody("noname@example.com", "engine42")
	body["firstName"] = ""
	return s.tc.POST("/auth/register", body)
}

func (s *authSteps) registeredUser(ctx context.Context, email, password string) error {
	if err := s.register(ctx, email, password); err != nil {
		return err
	}
	return s.expectSuccess("register")
}

func (s *authSteps) login(ctx context.Context, email, password string) error {
	return s.tc.POST("/auth/login", map[string]any{"email": email, "password": password})
}

func (s *authSteps) loggedInAs(ctx context.Context, email string) error {
	if err := s.registeredUser(ctx, email, "engine42"); err != nil {
		return err
	}
	if err := s.login(ctx, email, "engine42"); err != nil {
		return err
	}
	if err := s.expectSuccess("login"); err != nil {
		return err
	}
	return s.shouldHoldCookie(ctx)
}

func (s *authSteps) logout(ctx context.Context) error {
	return s.tc.POST("/auth/logout", nil)
}

func (s *authSteps) shouldHoldCookie(ctx context.Context) error {
	if !s.tc.HasCookie(sessionCookie) {
		return fmt.Errorf("expected a %q cookie", sessionCookie)
	}
	return nil
}

func (s *authSteps) shouldNotHoldCookie(ctx context.Context) error {
	if s.tc.HasCookie(sessionCookie) {
		return fmt.Errorf("expected no %q cookie", sessionCookie)
	}
	return nil
}

// expectSuccess fails on a non-200 status or a business error body.
func (s *authSteps) expectSuccess(op string) error {
	if status := s.tc.GetLastResponseStatus(); status != 200 {
		return fmt.Errorf("%s: expected status 200 but got %d", op, status)
	}
	body := string(s.tc.GetLastResponseBody())
	if len(body) > 0 && containsErrorField(body) {
		return fmt.Errorf("%s failed: %s", op, body)
	}
	return nil
}
