package e2e

import (
	"io"
	"log/slog"
	"net/http/httptest"

	"github.com/prometheus/client_golang/prometheus"

	authhandler "carehub/internal/auth/handler"
	authmetrics "carehub/internal/auth/metrics"
	"carehub/internal/auth/password"
	authservice "carehub/internal/auth/service"
	userstore "carehub/internal/auth/store/user"
	jwttoken "carehub/internal/jwt_token"
	medhandler "carehub/internal/medication/handler"
	medservice "carehub/internal/medication/service"
	medstore "carehub/internal/medication/store"
	"carehub/internal/platform/health"
	httptransport "carehub/internal/transport/http"
	"carehub/pkg/platform/middleware/auth"
)

const sessionCookie = "token"

// NewInProcessServer starts the full router over in-memory stores. bcrypt
// runs at its minimum cost to keep scenarios fast.
func NewInProcessServer() (*httptest.Server, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	am := authmetrics.New(reg)

	users := userstore.New()
	codec := jwttoken.NewCodec("e2e-secret", 0)
	authSvc, err := authservice.New(users, password.NewHasher(4), codec,
		authservice.WithLogger(logger),
		authservice.WithMetrics(am),
	)
	if err != nil {
		return nil, err
	}
	medSvc, err := medservice.New(medstore.New(users), medservice.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	h := health.New("e2e")
	h.RegisterCheck("store", users.Health)

	router := httptransport.NewRouter(httptransport.Routes{
		Auth:        authhandler.New(authSvc, logger, authhandler.CookieConfig{Name: sessionCookie}, false),
		Medications: medhandler.New(medSvc, logger),
		Gate:        auth.NewGate(codec, sessionCookie, logger, am),
		Health:      h,
		Gatherer:    reg,
	}, httptransport.Options{}, logger)

	return httptest.NewServer(router), nil
}
