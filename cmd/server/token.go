package main

import (
	"encoding/json"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	jwttoken "carehub/internal/jwt_token"
	"carehub/internal/platform/config"
	id "carehub/pkg/domain"
	"carehub/pkg/requestcontext"
)

type tokenOutput struct {
	Token     string            `json:"token"`
	ExpiresIn string            `json:"expires_in"`
	Claims    map[string]string `json:"claims"`
	Usage     map[string]string `json:"usage"`
}

// NewTokenCmd creates the token subcommand, which signs a session token with
// JWT_SECRET for manual API testing.
func NewTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a session token for local testing",
		RunE:  runToken,
	}
	cmd.Flags().String("user-id", "", "user ID (UUID). Generated if empty.")
	cmd.Flags().String("email", "dev@example.com", "email claim")
	cmd.Flags().String("first-name", "Dev", "firstName claim")
	cmd.Flags().Duration("ttl", 0, "token lifetime (overrides TOKEN_TTL; 0 means no expiry)")
	return cmd
}

func runToken(cmd *cobra.Command, _ []string) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if cfg.JWTSecret == "" {
		return oops.Code("CONFIG_INVALID").Errorf("JWT_SECRET environment variable is required")
	}

	userID := id.NewUserID()
	if raw, _ := cmd.Flags().GetString("user-id"); raw != "" {
		if userID, err = id.ParseUserID(raw); err != nil {
			return oops.Code("INVALID_ARGUMENT").Wrap(err)
		}
	}
	email, _ := cmd.Flags().GetString("email")
	firstName, _ := cmd.Flags().GetString("first-name")
	ttl := cfg.TokenTTL
	if cmd.Flags().Changed("ttl") {
		ttl, _ = cmd.Flags().GetDuration("ttl")
	}

	claim := requestcontext.Identity{UserID: userID, Email: email, FirstName: firstName}
	token, err := jwttoken.NewCodec(cfg.JWTSecret, ttl).Issue(cmd.Context(), claim)
	if err != nil {
		return err
	}

	expires := "never"
	if ttl > 0 {
		expires = ttl.Round(time.Second).String()
	}
	out := tokenOutput{
		Token:     token,
		ExpiresIn: expires,
		Claims: map[string]string{
			"id":        userID.String(),
			"email":     email,
			"firstName": firstName,
		},
		Usage: map[string]string{
			"cookie": cfg.CookieName + "=" + token,
			"header": "Authorization: Bearer " + token,
		},
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
