// Package auth implements the access gate in front of the tracker commands.
package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/alem-hub/score-tracker/internal/domain/shared"
	"github.com/alem-hub/score-tracker/internal/infrastructure/persistence"
	"github.com/alem-hub/score-tracker/pkg/logger"
)

var (
	// ErrWrongPassword is returned by Login.
	ErrWrongPassword = shared.NewDomainError("auth", "Login", shared.ErrUnauthorized, "Wrong password!")

	// ErrInvalidRecoveryWord is returned by Recover.
	ErrInvalidRecoveryWord = shared.NewDomainError("auth", "Recover", shared.ErrUnauthorized, "Invalid recovery word!")

	// ErrNotLoggedIn is returned by Require when the gate is closed.
	ErrNotLoggedIn = shared.NewDomainError("auth", "Require", shared.ErrUnauthorized, "Please log in first.")
)

// FlagStore persists the authenticated flag.
type FlagStore interface {
	LoadAuth(ctx context.Context) (bool, persistence.Outcome)
	SaveAuth(ctx context.Context, authenticated bool) persistence.Outcome
}

// Config holds the gate secrets in plain text. They are hashed by NewGate.
type Config struct {
	Password     string
	RecoveryWord string

	// Hint is shown after a successful recovery. Empty means the password.
	Hint string

	// Cost is the bcrypt cost; zero means bcrypt.DefaultCost.
	Cost int
}

// Gate checks the password and keeps the authenticated flag in a FlagStore.
type Gate struct {
	passwordHash []byte
	recoveryHash []byte
	hint         string
	store        FlagStore
	log          *logger.Logger
}

// NewGate hashes the configured secrets.
func NewGate(cfg Config, store FlagStore, log *logger.Logger) (*Gate, error) {
	if cfg.Password == "" || cfg.RecoveryWord == "" {
		return nil, errors.New("auth: password and recovery word are required")
	}
	if cfg.Cost == 0 {
		cfg.Cost = bcrypt.DefaultCost
	}
	if log == nil {
		log = logger.Nop()
	}

	pw, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), cfg.Cost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}
	rw, err := bcrypt.GenerateFromPassword([]byte(cfg.RecoveryWord), cfg.Cost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash recovery word: %w", err)
	}

	hint := cfg.Hint
	if hint == "" {
		hint = cfg.Password
	}

	return &Gate{
		passwordHash: pw,
		recoveryHash: rw,
		hint:         hint,
		store:        store,
		log:          log.With(logger.Component("auth")),
	}, nil
}

// Login opens the gate when password matches. The returned outcome reports
// whether the flag was saved; a failed save does not fail the login.
func (g *Gate) Login(ctx context.Context, password string) (persistence.Outcome, error) {
	if bcrypt.CompareHashAndPassword(g.passwordHash, []byte(password)) != nil {
		g.log.Info("login rejected")
		return persistence.Outcome{}, ErrWrongPassword
	}
	out := g.store.SaveAuth(ctx, true)
	g.log.Info("login accepted", logger.Any("saved", out.OK()))
	return out, nil
}

// Logout closes the gate.
func (g *Gate) Logout(ctx context.Context) persistence.Outcome {
	out := g.store.SaveAuth(ctx, false)
	g.log.Info("logged out", logger.Any("saved", out.OK()))
	return out
}

// Recover returns the hint when word is the recovery word.
func (g *Gate) Recover(word string) (string, error) {
	if bcrypt.CompareHashAndPassword(g.recoveryHash, []byte(word)) != nil {
		return "", ErrInvalidRecoveryWord
	}
	return g.hint, nil
}

// Authenticated reports whether the gate is open. An unreadable flag counts
// as closed.
func (g *Gate) Authenticated(ctx context.Context) bool {
	flag, _ := g.store.LoadAuth(ctx)
	return flag
}

// Require returns ErrNotLoggedIn unless the gate is open.
func (g *Gate) Require(ctx context.Context) error {
	if !g.Authenticated(ctx) {
		return ErrNotLoggedIn
	}
	return nil
}
