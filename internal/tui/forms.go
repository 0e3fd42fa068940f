package tui

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/kickabout/kickabout-cli/internal/api"
)

// LoginInput collects login credentials
type LoginInput struct {
	Identifier string
	Password   string
}

// RunLoginForm prompts for login credentials
func RunLoginForm(in *LoginInput) error {
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Username or email").
			Value(&in.Identifier).
			Validate(huh.ValidateNotEmpty()),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&in.Password).
			Validate(huh.ValidateNotEmpty()),
	))

	if err := form.Run(); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}

	return nil
}

// RegisterInput collects registration fields
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// RunRegisterForm prompts for registration fields
func RunRegisterForm(in *RegisterInput) error {
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Username").
			Value(&in.Username).
			Validate(huh.ValidateNotEmpty()),
		huh.NewInput().
			Title("Email").
			Value(&in.Email).
			Validate(huh.ValidateNotEmpty()),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&in.Password).
			Validate(huh.ValidateNotEmpty()),
	))

	if err := form.Run(); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}

	return nil
}

// weatherOptions mirrors the choices the event screens offered
var weatherOptions = []string{"sunny", "cloudy", "rainy", "snowy"}

// RunEventForm prompts for an event payload, prefilled from current.
// The date is entered as RFC 3339 and forwarded as the backend's
// dateString field.
func RunEventForm(current api.EventPayload) (api.EventPayload, error) {
	payload := current
	fees := ""
	if payload.Fees > 0 {
		fees = strconv.FormatFloat(payload.Fees, 'f', -1, 64)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Event type").
				Placeholder("football").
				Value(&payload.EventType).
				Validate(huh.ValidateNotEmpty()),
			huh.NewInput().
				Title("Date (e.g. 2026-09-12T15:00:00Z)").
				Value(&payload.DateString).
				Validate(validateDate),
			huh.NewInput().
				Title("Address").
				Value(&payload.Address).
				Validate(huh.ValidateNotEmpty()),
			huh.NewInput().
				Title("Fees").
				Placeholder("0").
				Value(&fees).
				Validate(validateFees),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Expected weather").
				Options(huh.NewOptions(weatherOptions...)...).
				Value(&payload.Weather),
			huh.NewConfirm().
				Title("Indoor event?").
				Value(&payload.Indoor),
			huh.NewConfirm().
				Title("Public event?").
				Value(&payload.Public),
		),
	)

	if err := form.Run(); err != nil {
		return payload, fmt.Errorf("prompt failed: %w", err)
	}

	if fees != "" {
		payload.Fees, _ = strconv.ParseFloat(fees, 64)
	}

	return payload, nil
}

func validateDate(s string) error {
	if s == "" {
		return fmt.Errorf("date is required")
	}
	if _, err := time.Parse(time.RFC3339, s); err != nil {
		return fmt.Errorf("use RFC 3339, e.g. 2026-09-12T15:00:00Z")
	}
	return nil
}

func validateFees(s string) error {
	if s == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return fmt.Errorf("fees must be a number")
	}
	return nil
}

// IsInteractive returns true if stdin is a terminal (not piped)
func IsInteractive() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
