// Package guard decides whether a navigation may proceed given the session
// and wizard state. Decisions are pure functions of their inputs.
package guard

import (
	"strings"

	"company-onboarding/app/client/session"
	"company-onboarding/app/client/wizard"
)

const (
	PathRoot      = "/"
	PathLogin     = "/login"
	PathRegister  = "/register"
	PathVerifyOTP = "/verify-otp"
	PathComplete  = "/setup/complete"
	PathDashboard = "/dashboard/settings"

	setupPrefix = "/setup/"
)

// Decision allows a navigation or names where to go instead.
type Decision struct {
	Allow      bool
	RedirectTo string
}

func allow() Decision { return Decision{Allow: true} }

func redirect(path string) Decision { return Decision{RedirectTo: path} }

// Step guards the form of one wizard step. A step beyond the current one
// redirects to the current step.
func Step(step wizard.Step, s session.State, p wizard.Progress) Decision {
	switch {
	case !s.IsAuthenticated:
		return redirect(PathLogin)
	case !s.OTPVerified:
		return redirect(PathVerifyOTP)
	case p.IsComplete:
		return redirect(PathComplete)
	}
	current := p.CurrentStep
	if !current.Valid() {
		current = wizard.StepOrder[0]
	}
	if step.Index() > current.Index() || !step.Valid() {
		return redirect(current.Path())
	}
	return allow()
}

// Path guards any client route.
func Path(path string, s session.State, p wizard.Progress) Decision {
	home := PathLogin
	if s.IsAuthenticated {
		home = wizard.StepCompany.Path()
	}
	switch path {
	case PathRoot:
		switch {
		case !s.IsAuthenticated:
			return redirect(PathLogin)
		case p.IsComplete:
			return redirect(PathDashboard)
		default:
			return redirect(wizard.StepCompany.Path())
		}
	case PathLogin, PathRegister:
		return allow()
	case PathVerifyOTP:
		if s.IsAuthenticated && !s.OTPVerified && !p.IsComplete {
			return allow()
		}
		return redirect(home)
	case PathComplete, PathDashboard:
		if s.IsAuthenticated && s.OTPVerified && p.IsComplete {
			return allow()
		}
		return redirect(home)
	}
	if key, ok := strings.CutPrefix(path, setupPrefix); ok {
		if step, ok := wizard.ParseStep(key); ok {
			return Step(step, s, p)
		}
	}
	return redirect(PathRoot)
}
