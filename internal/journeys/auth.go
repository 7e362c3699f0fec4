package journeys

import (
	"context"

	"github.com/wedding-planner/wedding-e2e/internal/config"
	"github.com/wedding-planner/wedding-e2e/internal/identity"
	"github.com/wedding-planner/wedding-e2e/internal/locator"
	"github.com/wedding-planner/wedding-e2e/internal/scenario"
)

func loginLogout() scenario.Journey {
	return scenario.Journey{
		Name:        LoginLogout,
		Description: "log in, then log out and land back on the sign-in screen",
		Needs:       config.NeedLogin,
		Steps: []scenario.Step{
			openLanding(),
			login(),
			{Phase: scenario.Submitted, Name: "log out from the sidebar", Do: func(_ context.Context, f *scenario.Flow) error {
				return f.Click(locator.NavLogout)
			}},
			{Phase: scenario.Verified, Name: "verify the sign-in control is back", Do: func(_ context.Context, f *scenario.Flow) error {
				return f.ExpectShown(locator.LoginSignIn)
			}},
		},
	}
}

// signup registers a freshly generated account. The identity is drawn when
// the form is filled, so every run of the journey uses a new one.
func signup(name string, ids *identity.Generator, kind identity.Kind) scenario.Journey {
	steps := []scenario.Step{
		openLanding(),
		{Phase: scenario.Navigated, Name: "switch to sign-up mode", Do: switchToSignup},
		{Phase: scenario.FormFilled, Name: "fill registration details", Do: func(_ context.Context, f *scenario.Flow) error {
			id, err := ids.Next(kind)
			if err != nil {
				return err
			}
			f.Log.Info("registering", "email", id.Email, "name", id.FullName)
			if err := f.Fill(locator.SignupFullName, id.FullName); err != nil {
				return err
			}
			if err := f.Fill(locator.SignupEmail, id.Email); err != nil {
				return err
			}
			return f.Fill(locator.SignupPassword, id.Password)
		}},
	}

	description := "register a new primary account and land on the dashboard"
	var needs config.Need
	if kind == identity.Collaborator {
		description = "register as a collaborator on an existing wedding via its invitation code"
		needs = config.NeedInvitation
		steps = append(steps, scenario.Step{Phase: scenario.FormFilled, Name: "join as collaborator with invitation code", Do: func(_ context.Context, f *scenario.Flow) error {
			if err := f.Click(locator.SignupCollaboratorToggle); err != nil {
				return err
			}
			// The code input only renders once the toggle is on.
			return f.Fill(locator.SignupInvitationCode, f.Credentials.InvitationCode)
		}})
	}

	steps = append(steps,
		scenario.Step{Phase: scenario.Submitted, Name: "create account", Do: func(_ context.Context, f *scenario.Flow) error {
			return f.Submit(locator.SignupSubmit)
		}},
		scenario.Step{Phase: scenario.Verified, Name: "verify landing on the dashboard", Do: func(ctx context.Context, f *scenario.Flow) error {
			if err := f.AwaitLanding(); err != nil {
				return err
			}
			return f.ExpectGone(ctx, locator.LoginSignIn)
		}},
	)

	return scenario.Journey{Name: name, Description: description, Needs: needs, Steps: steps}
}

// switchToSignup clicks the sign-up toggle. A page already showing the
// registration form is accepted as is.
func switchToSignup(_ context.Context, f *scenario.Flow) error {
	err := f.Click(locator.SignupToggle)
	if err == nil {
		return nil
	}
	if shown, perr := f.Present(locator.SignupFullName); perr == nil && shown {
		f.Log.Warn("sign-up toggle not found, registration form already shown")
		return nil
	}
	return err
}
