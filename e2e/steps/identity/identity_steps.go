package identity

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	GetAs(email, path string) error
	PostAs(email, path string, body any) error
	LastStatus() int
	GetResponseField(field string) (any, error)
	Email(email string) string
	SaveToken(email, token string)
	SetID(name, id string)
	ID(name string) string
}

// RegisterSteps registers account registration and login steps
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &identitySteps{tc: tc}

	ctx.Step(`^I register an adopter "([^"]*)" with password "([^"]*)"$`, steps.registerAdopter)
	ctx.Step(`^I register an admin "([^"]*)" with password "([^"]*)"$`, steps.registerAdmin)
	ctx.Step(`^I register a staff member "([^"]*)" at "([^"]*)" with password "([^"]*)"$`, steps.registerStaff)
	ctx.Step(`^I log in as "([^"]*)" with password "([^"]*)"$`, steps.logIn)
	ctx.Step(`^"([^"]*)" is logged in with password "([^"]*)"$`, steps.isLoggedIn)
	ctx.Step(`^"([^"]*)" requests their profile$`, steps.requestsProfile)
	ctx.Step(`^"([^"]*)" deactivates the account of "([^"]*)"$`, steps.deactivatesAccount)
}

type identitySteps struct {
	tc TestContext
}

func (s *identitySteps) register(email string, body map[string]any) error {
	if err := s.tc.POST("/auth/register", body); err != nil {
		return err
	}
	if s.tc.LastStatus() == 201 {
		if userID, err := s.tc.GetResponseField("id"); err == nil {
			s.tc.SetID("user:"+email, fmt.Sprintf("%v", userID))
		}
	}
	return nil
}

func (s *identitySteps) registerAdopter(ctx context.Context, email, password string) error {
	return s.register(email, map[string]any{
		"role":     "Adopter",
		"email":    s.tc.Email(email),
		"password": password,
		"address":  "4 Elm St",
		"phone":    "555-0101",
	})
}

func (s *identitySteps) registerAdmin(ctx context.Context, email, password string) error {
	return s.register(email, map[string]any{
		"role":       "Admin",
		"email":      s.tc.Email(email),
		"password":   password,
		"admin_type": "shelter_admin",
	})
}

func (s *identitySteps) registerStaff(ctx context.Context, email, shelterName, password string) error {
	shelterID := s.tc.ID(shelterName)
	if shelterID == "" {
		return fmt.Errorf("no shelter named %q was created in this scenario", shelterName)
	}
	return s.register(email, map[string]any{
		"role":       "ShelterStaff",
		"email":      s.tc.Email(email),
		"password":   password,
		"staff_type": "caretaker",
		"shelter_id": shelterID,
	})
}

func (s *identitySteps) logIn(ctx context.Context, email, password string) error {
	if err := s.tc.POST("/auth/login", map[string]any{
		"email":    s.tc.Email(email),
		"password": password,
	}); err != nil {
		return err
	}
	if s.tc.LastStatus() != 200 {
		// Leave the failed response in place for assertion steps.
		return nil
	}
	token, err := s.tc.GetResponseField("access_token")
	if err != nil {
		return err
	}
	s.tc.SaveToken(email, token.(string))
	return nil
}

// isLoggedIn is the Given form: the login must succeed.
func (s *identitySteps) isLoggedIn(ctx context.Context, email, password string) error {
	if err := s.logIn(ctx, email, password); err != nil {
		return err
	}
	if s.tc.LastStatus() != 200 {
		return fmt.Errorf("login for %q failed with status %d", email, s.tc.LastStatus())
	}
	return nil
}

func (s *identitySteps) requestsProfile(ctx context.Context, email string) error {
	return s.tc.GetAs(email, "/me")
}

func (s *identitySteps) deactivatesAccount(ctx context.Context, actor, target string) error {
	userID := s.tc.ID("user:" + target)
	if userID == "" {
		return fmt.Errorf("no registered user %q in this scenario", target)
	}
	return s.tc.PostAs(actor, "/admin/users/"+userID+"/deactivate", nil)
}
