package adoption

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	PostAs(email, path string, body any) error
	GetAs(email, path string) error
	LastStatus() int
	GetResponseField(field string) (any, error)
	SetID(name, id string)
	ID(name string) string
}

// RegisterSteps registers adoption workflow steps
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &adoptionSteps{tc: tc}

	ctx.Step(`^"([^"]*)" requests to adopt "([^"]*)"$`, steps.requestAdoption)
	ctx.Step(`^"([^"]*)" schedules the interview for "([^"]*)"$`, steps.scheduleInterview)
	ctx.Step(`^"([^"]*)" records an approved outcome$`, steps.recordApproved)
	ctx.Step(`^"([^"]*)" records a denied outcome$`, steps.recordDenied)
	ctx.Step(`^"([^"]*)" cancels the request$`, steps.cancelRequest)
	ctx.Step(`^"([^"]*)" fetches the request$`, steps.fetchRequest)
	ctx.Step(`^"([^"]*)" lists their requests$`, steps.listRequests)
}

type adoptionSteps struct {
	tc TestContext
}

func (s *adoptionSteps) requestAdoption(ctx context.Context, adopter, animal string) error {
	animalID := s.tc.ID("animal:" + animal)
	if animalID == "" {
		return fmt.Errorf("no animal named %q in this scenario", animal)
	}
	err := s.tc.PostAs(adopter, "/adoptions", map[string]any{
		"animal_id": animalID,
	})
	if err != nil {
		return err
	}
	if s.tc.LastStatus() == 201 {
		requestID, err := s.tc.GetResponseField("request_id")
		if err != nil {
			return err
		}
		s.tc.SetID("request", fmt.Sprintf("%v", requestID))
	}
	return nil
}

func (s *adoptionSteps) scheduleInterview(ctx context.Context, staff, date string) error {
	return s.tc.PostAs(staff, "/adoptions/"+s.tc.ID("request")+"/interview", map[string]any{
		"interview_date": date,
	})
}

func (s *adoptionSteps) recordApproved(ctx context.Context, staff string) error {
	return s.tc.PostAs(staff, "/adoptions/"+s.tc.ID("request")+"/outcome", map[string]any{
		"approved": true,
	})
}

func (s *adoptionSteps) recordDenied(ctx context.Context, staff string) error {
	return s.tc.PostAs(staff, "/adoptions/"+s.tc.ID("request")+"/outcome", map[string]any{
		"approved": false,
	})
}

func (s *adoptionSteps) cancelRequest(ctx context.Context, adopter string) error {
	return s.tc.PostAs(adopter, "/adoptions/"+s.tc.ID("request")+"/cancel", nil)
}

func (s *adoptionSteps) fetchRequest(ctx context.Context, user string) error {
	return s.tc.GetAs(user, "/adoptions/"+s.tc.ID("request"))
}

func (s *adoptionSteps) listRequests(ctx context.Context, user string) error {
	return s.tc.GetAs(user, "/adoptions")
}
