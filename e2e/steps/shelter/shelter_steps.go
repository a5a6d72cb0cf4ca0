package shelter

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	PostAs(email, path string, body any) error
	DeleteAs(email, path string) error
	GET(path string, headers map[string]string) error
	LastStatus() int
	GetResponseField(field string) (any, error)
	SetID(name, id string)
	ID(name string) string
}

// RegisterSteps registers shelter, category, and animal management steps
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &shelterSteps{tc: tc}

	ctx.Step(`^"([^"]*)" creates a shelter named "([^"]*)"$`, steps.createShelter)
	ctx.Step(`^"([^"]*)" adds a category "([^"]*)" to "([^"]*)"$`, steps.addCategory)
	ctx.Step(`^"([^"]*)" adds an animal "([^"]*)" to category "([^"]*)" of "([^"]*)"$`, steps.addAnimal)
	ctx.Step(`^"([^"]*)" deletes the shelter "([^"]*)"$`, steps.deleteShelter)
	ctx.Step(`^"([^"]*)" deletes the animal "([^"]*)"$`, steps.deleteAnimal)
	ctx.Step(`^"([^"]*)" deletes the category "([^"]*)"$`, steps.deleteCategory)
}

type shelterSteps struct {
	tc TestContext
}

func (s *shelterSteps) saveID(name string) error {
	value, err := s.tc.GetResponseField("id")
	if err != nil {
		return err
	}
	s.tc.SetID(name, fmt.Sprintf("%v", value))
	return nil
}

func (s *shelterSteps) createShelter(ctx context.Context, actor, name string) error {
	err := s.tc.PostAs(actor, "/shelters", map[string]any{
		"name":     name + " " + s.tc.ID("run"),
		"location": "12 Harbor Rd",
	})
	if err != nil {
		return err
	}
	if s.tc.LastStatus() == 201 {
		return s.saveID(name)
	}
	return nil
}

func (s *shelterSteps) addCategory(ctx context.Context, actor, category, shelterName string) error {
	shelterID := s.tc.ID(shelterName)
	if shelterID == "" {
		return fmt.Errorf("no shelter named %q in this scenario", shelterName)
	}
	err := s.tc.PostAs(actor, "/shelters/"+shelterID+"/categories", map[string]any{
		"name": category,
	})
	if err != nil {
		return err
	}
	if s.tc.LastStatus() == 201 {
		return s.saveID("category:" + category)
	}
	return nil
}

func (s *shelterSteps) addAnimal(ctx context.Context, actor, animal, category, shelterName string) error {
	shelterID := s.tc.ID(shelterName)
	categoryID := s.tc.ID("category:" + category)
	if shelterID == "" || categoryID == "" {
		return fmt.Errorf("shelter %q or category %q missing from this scenario", shelterName, category)
	}
	err := s.tc.PostAs(actor, "/shelters/"+shelterID+"/animals", map[string]any{
		"name":        animal,
		"age":         3,
		"breed":       "mixed",
		"category_id": categoryID,
	})
	if err != nil {
		return err
	}
	if s.tc.LastStatus() == 201 {
		return s.saveID("animal:" + animal)
	}
	return nil
}

func (s *shelterSteps) deleteShelter(ctx context.Context, actor, shelterName string) error {
	return s.tc.DeleteAs(actor, "/shelters/"+s.tc.ID(shelterName))
}

func (s *shelterSteps) deleteAnimal(ctx context.Context, actor, animal string) error {
	return s.tc.DeleteAs(actor, "/animals/"+s.tc.ID("animal:"+animal))
}

func (s *shelterSteps) deleteCategory(ctx context.Context, actor, category string) error {
	return s.tc.DeleteAs(actor, "/categories/"+s.tc.ID("category:"+category))
}
