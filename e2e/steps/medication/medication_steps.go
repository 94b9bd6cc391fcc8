package medication

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	PUT(path string, body any) error
	DELETE(path string) error
	GET(path string, headers map[string]string) error
	GetResponseField(field string) (any, error)
	GetLastResponseStatus() int
	GetMedicationID() string
	SetMedicationID(medID string)
}

// RegisterSteps registers medication schedule step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &medicationSteps{tc: tc}

	ctx.Step(`^I add medication "([^"]*)" with dosage "([^"]*)" and reminders "([^"]*)"$`, steps.add)
	ctx.Step(`^I have added medication "([^"]*)"$`, steps.haveAdded)
	ctx.Step(`^I list my medications$`, steps.list)
	ctx.Step(`^I rename that medication to "([^"]*)"$`, steps.rename)
	ctx.Step(`^I delete that medication$`, steps.deleteSaved)
	ctx.Step(`^I delete medication "([^"]*)"$`, steps.deleteByID)
}

type medicationSteps struct {
	tc TestContext
}

func medicationBody(name, dosage, reminders string) map[string]any {
	list := []string{}
	for _, r := range strings.Split(reminders, ",") {
		if r = strings.TrimSpace(r); r != "" {
			list = append(list, r)
		}
	}
	return map[string]any{
		"medicationName": name,
		"dosage":         dosage,
		"frequency":      "daily",
		"reminders":      list,
	}
}

func (s *medicationSteps) add(ctx context.Context, name, dosage, reminders string) error {
	if err := s.tc.POST("/medications", medicationBody(name, dosage, reminders)); err != nil {
		return err
	}
	if s.tc.GetLastResponseStatus() == 201 {
		return s.saveID()
	}
	return nil
}

func (s *medicationSteps) haveAdded(ctx context.Context, name string) error {
	if err := s.add(ctx, name, "1 tablet", "08:00"); err != nil {
		return err
	}
	if status := s.tc.GetLastResponseStatus(); status != 201 {
		return fmt.Errorf("add medication: expected 201 but got %d", status)
	}
	return nil
}

func (s *medicationSteps) list(ctx context.Context) error {
	return s.tc.GET("/medications", nil)
}

func (s *medicationSteps) rename(ctx context.Context, name string) error {
	return s.tc.PUT("/medications/"+s.tc.GetMedicationID(), medicationBody(name, "1 tablet", "08:00"))
}

func (s *medicationSteps) deleteSaved(ctx context.Context) error {
	return s.tc.DELETE("/medications/" + s.tc.GetMedicationID())
}

func (s *medicationSteps) deleteByID(ctx context.Context, medID string) error {
	return s.tc.DELETE("/medications/" + medID)
}

func (s *medicationSteps) saveID() error {
	v, err := s.tc.GetResponseField("id")
	if err != nil {
		return err
	}
	medID, ok := v.(string)
	if !ok {
		return fmt.Errorf("medication id is not a string: %v", v)
	}
	s.tc.SetMedicationID(medID)
	return nil
}
