package e2e

import (
	"github.com/cucumber/godog"

	"shelterhub/e2e/steps/adoption"
	"shelterhub/e2e/steps/common"
	"shelterhub/e2e/steps/identity"
	"shelterhub/e2e/steps/shelter"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Register common steps (health, generic requests, assertions)
	common.RegisterSteps(ctx, tc)

	// Register account registration and login steps
	identity.RegisterSteps(ctx, tc)

	// Register shelter, category, and animal management steps
	shelter.RegisterSteps(ctx, tc)

	// Register adoption workflow steps
	adoption.RegisterSteps(ctx, tc)
}
