package e2e

import (
	"github.com/cucumber/godog"

	"carehub/e2e/steps/auth"
	"carehub/e2e/steps/common"
	"carehub/e2e/steps/medication"
)

// RegisterSteps registers all step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	auth.RegisterSteps(ctx, tc)
	medication.RegisterSteps(ctx, tc)
}
