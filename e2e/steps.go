package e2e

import (
	"github.com/cucumber/godog"

	"tracker/e2e/steps/common"
	"tracker/e2e/steps/config"
	"tracker/e2e/steps/dictionary"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	dictionary.RegisterSteps(ctx, tc)
	config.RegisterSteps(ctx, tc)
}
