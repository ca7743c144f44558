package service_interfaces

import "github.com/api-sage/teller-posting-engine/internal/domain"

type RecipeService interface {
	BuildLegs(input domain.RecipeInput, drawerReference string) (map[string]any, []domain.Leg)
}

type WorkflowService interface {
	ValidateWorkflow(input domain.RecipeInput, teller domain.TellerContext) error
}
