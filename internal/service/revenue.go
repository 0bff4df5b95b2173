package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RevenueSummary is the derived money view of a project: the paid/total
// amounts stored on the project plus the sum of its non-deleted milestones'
// amounts. Computed on read, never persisted.
type RevenueSummary struct {
	ProjectID      string  `json:"project_id"`
	TotalAmount    float64 `json:"total_amount"`
	PaidAmount     float64 `json:"paid_amount"`
	MilestoneTotal float64 `json:"milestone_total"`
	Outstanding    float64 `json:"outstanding"`
}

type Revenue struct {
	projects   ProjectStore
	milestones MilestoneStore
}

func NewRevenue(projects ProjectStore, milestones MilestoneStore) *Revenue {
	return &Revenue{projects: projects, milestones: milestones}
}

func (r *Revenue) ProjectSummary(ctx context.Context, projectID primitive.ObjectID) (*RevenueSummary, error) {
	project, err := r.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	milestones, err := r.milestones.ListByProject(ctx, projectID, false)
	if err != nil {
		return nil, err
	}

	var milestoneTotal float64
	for _, m := range milestones {
		milestoneTotal += m.Amount
	}

	return &RevenueSummary{
		ProjectID:      projectID.Hex(),
		TotalAmount:    project.TotalAmount,
		PaidAmount:     project.PaidAmount,
		MilestoneTotal: milestoneTotal,
		Outstanding:    project.TotalAmount - project.PaidAmount,
	}, nil
}
