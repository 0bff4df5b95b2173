package service

import (
	"context"
	"errors"
	"math"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lifedesigner21/whole-pod-sub000/internal/model"
	"github.com/lifedesigner21/whole-pod-sub000/internal/repository"
)

// Progress keeps the denormalized progress fields consistent with underlying
// task state. Both recomputes are plain read-then-write sequences with no
// transaction: concurrent editors of the same milestone race to overwrite the
// persisted value and the last writer wins. That matches the system's design;
// callers must not assume stronger guarantees.
type Progress struct {
	tasks      TaskStore
	milestones MilestoneStore
	projects   ProjectStore
	log        *logrus.Logger
}

func NewProgress(tasks TaskStore, milestones MilestoneStore, projects ProjectStore, log *logrus.Logger) *Progress {
	return &Progress{tasks: tasks, milestones: milestones, projects: projects, log: log}
}

// MilestonePercent computes a milestone's completion percentage from its task
// set. Soft-deleted tasks never count; completion means status "Completed" and
// nothing else. An empty or fully deleted set yields 0.
func MilestonePercent(tasks []model.Task) int {
	total := 0
	completed := 0
	for _, t := range tasks {
		if t.IsDeleted {
			continue
		}
		total++
		if t.Status == model.StatusCompleted {
			completed++
		}
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// ProjectPercent computes a project's progress as the rounded average of its
// non-deleted milestones' progress values, 0 when there are none.
func ProjectPercent(milestones []model.Milestone) int {
	total := 0
	sum := 0
	for _, m := range milestones {
		if m.IsDeleted {
			continue
		}
		total++
		sum += m.Progress
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(total)))
}

// RecomputeMilestone reloads the milestone's tasks and persists the fresh
// percentage. Must be awaited immediately after any write that changes a
// task's status or isDeleted flag; there is no background reconciliation, so a
// missed call leaves the field stale until the next status change. A missing
// milestone is not an error: the recompute is silently skipped.
func (p *Progress) RecomputeMilestone(ctx context.Context, projectID, milestoneID primitive.ObjectID) (int, error) {
	if _, err := p.milestones.GetByID(ctx, milestoneID); err != nil {
		if errors.Is(err, repository.ErrMilestoneNotFound) {
			p.log.WithField("milestone_id", milestoneID.Hex()).Warn("milestone missing, skipping progress recompute")
			return 0, nil
		}
		return 0, err
	}

	tasks, err := p.tasks.ListByMilestone(ctx, projectID, milestoneID, false)
	if err != nil {
		return 0, err
	}

	percent := MilestonePercent(tasks)
	if err := p.milestones.Update(ctx, milestoneID, bson.M{"progress": percent}); err != nil {
		return 0, err
	}
	return percent, nil
}

// RecomputeProject rolls the project's progress up from its milestones and
// applies the status auto-transition: promoted to "Completed" at 100, demoted
// back to "Active" when a completed project falls below 100. Any other status
// is left untouched.
func (p *Progress) RecomputeProject(ctx context.Context, projectID primitive.ObjectID) (int, error) {
	project, err := p.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			p.log.WithField("project_id", projectID.Hex()).Warn("project missing, skipping progress recompute")
			return 0, nil
		}
		return 0, err
	}

	milestones, err := p.milestones.ListByProject(ctx, projectID, false)
	if err != nil {
		return 0, err
	}

	percent := ProjectPercent(milestones)
	fields := bson.M{"progress": percent}
	switch {
	case percent == 100 && project.Status != model.ProjectCompleted:
		fields["status"] = model.ProjectCompleted
	case percent < 100 && project.Status == model.ProjectCompleted:
		fields["status"] = model.ProjectActive
	}

	if err := p.projects.Update(ctx, projectID, fields); err != nil {
		return 0, err
	}
	return percent, nil
}
