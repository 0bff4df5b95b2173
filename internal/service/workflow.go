package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lifedesigner21/whole-pod-sub000/internal/model"
	"github.com/lifedesigner21/whole-pod-sub000/internal/stopwatch"
)

// TaskWorkflow owns every task mutation that carries side effects. The status
// field itself is an open label set: ChangeStatus assigns any label freely.
// Only the named operations below do anything beyond the field write, and the
// milestone's progress is recomputed after each of them.
type TaskWorkflow struct {
	tasks    TaskStore
	tracker  *stopwatch.Tracker
	progress *Progress
	notifier *Notifier
	log      *logrus.Logger
}

func NewTaskWorkflow(tasks TaskStore, tracker *stopwatch.Tracker, progress *Progress, notifier *Notifier, log *logrus.Logger) *TaskWorkflow {
	return &TaskWorkflow{
		tasks:    tasks,
		tracker:  tracker,
		progress: progress,
		notifier: notifier,
		log:      log,
	}
}

// Create inserts the task and recomputes the owning milestone's progress,
// since a fresh task dilutes the completion percentage.
func (w *TaskWorkflow) Create(ctx context.Context, task *model.Task) error {
	if err := w.tasks.Create(ctx, task); err != nil {
		return err
	}
	_, err := w.progress.RecomputeMilestone(ctx, task.ProjectID, task.MilestoneID)
	return err
}

// canWork gates the timer actions: only the task's assignee may run its
// stopwatch. Admins bypass the check, which also covers unassigned tasks.
func canWork(session model.Session, task *model.Task) bool {
	return session.IsAdmin() || session.UserID == task.AssignedTo
}

// ChangeStatus assigns an arbitrary status label and recomputes the owning
// milestone's progress. No transition graph is enforced.
func (w *TaskWorkflow) ChangeStatus(ctx context.Context, taskID primitive.ObjectID, status string) error {
	task, err := w.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}

	if err := w.tasks.Update(ctx, taskID, bson.M{"status": status}); err != nil {
		return err
	}

	_, err = w.progress.RecomputeMilestone(ctx, task.ProjectID, task.MilestoneID)
	return err
}

// StartTimer begins accumulating worked time for the task, seeding the
// counter from the minutes already persisted on it. Assignee only.
func (w *TaskWorkflow) StartTimer(ctx context.Context, session model.Session, taskID primitive.ObjectID) error {
	task, err := w.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if !canWork(session, task) {
		return ErrForbidden
	}
	w.tracker.Start(taskID.Hex(), task.ActualMinutes)
	return nil
}

// ElapsedSeconds reports the task's accumulated worked seconds.
func (w *TaskWorkflow) ElapsedSeconds(taskID primitive.ObjectID) int64 {
	return w.tracker.Elapsed(taskID.Hex())
}

// Hold pauses work on the task: the timer stops, the accumulated minutes are
// persisted, and onHoldReason is overwritten. The reason is a single slot, not
// a list; the prior reason is lost. An empty reason blocks the whole action.
// Assignee only.
func (w *TaskWorkflow) Hold(ctx context.Context, session model.Session, taskID primitive.ObjectID, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return ErrEmptyReason
	}

	task, err := w.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if !canWork(session, task) {
		return ErrForbidden
	}

	minutes := w.tracker.Settle(taskID.Hex(), task.ActualMinutes)
	return w.tasks.Update(ctx, taskID, bson.M{
		"actualMinutes": minutes,
		"onHoldReason":  reason,
	})
}

// Complete finishes the task: requires a proof URL, stops the timer, persists
// the accumulated minutes and the proof, marks the status "Completed" and
// recomputes the milestone's progress. The assignee gets one notification.
// Assignee only.
func (w *TaskWorkflow) Complete(ctx context.Context, session model.Session, taskID primitive.ObjectID, proofURL string) error {
	if strings.TrimSpace(proofURL) == "" {
		return ErrEmptyProof
	}

	task, err := w.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if !canWork(session, task) {
		return ErrForbidden
	}

	minutes := w.tracker.Settle(taskID.Hex(), task.ActualMinutes)
	err = w.tasks.Update(ctx, taskID, bson.M{
		"status":         model.StatusCompleted,
		"completedProof": proofURL,
		"actualMinutes":  minutes,
	})
	if err != nil {
		return err
	}

	if _, err := w.progress.RecomputeMilestone(ctx, task.ProjectID, task.MilestoneID); err != nil {
		return err
	}

	w.notifier.Notify(ctx, task.AssignedTo,
		fmt.Sprintf("Task %q was marked completed", task.Title), taskID.Hex())
	return nil
}

// Approve is admin-only. The field set is idempotent: re-approving an already
// approved task writes the same values again. The assignee gets one
// notification per invocation.
func (w *TaskWorkflow) Approve(ctx context.Context, session model.Session, taskID primitive.ObjectID) error {
	if !session.IsAdmin() {
		return ErrForbidden
	}

	task, err := w.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}

	err = w.tasks.Update(ctx, taskID, bson.M{
		"isApproved": true,
		"isRevision": false,
		"status":     model.StatusCompleted,
	})
	if err != nil {
		return err
	}

	if _, err := w.progress.RecomputeMilestone(ctx, task.ProjectID, task.MilestoneID); err != nil {
		return err
	}

	w.notifier.Notify(ctx, task.AssignedTo,
		fmt.Sprintf("Task %q was approved", task.Title), taskID.Hex())
	return nil
}

// RequestRevision is admin-only. The reason is appended to the task's
// revisionReasons list, which only ever grows; clients display the last entry
// as the current reason. An empty reason blocks the whole action and the task
// document is not touched.
func (w *TaskWorkflow) RequestRevision(ctx context.Context, session model.Session, taskID primitive.ObjectID, reason string) error {
	if !session.IsAdmin() {
		return ErrForbidden
	}
	if strings.TrimSpace(reason) == "" {
		return ErrEmptyReason
	}

	task, err := w.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}

	if err := w.tasks.PushRevisionReason(ctx, taskID, reason); err != nil {
		return err
	}
	err = w.tasks.Update(ctx, taskID, bson.M{
		"isRevision": true,
		"isApproved": false,
		"status":     model.StatusInRevision,
	})
	if err != nil {
		return err
	}

	if _, err := w.progress.RecomputeMilestone(ctx, task.ProjectID, task.MilestoneID); err != nil {
		return err
	}

	w.notifier.Notify(ctx, task.AssignedTo,
		fmt.Sprintf("Revision requested on task %q: %s", task.Title, reason), taskID.Hex())
	return nil
}

// Delete soft-deletes the task and recomputes the milestone's progress, since
// a deleted task no longer counts toward completion.
func (w *TaskWorkflow) Delete(ctx context.Context, taskID primitive.ObjectID) error {
	task, err := w.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}

	if err := w.tasks.SoftDelete(ctx, taskID); err != nil {
		return err
	}

	_, err = w.progress.RecomputeMilestone(ctx, task.ProjectID, task.MilestoneID)
	return err
}
