package service_test

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lifedesigner21/whole-pod-sub000/internal/model"
	"github.com/lifedesigner21/whole-pod-sub000/internal/repository"
)

// In-memory store fakes. Update applies the same field names the mongo
// repositories write with $set.

type fakeTaskStore struct {
	tasks   map[primitive.ObjectID]*model.Task
	updates int
}

func newFakeTaskStore(tasks ...*model.Task) *fakeTaskStore {
	s := &fakeTaskStore{tasks: make(map[primitive.ObjectID]*model.Task)}
	for _, t := range tasks {
		s.tasks[t.ID] = t
	}
	return s
}

func (s *fakeTaskStore) Create(_ context.Context, t *model.Task) error {
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	copied := *t
	s.tasks[t.ID] = &copied
	return nil
}

func (s *fakeTaskStore) GetByID(_ context.Context, id primitive.ObjectID) (*model.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return nil, repository.ErrTaskNotFound
	}
	copied := *t
	return &copied, nil
}

func (s *fakeTaskStore) ListByMilestone(_ context.Context, projectID, milestoneID primitive.ObjectID, includeDeleted bool) ([]model.Task, error) {
	var out []model.Task
	for _, t := range s.tasks {
		if t.ProjectID != projectID || t.MilestoneID != milestoneID {
			continue
		}
		if t.IsDeleted && !includeDeleted {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (s *fakeTaskStore) Update(_ context.Context, id primitive.ObjectID, fields bson.M) error {
	t, ok := s.tasks[id]
	if !ok {
		return repository.ErrTaskNotFound
	}
	s.updates++
	for k, v := range fields {
		switch k {
		case "status":
			t.Status = v.(string)
		case "actualMinutes":
			t.ActualMinutes = v.(int)
		case "onHoldReason":
			t.OnHoldReason = v.(string)
		case "completedProof":
			t.CompletedProof = v.(string)
		case "isApproved":
			t.IsApproved = v.(bool)
		case "isRevision":
			t.IsRevision = v.(bool)
		case "isDeleted":
			t.IsDeleted = v.(bool)
		}
	}
	return nil
}

func (s *fakeTaskStore) PushRevisionReason(_ context.Context, id primitive.ObjectID, reason string) error {
	t, ok := s.tasks[id]
	if !ok {
		return repository.ErrTaskNotFound
	}
	s.updates++
	t.RevisionReasons = append(t.RevisionReasons, reason)
	return nil
}

func (s *fakeTaskStore) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	return s.Update(ctx, id, bson.M{"isDeleted": true})
}

type fakeMilestoneStore struct {
	milestones map[primitive.ObjectID]*model.Milestone
}

func newFakeMilestoneStore(milestones ...*model.Milestone) *fakeMilestoneStore {
	s := &fakeMilestoneStore{milestones: make(map[primitive.ObjectID]*model.Milestone)}
	for _, m := range milestones {
		s.milestones[m.ID] = m
	}
	return s
}

func (s *fakeMilestoneStore) GetByID(_ context.Context, id primitive.ObjectID) (*model.Milestone, error) {
	m, ok := s.milestones[id]
	if !ok {
		return nil, repository.ErrMilestoneNotFound
	}
	copied := *m
	return &copied, nil
}

func (s *fakeMilestoneStore) ListByProject(_ context.Context, projectID primitive.ObjectID, includeDeleted bool) ([]model.Milestone, error) {
	var out []model.Milestone
	for _, m := range s.milestones {
		if m.ProjectID != projectID {
			continue
		}
		if m.IsDeleted && !includeDeleted {
			continue
		}
		out = append(out, *m)
	}
	return out, nil
}

func (s *fakeMilestoneStore) Update(_ context.Context, id primitive.ObjectID, fields bson.M) error {
	m, ok := s.milestones[id]
	if !ok {
		return repository.ErrMilestoneNotFound
	}
	for k, v := range fields {
		switch k {
		case "progress":
			m.Progress = v.(int)
		case "status":
			m.Status = v.(string)
		case "isDeleted":
			m.IsDeleted = v.(bool)
		}
	}
	return nil
}

type fakeProjectStore struct {
	projects map[primitive.ObjectID]*model.Project
}

func newFakeProjectStore(projects ...*model.Project) *fakeProjectStore {
	s := &fakeProjectStore{projects: make(map[primitive.ObjectID]*model.Project)}
	for _, p := range projects {
		s.projects[p.ID] = p
	}
	return s
}

func (s *fakeProjectStore) GetByID(_ context.Context, id primitive.ObjectID) (*model.Project, error) {
	p, ok := s.projects[id]
	if !ok {
		return nil, repository.ErrProjectNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *fakeProjectStore) Update(_ context.Context, id primitive.ObjectID, fields bson.M) error {
	p, ok := s.projects[id]
	if !ok {
		return repository.ErrProjectNotFound
	}
	for k, v := range fields {
		switch k {
		case "progress":
			p.Progress = v.(int)
		case "status":
			p.Status = v.(string)
		}
	}
	return nil
}

type fakeNotificationStore struct {
	created []model.Notification
	err     error
}

func (s *fakeNotificationStore) Create(_ context.Context, n *model.Notification) error {
	if s.err != nil {
		return s.err
	}
	s.created = append(s.created, *n)
	return nil
}
