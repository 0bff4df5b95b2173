package service

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/lifedesigner21/whole-pod-sub000/internal/model"
)

// Notifier fans notifications out to per-user documents. Delivery is
// fire-and-forget: a failed insert is logged and swallowed, never propagated
// to the mutation that triggered it. The breaker stops hammering the store
// when inserts fail repeatedly.
type Notifier struct {
	store   NotificationStore
	breaker *gobreaker.CircuitBreaker
	log     *logrus.Logger
}

func NewNotifier(store NotificationStore, log *logrus.Logger) *Notifier {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "notifications-cb",
		MaxRequests: 1,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Info("circuit breaker state change")
		},
	})
	return &Notifier{store: store, breaker: breaker, log: log}
}

// Notify appends one notification for the user. Errors are swallowed.
func (n *Notifier) Notify(ctx context.Context, userID, message, taskID string) {
	if userID == "" {
		return
	}

	_, err := n.breaker.Execute(func() (interface{}, error) {
		return nil, n.store.Create(ctx, &model.Notification{
			UserID:  userID,
			Message: message,
			TaskID:  taskID,
		})
	})
	if err != nil {
		n.log.WithFields(logrus.Fields{
			"user_id": userID,
			"task_id": taskID,
		}).WithError(err).Warn("notification delivery failed")
	}
}
