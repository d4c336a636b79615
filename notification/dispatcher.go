package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"careerlink/logs"
	"careerlink/metrics"
	"careerlink/models"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BatchSize is the provider's per-call token limit.
const BatchSize = 500

type Options struct {
	Workers     int
	QueueSize   int
	TaskTimeout time.Duration
}

type task struct {
	msg       *Message
	broadcast *Broadcast
}

// Dispatcher resolves push tokens, records inbox rows and hands deliveries to a provider.
// Notify and NotifyAll never block the caller; Send and Broadcast deliver synchronously.
type Dispatcher struct {
	db       *gorm.DB
	provider PushProvider
	opts     Options
	log      *logrus.Entry

	queue  chan task
	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(db *gorm.DB, provider PushProvider, opts Options) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	if opts.TaskTimeout <= 0 {
		opts.TaskTimeout = 30 * time.Second
	}
	return &Dispatcher{
		db:       db,
		provider: provider,
		opts:     opts,
		log:      logs.With("notification"),
		queue:    make(chan task, opts.QueueSize),
	}
}

// Start launches the workers. Queued tasks keep draining after ctx is cancelled until Stop.
func (d *Dispatcher) Start(ctx context.Context) {
	base := context.WithoutCancel(ctx)
	for i := 0; i < d.opts.Workers; i++ {
		d.wg.Add(1)
		go d.worker(base)
	}
	d.log.WithField("workers", d.opts.Workers).Info("notification dispatcher started")
}

// Stop refuses new tasks and waits for the queue to drain.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
	d.log.Info("notification dispatcher stopped")
}

func (d *Dispatcher) worker(base context.Context) {
	defer d.wg.Done()
	for t := range d.queue {
		ctx, cancel := context.WithTimeout(base, d.opts.TaskTimeout)
		d.run(ctx, t)
		cancel()
	}
}

func (d *Dispatcher) run(ctx context.Context, t task) {
	defer func() {
		if r := recover(); r != nil {
			d.log.WithField("panic", r).Error("notification task panicked")
		}
	}()

	switch {
	case t.msg != nil:
		if _, err := d.Send(ctx, *t.msg); err != nil {
			d.log.WithError(err).WithField("user_id", t.msg.UserID).WithField("type", t.msg.Kind).Warn("notification failed")
		}
	case t.broadcast != nil:
		res, err := d.Broadcast(ctx, *t.broadcast)
		if err != nil {
			d.log.WithError(err).WithField("type", t.broadcast.Kind).Warn("broadcast failed")
			return
		}
		d.log.WithFields(logrus.Fields{
			"type":    t.broadcast.Kind,
			"success": res.SuccessCount,
			"failure": res.FailureCount,
		}).Info("broadcast delivered")
	}
}

// Notify queues a single-user notification.
func (d *Dispatcher) Notify(msg Message) {
	d.enqueue(task{msg: &msg})
}

// NotifyAll queues a broadcast.
func (d *Dispatcher) NotifyAll(b Broadcast) {
	d.enqueue(task{broadcast: &b})
}

func (d *Dispatcher) enqueue(t task) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		metrics.NotificationsDropped.Inc()
		d.log.Warn("notification dropped, dispatcher stopped")
		return false
	}

	select {
	case d.queue <- t:
		return true
	default:
		metrics.NotificationsDropped.Inc()
		d.log.Warn("notification dropped, queue full")
		return false
	}
}

// Send pushes msg to the user's device. A user without a push token is a no-op that
// returns false; the inbox row is recorded either way.
func (d *Dispatcher) Send(ctx context.Context, msg Message) (bool, error) {
	var user models.User
	err := d.db.WithContext(ctx).Select("id", "fcm_token").First(&user, msg.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		d.log.WithField("user_id", msg.UserID).Info("notification skipped, unknown user")
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load push token: %w", err)
	}

	data := payloadData(msg.Kind, msg.Data)
	userID := msg.UserID
	if err := d.record(ctx, &userID, msg.Kind, msg.Title, msg.Body, data, msg.TargetRoute); err != nil {
		d.log.WithError(err).Warn("inbox row not recorded")
	}

	if user.FCMToken == "" {
		d.log.WithField("user_id", msg.UserID).Info("notification skipped, no push token")
		return false, nil
	}

	if err := d.provider.Send(ctx, user.FCMToken, Payload{Title: msg.Title, Body: msg.Body, Data: data}); err != nil {
		metrics.NotificationsSent.WithLabelValues("single", metrics.OutcomeError).Inc()
		return false, fmt.Errorf("push to user %d: %w", msg.UserID, err)
	}
	metrics.NotificationsSent.WithLabelValues("single", metrics.OutcomeOK).Inc()
	return true, nil
}

// Broadcast pushes b to every matching token in batches of BatchSize.
func (d *Dispatcher) Broadcast(ctx context.Context, b Broadcast) (BroadcastResult, error) {
	var result BroadcastResult
	data := payloadData(b.Kind, b.Data)

	if len(b.UserIDs) == 0 {
		if err := d.record(ctx, nil, b.Kind, b.Title, b.Body, data, ""); err != nil {
			d.log.WithError(err).Warn("broadcast inbox row not recorded")
		}
	} else {
		rows := make([]models.Notification, 0, len(b.UserIDs))
		for _, id := range b.UserIDs {
			id := id
			rows = append(rows, models.Notification{UserID: &id, Kind: b.Kind, Title: b.Title, Message: b.Body, Data: toJSONMap(data)})
		}
		if err := d.db.WithContext(ctx).CreateInBatches(rows, BatchSize).Error; err != nil {
			d.log.WithError(err).Warn("inbox rows not recorded")
		}
	}

	q := d.db.WithContext(ctx).Model(&models.User{}).Where("fcm_token IS NOT NULL AND fcm_token <> ''")
	if len(b.UserIDs) > 0 {
		q = q.Where("id IN ?", b.UserIDs)
	}
	var tokens []string
	if err := q.Distinct().Pluck("fcm_token", &tokens).Error; err != nil {
		return result, fmt.Errorf("load push tokens: %w", err)
	}

	if len(tokens) == 0 {
		d.log.WithField("type", b.Kind).Info("broadcast skipped, no push tokens")
		return result, nil
	}

	payload := Payload{Title: b.Title, Body: b.Body, Data: data}
	for start := 0; start < len(tokens); start += BatchSize {
		end := min(start+BatchSize, len(tokens))
		res, err := d.provider.SendMulticast(ctx, tokens[start:end], payload)
		if err != nil {
			result.FailureCount += end - start
			d.log.WithError(err).WithField("batch_start", start).Warn("multicast batch failed")
			continue
		}
		result.SuccessCount += res.SuccessCount
		result.FailureCount += res.FailureCount
	}

	metrics.NotificationsSent.WithLabelValues("broadcast", metrics.OutcomeOK).Add(float64(result.SuccessCount))
	metrics.NotificationsSent.WithLabelValues("broadcast", metrics.OutcomeError).Add(float64(result.FailureCount))
	return result, nil
}

func (d *Dispatcher) record(ctx context.Context, userID *uint, kind, title, body string, data map[string]string, route string) error {
	return d.db.WithContext(ctx).Create(&models.Notification{
		UserID:      userID,
		Kind:        kind,
		Title:       title,
		Message:     body,
		Data:        toJSONMap(data),
		TargetRoute: route,
	}).Error
}

func toJSONMap(data map[string]string) datatypes.JSONMap {
	m := make(datatypes.JSONMap, len(data))
	for k, v := range data {
		m[k] = v
	}
	return m
}
