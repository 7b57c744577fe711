package notify

import (
	"context"
	"sync"
	"time"

	"github.com/hzqula/portal-gateway/internal/pkg/request"

	"go.uber.org/zap"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

type Notification struct {
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

//go:generate mockgen -source=notify.go -destination=../mock/notify/notify_mock.go -package=mock
// Sink menampilkan pesan transient ke user. SID diambil dari context.
type Sink interface {
	Success(ctx context.Context, message string)
	Error(ctx context.Context, message string)
	Info(ctx context.Context, message string)
}

// maxPerSession membatasi antrean notifikasi per session; yang paling lama
// digeser keluar.
const maxPerSession = 20

// Feed adalah Sink in-memory per session yang di-drain oleh frontend lewat
// GET /notifications, sekaligus dicerminkan ke structured log.
type Feed struct {
	mu     sync.Mutex
	queues map[string][]Notification
	logger *zap.Logger
}

func NewFeed(logger ...*zap.Logger) *Feed {
	l := zap.L().Named("notify.feed")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notify.feed")
	}
	return &Feed{
		queues: make(map[string][]Notification),
		logger: l,
	}
}

func (f *Feed) Success(ctx context.Context, message string) {
	f.push(ctx, LevelSuccess, message)
}

func (f *Feed) Error(ctx context.Context, message string) {
	f.push(ctx, LevelError, message)
}

func (f *Feed) Info(ctx context.Context, message string) {
	f.push(ctx, LevelInfo, message)
}

// Drain mengembalikan notifikasi yang menumpuk untuk satu session dan
// mengosongkan antreannya.
func (f *Feed) Drain(sid string) []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	pending := f.queues[sid]
	delete(f.queues, sid)
	return pending
}

func (f *Feed) push(ctx context.Context, level Level, message string) {
	sid, ok := request.SessionID(ctx)

	f.logger.Info("notification",
		zap.String("level", string(level)),
		zap.String("message", message),
		zap.Bool("has_session", ok),
	)

	if !ok {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	queue := append(f.queues[sid], Notification{
		Level:     level,
		Message:   message,
		CreatedAt: time.Now(),
	})
	if len(queue) > maxPerSession {
		queue = queue[len(queue)-maxPerSession:]
	}
	f.queues[sid] = queue
}
