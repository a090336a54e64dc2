// Package worker runs the asynq background task server.
package worker

import (
	"context"
	"errors"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/tejasmali6131/TeamRetro-sub000/internal/service"
	"github.com/tejasmali6131/TeamRetro-sub000/internal/tasks"
)

// Server wraps the asynq worker server lifecycle.
type Server struct {
	server   *asynq.Server
	log      *logrus.Entry
	meetings *service.MeetingService
	maxAge   time.Duration
}

// NewServer creates the worker server with its queue config.
func NewServer(redisOpt asynq.RedisClientOpt, meetings *service.MeetingService, retentionMaxAge time.Duration) *Server {
	logEntry := logrus.WithField("component", "worker_server")

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 3,
				"low":     1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retryCount, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				logEntry.WithFields(logrus.Fields{
					"task_type": task.Type(),
					"retries":   retryCount,
					"max_retry": maxRetry,
				}).Errorf("Task failed: %v", err)
			}),
		},
	)

	return &Server{
		server:   server,
		log:      logEntry,
		meetings: meetings,
		maxAge:   retentionMaxAge,
	}
}

// Start runs the worker server. Call from its own goroutine.
func (s *Server) Start() {
	mux := asynq.NewServeMux()
	retention := NewMeetingRetentionHandler(s.meetings, s.maxAge)
	mux.HandleFunc(tasks.TypeMeetingRetention, retention.ProcessTask)

	s.log.Info("Worker server starting...")
	if err := s.server.Run(mux); err != nil {
		if !errors.Is(err, asynq.ErrServerClosed) {
			s.log.Fatalf("Could not run worker server: %v", err)
		}
		s.log.Info("Worker server stopped.")
	}
}

// Shutdown stops the worker server gracefully.
func (s *Server) Shutdown() {
	s.log.Info("Shutting down worker server...")
	s.server.Shutdown()
}
