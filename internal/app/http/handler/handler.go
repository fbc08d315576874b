package handler

import (
	"go.uber.org/zap"

	"activityboard/internal/app/session"
	"activityboard/internal/infrastructure/async"
)

const sessionCookie = "board_session"

type Handler struct {
	Sessions *session.Registry
	Pool     *async.WorkerPool
	Log      *zap.Logger
}

func New(sessions *session.Registry, pool *async.WorkerPool, log *zap.Logger) *Handler {
	return &Handler{
		Sessions: sessions,
		Pool:     pool,
		Log:      log,
	}
}
