package server

import (
	"context"
	"sync"

	"github.com/taskpilot/tasklist/internal/dispatch"
	"github.com/taskpilot/tasklist/internal/instrumentation"
	"github.com/taskpilot/tasklist/internal/store"
)

// ServerContext holds the shared dependencies for the MCP server:
// the task store, the operation dispatcher, and instrumentation.
type ServerContext struct {
	ctx         context.Context
	cancel      context.CancelFunc
	store       *store.Store
	dispatcher  *dispatch.Dispatcher
	provider    *instrumentation.Provider
	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger
	mu          sync.RWMutex
	shutdown    bool
}

// NewServerContext creates a new server context around an open store.
func NewServerContext(ctx context.Context, st *store.Store, dispatcher *dispatch.Dispatcher) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)

	return &ServerContext{
		ctx:        shutdownCtx,
		cancel:     cancel,
		store:      st,
		dispatcher: dispatcher,
	}
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Store returns the task store.
func (sc *ServerContext) Store() *store.Store {
	return sc.store
}

// Dispatcher returns the operation dispatcher.
func (sc *ServerContext) Dispatcher() *dispatch.Dispatcher {
	return sc.dispatcher
}

// SetInstrumentation attaches an instrumentation provider and its
// derived metrics and audit logger. Safe to leave unset; tool handlers
// treat nil instrumentation as disabled.
func (sc *ServerContext) SetInstrumentation(provider *instrumentation.Provider, metrics *instrumentation.Metrics, auditLogger *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.provider = provider
	sc.metrics = metrics
	sc.auditLogger = auditLogger
}

// InstrumentationProvider returns the attached provider, or nil.
func (sc *ServerContext) InstrumentationProvider() *instrumentation.Provider {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.provider
}

// Metrics returns the attached metrics recorder, or nil.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// AuditLogger returns the attached audit logger, or nil.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context and closes the store.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()

	if sc.store != nil {
		return sc.store.Close()
	}
	return nil
}
