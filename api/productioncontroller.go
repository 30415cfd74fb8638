package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"

	"tooncraft/events"
	"tooncraft/pipeline"
	"tooncraft/types"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Run states reported by the production status endpoint.
const (
	RunStateProducing = "producing"
	RunStateCompleted = "completed"
	RunStateFailed    = "failed"
	RunStateCancelled = "cancelled"
)

// Run tracks one production from the API's point of view.
type Run struct {
	ID     string
	UserID string

	mu       sync.Mutex
	state    string
	progress types.GenerationProgress
	result   *pipeline.Result
	err      error
}

// RunRegistry keeps all runs the server has seen. The producer only ever has
// one run in flight; the registry remembers which run that is so a cancel
// addressed to a superseded run never aborts its replacement.
type RunRegistry struct {
	mu     sync.Mutex
	runs   map[string]*Run
	active string
}

func NewRunRegistry() *RunRegistry {
	return &RunRegistry{runs: make(map[string]*Run)}
}

func (r *RunRegistry) addActive(run *Run) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[run.ID] = run
	r.active = run.ID
}

func (r *RunRegistry) get(id string) *Run {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs[id]
}

// cancelIfActive cancels the producer only while id is still the active run.
// The check and the cancel happen under one lock so a concurrent start cannot
// slip in between and get its fresh run aborted.
func (r *RunRegistry) cancelIfActive(id string, producer *pipeline.Producer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active != id {
		return false
	}
	producer.CancelActive()
	return true
}

// StartProductionRequest launches an asynchronous production run.
type StartProductionRequest struct {
	UserID     string `json:"userId"`
	Brief      string `json:"brief" binding:"required"`
	Age        int    `json:"age" binding:"required"`
	MovieMode  bool   `json:"movieMode"`
	SceneCount int    `json:"sceneCount"`
}

// ProductionStatusResponse is the polling payload for a run.
type ProductionStatusResponse struct {
	RunID             string                   `json:"runId"`
	State             string                   `json:"state"`
	Progress          types.GenerationProgress `json:"progress"`
	VideoAccessDenied bool                     `json:"videoAccessDenied,omitempty"`
	Script            *types.Script            `json:"script,omitempty"`
	Error             string                   `json:"error,omitempty"`
}

// RegisterProductionRoutes registers the async production endpoints.
func RegisterProductionRoutes(r *gin.Engine, producer *pipeline.Producer, publisher events.Publisher) {
	registry := NewRunRegistry()
	g := r.Group("/api/productions")
	g.POST("", handleStartProduction(producer, registry, publisher))
	g.GET("/:id", handleProductionStatus(registry))
	g.DELETE("/:id", handleCancelProduction(producer, registry))
}

func handleStartProduction(producer *pipeline.Producer, registry *RunRegistry, publisher events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req StartProductionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.SceneCount <= 0 {
			req.SceneCount = 6
		}

		run := &Run{ID: uuid.NewString(), UserID: req.UserID, state: RunStateProducing}
		registry.addActive(run)
		log.Printf("🎬 Starting production run %s (user=%s, movie=%v)", run.ID, req.UserID, req.MovieMode)

		// The run must outlive this request, so it detaches from the
		// request context. The producer cancels it when superseded.
		go func() {
			result, err := producer.Run(context.Background(), pipeline.Request{
				UserID:     req.UserID,
				Brief:      req.Brief,
				Age:        req.Age,
				MovieMode:  req.MovieMode,
				SceneCount: req.SceneCount,
			}, func(progress types.GenerationProgress) {
				run.mu.Lock()
				run.progress = progress
				run.mu.Unlock()
				publisher.Publish(events.Event{RunID: run.ID, UserID: run.UserID, Kind: "progress", Progress: &progress})
			})

			run.mu.Lock()
			defer run.mu.Unlock()
			switch {
			case err == nil:
				run.state = RunStateCompleted
				run.result = result
				publisher.Publish(events.Event{RunID: run.ID, UserID: run.UserID, Kind: "completed"})
			case errors.Is(err, context.Canceled):
				run.state = RunStateCancelled
				publisher.Publish(events.Event{RunID: run.ID, UserID: run.UserID, Kind: "cancelled"})
			default:
				run.state = RunStateFailed
				run.err = err
				log.Printf("❌ Production run %s failed: %v", run.ID, err)
				publisher.Publish(events.Event{RunID: run.ID, UserID: run.UserID, Kind: "failed", Error: err.Error()})
			}
		}()

		c.JSON(http.StatusAccepted, gin.H{"runId": run.ID, "state": RunStateProducing})
	}
}

func handleProductionStatus(registry *RunRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		run := registry.get(c.Param("id"))
		if run == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown run"})
			return
		}

		run.mu.Lock()
		defer run.mu.Unlock()
		resp := ProductionStatusResponse{
			RunID:    run.ID,
			State:    run.state,
			Progress: run.progress,
		}
		if run.result != nil {
			resp.Script = run.result.Script
			resp.VideoAccessDenied = run.result.VideoAccessDenied
		}
		if run.err != nil {
			resp.Error = run.err.Error()
		}
		c.JSON(http.StatusOK, resp)
	}
}

func handleCancelProduction(producer *pipeline.Producer, registry *RunRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		run := registry.get(c.Param("id"))
		if run == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown run"})
			return
		}

		run.mu.Lock()
		state := run.state
		run.mu.Unlock()
		if state != RunStateProducing {
			c.JSON(http.StatusOK, gin.H{"runId": run.ID, "state": state})
			return
		}

		if !registry.cancelIfActive(run.ID, producer) {
			// A newer run already took the producer. This run's context
			// is dead either way, so just record the terminal state.
			run.mu.Lock()
			run.state = RunStateCancelled
			run.mu.Unlock()
		}
		c.JSON(http.StatusOK, gin.H{"runId": run.ID, "state": RunStateCancelled})
	}
}
