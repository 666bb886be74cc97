package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/piwi3910/BoardCut/internal/engine"
	"github.com/piwi3910/BoardCut/internal/logger"
	"github.com/piwi3910/BoardCut/internal/model"
	"github.com/piwi3910/BoardCut/internal/project"
)

// Handler serves the solve endpoints.
type Handler struct {
	genetic  engine.GeneticConfig
	buffer   int
	maxUnits int
	logger   zerolog.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithGeneticConfig sets the parameters of the genetic strategy.
func WithGeneticConfig(cfg engine.GeneticConfig) HandlerOption {
	return func(h *Handler) {
		h.genetic = cfg
	}
}

// WithProgressBuffer sets the message buffer of streamed solves.
func WithProgressBuffer(n int) HandlerOption {
	return func(h *Handler) {
		h.buffer = n
	}
}

// WithMaxUnits limits the part units a request may demand in total.
// Larger projects are rejected with 400 before solving.
func WithMaxUnits(n int) HandlerOption {
	return func(h *Handler) {
		h.maxUnits = n
	}
}

// NewHandler creates a new Handler instance.
func NewHandler(opts ...HandlerOption) *Handler {
	h := &Handler{
		genetic:  engine.DefaultGeneticConfig(),
		buffer:   16,
		maxUnits: model.DefaultMaxUnits,
		logger:   logger.Component("server"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// request decodes the project body and builds the solver it asks for. The
// "algorithm" query parameter overrides the project's algorithm. On
// failure the 400 response has been written and ok is false.
func (h *Handler) request(c *gin.Context) (problem model.Problem, solver *engine.Solver, ok bool) {
	p, err := project.Decode(c.Request.Body)
	if err != nil {
		h.badRequest(c, ErrCodeBadRequest, err)
		return nil, nil, false
	}

	alg := p.Algorithm
	if q := c.Query("algorithm"); q != "" {
		if alg, err = model.ParseAlgorithm(q); err != nil {
			h.badRequest(c, ErrCodeBadRequest, err)
			return nil, nil, false
		}
	}
	strategy, err := engine.StrategyFor(alg, h.genetic)
	if err != nil {
		h.badRequest(c, ErrCodeBadRequest, err)
		return nil, nil, false
	}

	problem, err = p.Problem()
	if err == nil {
		err = problem.Validate()
	}
	if err == nil {
		err = problem.ValidateUnits(h.maxUnits)
	}
	if err != nil {
		status, resp := errorResponse(err)
		resp.RequestID = GetRequestID(c)
		c.JSON(status, resp)
		return nil, nil, false
	}

	log := h.logger.With().Str("request_id", GetRequestID(c)).Logger()
	return problem, engine.New(strategy, engine.WithLogger(log)), true
}

func (h *Handler) badRequest(c *gin.Context, code string, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:     code,
		Message:   err.Error(),
		RequestID: GetRequestID(c),
	})
}

// Solve handles POST /api/v1/solve: project JSON in, report JSON out.
func (h *Handler) Solve(c *gin.Context) {
	problem, solver, ok := h.request(c)
	if !ok {
		return
	}

	solution, err := solver.Solve(c.Request.Context(), problem, nil)
	if err != nil {
		status, resp := errorResponse(err)
		resp.RequestID = GetRequestID(c)
		c.JSON(status, resp)
		return
	}
	c.JSON(http.StatusOK, project.NewReport(solution))
}

// SolveStream handles POST /api/v1/solve/stream. Progress is sent as
// Server-Sent Events "progress" and "sub_progress"; the stream ends with
// one "result" or "error" event.
func (h *Handler) SolveStream(c *gin.Context) {
	problem, solver, ok := h.request(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	ch := engine.Run(ctx, solver, problem, h.buffer)
	defer ch.Close()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	for {
		select {
		case <-ctx.Done():
			h.logger.Debug().Str("request_id", GetRequestID(c)).Msg("Stream client gone")
			return
		case msg, open := <-ch.Messages():
			if !open {
				return
			}
			switch msg.Kind {
			case engine.KindProgress, engine.KindSubProgress:
				c.SSEvent(msg.Kind.String(), gin.H{"fraction": msg.Fraction})
			case engine.KindResults:
				if msg.Err != nil {
					_, resp := errorResponse(msg.Err)
					resp.RequestID = GetRequestID(c)
					c.SSEvent("error", resp)
				} else {
					c.SSEvent(msg.Kind.String(), project.NewReport(msg.Solution))
				}
				c.Writer.Flush()
				return
			}
			c.Writer.Flush()
		}
	}
}

// Healthz handles the liveness probe.
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
