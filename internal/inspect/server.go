// Package inspect exposes a completed run's trace and summary over HTTP,
// for callers that would rather poll a local endpoint than parse stdout.
// Opt-in via --serve; it never influences simulation results.
package inspect

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/MaafiaTroodon/MultiProSim/internal/engine"
)

// Server holds the completed run data served to inspection requests.
type Server struct {
	RunID   string
	Result  *engine.Result
	Events  []engine.TraceEvent
	echo    *echo.Echo
}

// New builds a Server and registers its routes. runID may be empty.
func New(runID string, result *engine.Result, events []engine.TraceEvent) *Server {
	s := &Server{RunID: runID, Result: result, Events: events, echo: echo.New()}
	s.echo.HideBanner = true
	s.echo.GET("/healthz", s.handleHealthz)
	s.echo.GET("/trace", s.handleTrace)
	s.echo.GET("/summary", s.handleSummary)
	return s
}

// Handler returns the http.Handler so callers can mount it on their own
// server, or start one with ListenAndServe.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// ListenAndServe blocks serving on addr until the process is killed or an
// unrecoverable error occurs.
func (s *Server) ListenAndServe(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) handleHealthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok", "run_id": s.RunID})
}

func (s *Server) handleTrace(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Events)
}

type summaryResponse struct {
	Rows           []engine.SummaryRow `json:"rows"`
	DeadlockedPIDs []int                `json:"deadlocked_pids"`
}

func (s *Server) handleSummary(c echo.Context) error {
	resp := summaryResponse{}
	if s.Result != nil {
		resp.Rows = s.Result.Rows
		resp.DeadlockedPIDs = s.Result.DeadlockedPIDs
	}
	return c.JSON(http.StatusOK, resp)
}
