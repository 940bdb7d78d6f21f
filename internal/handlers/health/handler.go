package health

import (
	"net/http"

	"hostly/config"
	"hostly/transport/http/response"

	"github.com/go-chi/chi/v5"
)

// Checker reports whether the server still accepts traffic.
type Checker interface {
	Ready() bool
}

type Handler struct {
	cfg     *config.Config
	checker Checker
}

type Response struct {
	Name        string `json:"name"`
	Environment string `json:"environment"`
	Status      string `json:"status"`
}

func New(cfg *config.Config, checker Checker) Handler {
	return Handler{
		cfg:     cfg,
		checker: checker,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/health", handler.Health)
}

// Health reports liveness. It turns 503 once the server enters its shutdown grace period.
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} response.Data[Response]
// @Failure 503 {object} response.Message
// @Router /v1/health [get]
func (handler *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	if handler.checker != nil && !handler.checker.Ready() {
		response.WithPreparingShutdown(w)

		return
	}

	response.WithJSON(w, http.StatusOK, Response{
		Name:        handler.cfg.App.Name,
		Environment: handler.cfg.Server.Env,
		Status:      "ok",
	})
}
