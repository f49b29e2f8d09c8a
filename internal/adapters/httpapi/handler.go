// Package httpapi は社員ユースケースを JSON over HTTP で公開する chi ゲートウェイです。
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ogurasousui/grpc-employee-records/internal/core/employee"
	"go.uber.org/zap"
)

// Handler は HTTP ハンドラー群です。
type Handler struct {
	svc    employee.UseCase
	logger *zap.Logger
}

// NewHandler は Handler を生成します。
func NewHandler(svc employee.UseCase, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger.Named("http")}
}

// Routes はミドルウェアとルートを登録したルーターを返します。
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(h.accessLog)
	r.Use(h.recoverer)

	r.Route("/employees", func(r chi.Router) {
		r.Post("/", h.HireEmployee)
		r.Get("/", h.GetEmployees)
		r.Get("/search", h.SearchEmployees)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetEmployee)
			r.Put("/", h.UpdateEmployee)
			r.Delete("/", h.DeleteEmployee)
			r.Post("/fire", h.FireEmployee)
			r.Post("/promote", h.PromoteEmployee)
			r.Post("/demote", h.DemoteEmployee)
			r.Post("/salary", h.IncreaseSalary)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.writeJSON(w, r, http.StatusNotFound, Response{Message: "route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		h.writeJSON(w, r, http.StatusMethodNotAllowed, Response{Message: "method not allowed"})
	})

	return r
}
