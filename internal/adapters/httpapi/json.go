package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/ogurasousui/grpc-employee-records/internal/core/employee"
	"go.uber.org/zap"
)

// Response はすべての応答に共通のエンベロープです。
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func (h *Handler) readJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// writeJSON は v を符号化してから応答します。符号化に失敗した場合は 500 を返します。
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("encode response",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(Response{Message: "internal server error"})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if _, err := w.Write(append(body, '\n')); err != nil {
		h.logger.Error("write response",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
	}
}

func (h *Handler) successResponse(w http.ResponseWriter, r *http.Request, status int, msg string, data any) {
	h.writeJSON(w, r, status, Response{Success: true, Message: msg, Data: data})
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	h.writeJSON(w, r, http.StatusBadRequest, Response{Message: msg})
}

// errorResponse はドメインエラーの種別から HTTP ステータスを決めます。メッセージはエラー文字列そのままです。
func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("internal server error",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	h.writeJSON(w, r, status, Response{Message: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, employee.ErrInternal):
		return http.StatusInternalServerError
	case errors.Is(err, employee.ErrValidationFailed), errors.Is(err, employee.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, employee.ErrAlreadyTerminated),
		errors.Is(err, employee.ErrAlreadyPromoted),
		errors.Is(err, employee.ErrNotPromoted):
		return http.StatusConflict
	case errors.Is(err, employee.ErrEmployeeNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
