package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ogurasousui/grpc-employee-records/internal/core/employee"
)

// employeeRequest は採用・更新の本文です。id と isEmployed は受け付けますが使用しません。
type employeeRequest struct {
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	Position   string  `json:"position"`
	Department string  `json:"department"`
	Salary     float64 `json:"salary"`
	ID         string  `json:"id,omitempty"`
	IsEmployed *bool   `json:"isEmployed,omitempty"`
}

func (r employeeRequest) fields() employee.Fields {
	return employee.Fields{
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Position:   r.Position,
		Department: r.Department,
		Salary:     r.Salary,
	}
}

type salaryRequest struct {
	Amount *float64 `json:"amount"`
}

type employeeResponse struct {
	ID         string     `json:"id"`
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	Position   string     `json:"position"`
	Department string     `json:"department"`
	Salary     float64    `json:"salary"`
	IsEmployed bool       `json:"isEmployed"`
	UpdatedAt  *time.Time `json:"updatedAt"`
}

func toEmployeeResponse(e *employee.Employee) employeeResponse {
	return employeeResponse{
		ID:         e.ID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Position:   e.Position,
		Department: e.Department,
		Salary:     e.Salary,
		IsEmployed: e.IsEmployed,
		UpdatedAt:  e.UpdatedAt,
	}
}

func toEmployeeResponses(employees []*employee.Employee) []employeeResponse {
	out := make([]employeeResponse, 0, len(employees))
	for _, e := range employees {
		out = append(out, toEmployeeResponse(e))
	}
	return out
}

// HireEmployee は POST /employees です。
func (h *Handler) HireEmployee(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, "invalid request body")
		return
	}

	hired, err := h.svc.HireEmployee(r.Context(), req.fields())
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}
	h.successResponse(w, r, http.StatusCreated, "employee hired", toEmployeeResponse(hired))
}

// GetEmployees は GET /employees です。
func (h *Handler) GetEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.svc.GetEmployees(r.Context())
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}
	h.successResponse(w, r, http.StatusOK, "employees retrieved", toEmployeeResponses(employees))
}

// SearchEmployees は GET /employees/search?q= です。
func (h *Handler) SearchEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.svc.SearchEmployees(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}
	h.successResponse(w, r, http.StatusOK, "employees retrieved", toEmployeeResponses(employees))
}

// GetEmployee は GET /employees/{id} です。
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	found, err := h.svc.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}
	h.successResponse(w, r, http.StatusOK, "employee retrieved", toEmployeeResponse(found))
}

// UpdateEmployee は PUT /employees/{id} です。
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, "invalid request body")
		return
	}

	updated, err := h.svc.UpdateEmployee(r.Context(), employee.UpdateEmployeeInput{
		ID:    chi.URLParam(r, "id"),
		Patch: req.fields(),
	})
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}
	h.successResponse(w, r, http.StatusOK, "employee updated", toEmployeeResponse(updated))
}

// FireEmployee は POST /employees/{id}/fire です。
func (h *Handler) FireEmployee(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "employee fired", h.svc.FireEmployee)
}

// PromoteEmployee は POST /employees/{id}/promote です。
func (h *Handler) PromoteEmployee(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "employee promoted", h.svc.PromoteEmployee)
}

// DemoteEmployee は POST /employees/{id}/demote です。
func (h *Handler) DemoteEmployee(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "employee demoted", h.svc.DemoteEmployee)
}

// DeleteEmployee は DELETE /employees/{id} です。削除したレコードを返します。
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "employee deleted", h.svc.DeleteEmployee)
}

// IncreaseSalary は POST /employees/{id}/salary です。
func (h *Handler) IncreaseSalary(w http.ResponseWriter, r *http.Request) {
	var req salaryRequest
	if err := h.readJSON(r, &req); err != nil || req.Amount == nil {
		h.badRequest(w, r, "amount must be a number")
		return
	}

	updated, err := h.svc.IncreaseSalary(r.Context(), employee.IncreaseSalaryInput{
		ID:     chi.URLParam(r, "id"),
		Amount: *req.Amount,
	})
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}
	h.successResponse(w, r, http.StatusOK, "salary increased", toEmployeeResponse(updated))
}

func (h *Handler) transition(
	w http.ResponseWriter,
	r *http.Request,
	msg string,
	op func(ctx context.Context, id string) (*employee.Employee, error),
) {
	result, err := op(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}
	h.successResponse(w, r, http.StatusOK, msg, toEmployeeResponse(result))
}
