package httpapi

import (
	"net/http"

	"safetrack/internal/usecase/records"
)

type employeeRequest struct {
	Name               string `json:"name"`
	RegistrationNumber string `json:"registration_number"`
	Role               string `json:"role"`
	LicenseCategory    string `json:"license_category"`
	LicenseExpiry      string `json:"license_expiry"`
}

func (req employeeRequest) input() records.EmployeeInput {
	return records.EmployeeInput{
		Name:               req.Name,
		RegistrationNumber: req.RegistrationNumber,
		Role:               req.Role,
		LicenseCategory:    req.LicenseCategory,
		LicenseExpiry:      req.LicenseExpiry,
	}
}

func (h *Handler) listEmployees(w http.ResponseWriter, r *http.Request) {
	items, err := h.records.ListEmployees(r.Context())
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Handler) createEmployee(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	created, err := h.records.CreateEmployee(r.Context(), req.input())
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *Handler) getEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	emp, err := h.records.GetEmployee(r.Context(), id)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, emp)
}

func (h *Handler) updateEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	var req employeeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	updated, err := h.records.UpdateEmployee(r.Context(), id, req.input())
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	if err := h.records.DeleteEmployee(r.Context(), id); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listEmployeeTrainings(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	items, err := h.records.ListTrainings(r.Context(), &id)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Handler) listEmployeeExams(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	items, err := h.records.ListExams(r.Context(), &id)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}
