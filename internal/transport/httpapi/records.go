package httpapi

import (
	"net/http"

	"safetrack/internal/usecase/records"
)

type trainingRequest struct {
	EmployeeID   uint64 `json:"employee_id"`
	TrainingName string `json:"training_name"`
	PerformedOn  string `json:"performed_on"`
	ExpiresOn    string `json:"expires_on"`
}

type examRequest struct {
	EmployeeID uint64 `json:"employee_id"`
	ExamType   string `json:"exam_type"`
	ExamDate   string `json:"exam_date"`
	Result     string `json:"result"`
	ExpiresOn  string `json:"expires_on"`
}

// incidentRequest leaves employee_id out for third-party incidents.
type incidentRequest struct {
	EmployeeID   *uint64 `json:"employee_id"`
	OccurredOn   string  `json:"occurred_on"`
	Severity     string  `json:"severity"`
	IncidentType string  `json:"incident_type"`
	Location     string  `json:"location"`
	RootCause    string  `json:"root_cause"`
	BodyParts    string  `json:"body_parts"`
	LostWorkdays int     `json:"lost_workdays"`
}

func (h *Handler) listTrainings(w http.ResponseWriter, r *http.Request) {
	employeeID, err := optionalQueryID(r, "employee_id")
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	items, err := h.records.ListTrainings(r.Context(), employeeID)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Handler) createTraining(w http.ResponseWriter, r *http.Request) {
	var req trainingRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	created, err := h.records.AddTraining(r.Context(), records.TrainingInput{
		EmployeeID:   req.EmployeeID,
		TrainingName: req.TrainingName,
		PerformedOn:  req.PerformedOn,
		ExpiresOn:    req.ExpiresOn,
	})
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *Handler) deleteTraining(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.records.DeleteTraining)
}

func (h *Handler) listExams(w http.ResponseWriter, r *http.Request) {
	employeeID, err := optionalQueryID(r, "employee_id")
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	items, err := h.records.ListExams(r.Context(), employeeID)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Handler) createExam(w http.ResponseWriter, r *http.Request) {
	var req examRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	created, err := h.records.AddExam(r.Context(), records.ExamInput{
		EmployeeID: req.EmployeeID,
		ExamType:   req.ExamType,
		ExamDate:   req.ExamDate,
		Result:     req.Result,
		ExpiresOn:  req.ExpiresOn,
	})
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *Handler) deleteExam(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.records.DeleteExam)
}

func (h *Handler) listIncidents(w http.ResponseWriter, r *http.Request) {
	items, err := h.records.ListIncidents(r.Context())
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Handler) createIncident(w http.ResponseWriter, r *http.Request) {
	var req incidentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	created, err := h.records.ReportIncident(r.Context(), records.IncidentInput{
		EmployeeID:   req.EmployeeID,
		OccurredOn:   req.OccurredOn,
		Severity:     req.Severity,
		IncidentType: req.IncidentType,
		Location:     req.Location,
		RootCause:    req.RootCause,
		BodyParts:    req.BodyParts,
		LostWorkdays: req.LostWorkdays,
	})
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *Handler) deleteIncident(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.records.DeleteIncident)
}
