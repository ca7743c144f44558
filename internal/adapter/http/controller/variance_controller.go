package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/api-sage/teller-posting-engine/internal/adapter/http/models"
	"github.com/api-sage/teller-posting-engine/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/teller-posting-engine/internal/commons"
	"github.com/api-sage/teller-posting-engine/internal/domain"
	"github.com/api-sage/teller-posting-engine/internal/logger"
	"github.com/api-sage/teller-posting-engine/internal/usecase/service_interfaces"
	"github.com/shopspring/decimal"
)

type VarianceController struct {
	varianceService service_interfaces.VarianceService
	sessionRepo     repo_interfaces.TellerSessionRepository
}

func NewVarianceController(
	varianceService service_interfaces.VarianceService,
	sessionRepo repo_interfaces.TellerSessionRepository,
) *VarianceController {
	return &VarianceController{varianceService: varianceService, sessionRepo: sessionRepo}
}

func (c *VarianceController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	handler := http.HandlerFunc(c.recordVariance)
	if authMiddleware != nil {
		mux.Handle("/record-variance", authMiddleware(handler))
		return
	}
	mux.Handle("/record-variance", handler)
}

func (c *VarianceController) recordVariance(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.CommittedBatchResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.RecordVarianceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.CommittedBatchResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	if err := req.Validate(); err != nil {
		response := commons.ErrorResponse[models.CommittedBatchResponse]("validation failed", strings.Split(err.Error(), "; ")...)
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	session, err := c.sessionRepo.Get(r.Context(), req.SessionID)
	if err != nil {
		logError(r, err, logger.Fields{"sessionId": req.SessionID})
		status := http.StatusInternalServerError
		message := "failed to load teller session"
		if errors.Is(err, domain.ErrRecordNotFound) {
			status = http.StatusNotFound
			message = "Teller session not found"
		}
		response := commons.ErrorResponse[models.CommittedBatchResponse](message)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	teller := tellerContextFromSession(session, req.ActorID, req.WorkstationID)
	declared := mustCents(req.DeclaredAmount)
	expected := mustCents(req.ExpectedAmount)
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))

	var batch *domain.CommittedBatch
	switch strings.TrimSpace(req.Flow) {
	case "handoff":
		batch, err = c.varianceService.RecordHandoffVariance(r.Context(), teller, declared, expected, currency)
	default:
		batch, err = c.varianceService.RecordCloseVariance(r.Context(), teller, declared, expected, currency)
	}
	if err != nil {
		logError(r, err, logger.Fields{"sessionId": req.SessionID, "flow": req.Flow})
		status := statusForError(err)
		response := commons.ErrorResponse[models.CommittedBatchResponse](messageForError(err), err.Error())
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	if batch == nil {
		response := commons.SuccessResponse("No variance to record", struct{}{})
		writeJSON(w, http.StatusOK, response)
		logResponse(r, http.StatusOK, response, start)
		return
	}

	response := commons.SuccessResponse("Variance recorded", models.MapCommittedBatch(*batch))
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

// mustCents is only called after Validate has checked the decimal.
func mustCents(value string) int64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0
	}
	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return 0
	}
	return amount.Shift(2).IntPart()
}
