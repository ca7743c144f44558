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
)

type PostingController struct {
	postingService  service_interfaces.PostingService
	reversalService service_interfaces.ReversalService
	recipeService   service_interfaces.RecipeService
	workflowService service_interfaces.WorkflowService
	sessionRepo     repo_interfaces.TellerSessionRepository
}

func NewPostingController(
	postingService service_interfaces.PostingService,
	reversalService service_interfaces.ReversalService,
	recipeService service_interfaces.RecipeService,
	workflowService service_interfaces.WorkflowService,
	sessionRepo repo_interfaces.TellerSessionRepository,
) *PostingController {
	return &PostingController{
		postingService:  postingService,
		reversalService: reversalService,
		recipeService:   recipeService,
		workflowService: workflowService,
		sessionRepo:     sessionRepo,
	}
}

func (c *PostingController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	wrap := func(handler http.HandlerFunc) http.Handler {
		if authMiddleware != nil {
			return authMiddleware(handler)
		}
		return handler
	}

	mux.Handle("/submit-posting", wrap(c.submitPosting))
	mux.Handle("/validate-posting", wrap(c.validatePosting))
	mux.Handle("/submit-reversal", wrap(c.submitReversal))
}

func (c *PostingController) submitPosting(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.CommittedBatchResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.SubmitPostingRequest
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

	postingRequest, status, response := c.buildPostingRequest(r, req)
	if response != nil {
		writeJSON(w, status, *response)
		logResponse(r, status, *response, start)
		return
	}

	batch, err := c.postingService.SubmitPosting(r.Context(), *postingRequest)
	if err != nil {
		logError(r, err, logger.Fields{"requestId": req.RequestID})
		status := statusForError(err)
		response := commons.ErrorResponse[models.CommittedBatchResponse](messageForError(err), err.Error())
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	success := commons.SuccessResponse("Posting committed", models.MapCommittedBatch(batch))
	writeJSON(w, http.StatusOK, success)
	logResponse(r, http.StatusOK, success, start)
}

// validatePosting runs the workflow and recipe checks without committing
// anything, so front ends can surface problems before the teller confirms.
func (c *PostingController) validatePosting(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.CommittedBatchResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.SubmitPostingRequest
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

	if _, status, response := c.buildPostingRequest(r, req); response != nil {
		writeJSON(w, status, *response)
		logResponse(r, status, *response, start)
		return
	}

	response := commons.SuccessResponse("Posting is valid", struct{}{})
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

// buildPostingRequest resolves the session, validates the workflow, and runs
// the recipe builder. A non-nil response means the request must be rejected
// with the accompanying status.
func (c *PostingController) buildPostingRequest(r *http.Request, req models.SubmitPostingRequest) (*domain.PostingRequest, int, *commons.Response[models.CommittedBatchResponse]) {
	session, err := c.sessionRepo.Get(r.Context(), req.SessionID)
	if err != nil {
		logError(r, err, logger.Fields{"sessionId": req.SessionID})
		if errors.Is(err, domain.ErrRecordNotFound) {
			response := commons.ErrorResponse[models.CommittedBatchResponse]("Teller session not found")
			return nil, http.StatusNotFound, &response
		}
		response := commons.ErrorResponse[models.CommittedBatchResponse]("failed to load teller session", err.Error())
		return nil, http.StatusInternalServerError, &response
	}

	teller := tellerContextFromSession(session, req.ActorID, req.WorkstationID)

	input, err := req.RecipeInput()
	if err != nil {
		response := commons.ErrorResponse[models.CommittedBatchResponse]("validation failed", err.Error())
		return nil, http.StatusBadRequest, &response
	}

	if err := c.workflowService.ValidateWorkflow(input, teller); err != nil {
		response := commons.ErrorResponse[models.CommittedBatchResponse]("validation failed", err.Error())
		return nil, http.StatusBadRequest, &response
	}

	metadata, legs := c.recipeService.BuildLegs(input, teller.DrawerReference())
	if len(legs) == 0 {
		response := commons.ErrorResponse[models.CommittedBatchResponse]("validation failed", "transaction amounts do not produce a balanced posting")
		return nil, http.StatusBadRequest, &response
	}
	for k, v := range req.Metadata {
		metadata[k] = v
	}

	postingRequest := domain.PostingRequest{
		Teller:      teller,
		RequestID:   strings.TrimSpace(req.RequestID),
		Type:        input.Type,
		AmountCents: input.AmountCents,
		Currency:    strings.ToUpper(strings.TrimSpace(req.Currency)),
		Legs:        legs,
		Metadata:    metadata,
		ApproverID:  optionalString(req.ApproverID),
	}
	return &postingRequest, 0, nil
}

func (c *PostingController) submitReversal(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.CommittedBatchResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.SubmitReversalRequest
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

	reversalRequest := domain.ReversalRequest{
		Teller:                tellerContextFromSession(session, req.ActorID, req.WorkstationID),
		RequestID:             strings.TrimSpace(req.RequestID),
		OriginalTransactionID: strings.TrimSpace(req.OriginalTransactionID),
		ReasonCode:            strings.TrimSpace(req.ReasonCode),
		Memo:                  strings.TrimSpace(req.Memo),
		ApproverID:            optionalString(req.ApproverID),
	}

	batch, err := c.reversalService.SubmitReversal(r.Context(), reversalRequest)
	if err != nil {
		logError(r, err, logger.Fields{"requestId": req.RequestID, "originalTransactionId": req.OriginalTransactionID})
		status := statusForError(err)
		response := commons.ErrorResponse[models.CommittedBatchResponse](messageForError(err), err.Error())
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	response := commons.SuccessResponse("Reversal committed", models.MapCommittedBatch(batch))
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func tellerContextFromSession(session domain.TellerSession, actorID, workstationID string) domain.TellerContext {
	drawerCode := ""
	if session.CashLocationCode != nil {
		drawerCode = *session.CashLocationCode
	}
	return domain.TellerContext{
		ActorID:     strings.TrimSpace(actorID),
		SessionID:   session.ID,
		SessionOpen: session.Status == domain.SessionStatusOpen,
		Branch: domain.Branch{
			ID:   session.BranchID,
			Code: session.BranchCode,
			Name: session.BranchName,
		},
		WorkstationID: strings.TrimSpace(workstationID),
		DrawerCode:    drawerCode,
	}
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyReversed):
		return http.StatusConflict
	case errors.Is(err, domain.ErrPolicy), errors.Is(err, domain.ErrUnbalanced):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func messageForError(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return "validation failed"
	case errors.Is(err, domain.ErrRecordNotFound):
		return "Record not found"
	case errors.Is(err, domain.ErrAlreadyReversed):
		return "Transaction already reversed"
	case errors.Is(err, domain.ErrPolicy):
		return "Posting not permitted"
	case errors.Is(err, domain.ErrUnbalanced):
		return "Posting is not balanced"
	default:
		return "internal error"
	}
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
