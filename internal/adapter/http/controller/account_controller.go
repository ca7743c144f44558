package controller

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/api-sage/teller-posting-engine/internal/adapter/http/models"
	"github.com/api-sage/teller-posting-engine/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/teller-posting-engine/internal/commons"
	"github.com/api-sage/teller-posting-engine/internal/domain"
	"github.com/api-sage/teller-posting-engine/internal/logger"
)

type AccountController struct {
	accountRepo repo_interfaces.AccountRepository
}

func NewAccountController(accountRepo repo_interfaces.AccountRepository) *AccountController {
	return &AccountController{accountRepo: accountRepo}
}

func (c *AccountController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	handler := http.HandlerFunc(c.getAccount)
	if authMiddleware != nil {
		mux.Handle("/get-account", authMiddleware(handler))
		return
	}
	mux.Handle("/get-account", handler)
}

func (c *AccountController) getAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[models.AccountResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	accountNumber := strings.TrimSpace(r.URL.Query().Get("accountNumber"))
	if accountNumber == "" {
		response := commons.ErrorResponse[models.AccountResponse]("validation failed", "accountNumber is required")
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	account, err := c.accountRepo.GetByAccountNumber(r.Context(), accountNumber)
	if err != nil {
		logError(r, err, logger.Fields{"accountNumber": accountNumber})
		if errors.Is(err, domain.ErrRecordNotFound) {
			response := commons.ErrorResponse[models.AccountResponse]("Record not found")
			writeJSON(w, http.StatusNotFound, response)
			logResponse(r, http.StatusNotFound, response, start)
			return
		}
		response := commons.ErrorResponse[models.AccountResponse]("failed to load account", err.Error())
		writeJSON(w, http.StatusInternalServerError, response)
		logResponse(r, http.StatusInternalServerError, response, start)
		return
	}

	response := commons.SuccessResponse("Account retrieved", models.MapAccount(account))
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
