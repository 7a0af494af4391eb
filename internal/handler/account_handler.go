package handler

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"account-ledger/internal/domain"
	"account-ledger/internal/errors"
	"account-ledger/internal/service"
)

type AccountHandler struct {
	ledger *service.LedgerService
}

func NewAccountHandler(ledger *service.LedgerService) *AccountHandler {
	return &AccountHandler{
		ledger: ledger,
	}
}

type CreateAccountRequest struct {
	Kind           string `json:"type" validate:"required"`
	OwnerName      string `json:"owner_name" validate:"required"`
	OwnerAddress   string `json:"owner_address"`
	InitialDeposit string `json:"initial_deposit" validate:"required"`
	InterestRate   string `json:"interest_rate,omitempty"`
	OverdraftLimit string `json:"overdraft_limit,omitempty"`
}

type AccountResponse struct {
	AccountNumber  string `json:"account_number"`
	Type           string `json:"type"`
	OwnerName      string `json:"owner_name"`
	Balance        string `json:"balance"`
	InterestRate   string `json:"interest_rate,omitempty"`
	OverdraftLimit string `json:"overdraft_limit,omitempty"`
}

type MutationResponse struct {
	Message       string `json:"message"`
	AccountNumber string `json:"account_number"`
	Balance       string `json:"balance"`
}

func toAccountResponse(account *domain.Account) AccountResponse {
	resp := AccountResponse{
		AccountNumber: account.Number,
		Type:          string(account.Kind),
		OwnerName:     account.Customer.Name,
		Balance:       account.Balance.String(),
	}
	switch account.Kind {
	case domain.KindSavings:
		resp.InterestRate = account.InterestRate.String()
	case domain.KindChecking:
		resp.OverdraftLimit = account.OverdraftLimit.String()
	}
	return resp
}

func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if appErr := decodeAndValidate(r, &req); appErr != nil {
		writeError(w, appErr)
		return
	}

	kind, ok := domain.ParseKind(req.Kind)
	if !ok {
		writeError(w, errors.NewAppErrorf(errors.InvalidInput, "unknown account type %q", req.Kind))
		return
	}

	initialDeposit, err := decimal.NewFromString(req.InitialDeposit)
	if err != nil {
		writeError(w, errors.NewAppError(errors.InvalidAmount, "invalid initial_deposit format"))
		return
	}

	rateOrLimitStr := req.InterestRate
	if kind == domain.KindChecking {
		rateOrLimitStr = req.OverdraftLimit
	}
	rateOrLimit := decimal.Zero
	if rateOrLimitStr != "" {
		rateOrLimit, err = decimal.NewFromString(rateOrLimitStr)
		if err != nil {
			writeError(w, errors.NewAppError(errors.InvalidAmount, "invalid rate or overdraft limit format"))
			return
		}
	}

	account, err := h.ledger.CreateAccount(&service.CreateAccountRequest{
		Kind:           kind,
		OwnerName:      req.OwnerName,
		OwnerAddress:   req.OwnerAddress,
		InitialDeposit: initialDeposit,
		RateOrLimit:    rateOrLimit,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAccountResponse(account))
}

func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	number := vars["account_number"]

	account, err := h.ledger.FindAccount(number)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAccountResponse(account))
}

func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.ledger.ListAccounts()
	if err != nil {
		writeError(w, err)
		return
	}

	responses := make([]AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		responses = append(responses, toAccountResponse(account))
	}

	writeJSON(w, http.StatusOK, responses)
}

type AmountRequest struct {
	Amount string `json:"amount" validate:"required"`
}

func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	number := mux.Vars(r)["account_number"]

	var req AmountRequest
	if appErr := decodeAndValidate(r, &req); appErr != nil {
		writeError(w, appErr)
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, errors.NewAppError(errors.InvalidAmount, "invalid amount format"))
		return
	}

	account, err := h.ledger.Deposit(number, amount)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MutationResponse{
		Message:       fmt.Sprintf("deposited %s into %s", amount, number),
		AccountNumber: number,
		Balance:       account.Balance.String(),
	})
}

func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	number := mux.Vars(r)["account_number"]

	var req AmountRequest
	if appErr := decodeAndValidate(r, &req); appErr != nil {
		writeError(w, appErr)
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, errors.NewAppError(errors.InvalidAmount, "invalid amount format"))
		return
	}

	account, err := h.ledger.Withdraw(number, amount)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MutationResponse{
		Message:       fmt.Sprintf("withdrew %s from %s", amount, number),
		AccountNumber: number,
		Balance:       account.Balance.String(),
	})
}
