package handler

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"account-ledger/internal/errors"
	"account-ledger/internal/service"
)

type TransferHandler struct {
	ledger *service.LedgerService
}

func NewTransferHandler(ledger *service.LedgerService) *TransferHandler {
	return &TransferHandler{
		ledger: ledger,
	}
}

type TransferRequest struct {
	FromAccount string `json:"from_account" validate:"required"`
	ToAccount   string `json:"to_account" validate:"required"`
	Amount      string `json:"amount" validate:"required"`
}

type TransferResponse struct {
	Message     string `json:"message"`
	FromAccount string `json:"from_account"`
	ToAccount   string `json:"to_account"`
	Amount      string `json:"amount"`
}

func (h *TransferHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if appErr := decodeAndValidate(r, &req); appErr != nil {
		writeError(w, appErr)
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, errors.NewAppError(errors.InvalidAmount, "invalid amount format"))
		return
	}

	if err := h.ledger.Transfer(req.FromAccount, req.ToAccount, amount); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, TransferResponse{
		Message:     fmt.Sprintf("transferred %s from %s to %s", amount, req.FromAccount, req.ToAccount),
		FromAccount: req.FromAccount,
		ToAccount:   req.ToAccount,
		Amount:      amount.String(),
	})
}
