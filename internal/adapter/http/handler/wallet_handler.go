package handler

import (
	"time"

	"rfid-card-wallet/internal/adapter/http/dto"
	"rfid-card-wallet/internal/core/domain"
	"rfid-card-wallet/internal/core/ports"
	"rfid-card-wallet/pkg/apperror"
	"rfid-card-wallet/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WalletHandler handles the top-up and payment endpoints.
type WalletHandler struct {
	walletSvc ports.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletSvc ports.WalletService) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc}
}

// Topup handles POST /topup.
func (h *WalletHandler) Topup(c *gin.Context) {
	var req dto.TopupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	cardUID := req.ResolveCardUID()
	if cardUID == "" {
		response.Error(c, apperror.Validation("card_uid is required"))
		return
	}
	if req.Amount == 0 {
		response.Error(c, apperror.Validation("amount is required"))
		return
	}

	result, err := h.walletSvc.TopUp(c.Request.Context(), ports.TopupRequest{
		CardUID:    cardUID,
		Amount:     req.Amount,
		HolderName: req.ResolveHolderName(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.TopupResponse{
		Message:     "Topup successful",
		Card:        toCardResponse(result.Card),
		Transaction: toTransactionResponse(result.Transaction),
	})
}

// Pay handles POST /pay.
func (h *WalletHandler) Pay(c *gin.Context) {
	var req dto.PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	cardUID := req.ResolveCardUID()
	if cardUID == "" {
		response.Error(c, apperror.Validation("card_uid (or uid) is required"))
		return
	}
	if req.ProductID == "" {
		response.Error(c, apperror.Validation("product_id is required"))
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		response.Error(c, apperror.Validation("product_id is not a valid id"))
		return
	}

	result, err := h.walletSvc.Pay(c.Request.Context(), ports.PaymentRequest{
		CardUID:   cardUID,
		ProductID: productID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.PayResponse{
		Status:      "success",
		Message:     "Payment successful",
		CardUID:     result.Card.UID,
		ProductName: result.Product.Name,
		Quantity:    result.Quantity,
		Amount:      result.TotalAmount,
		NewBalance:  result.Card.Balance,
		TxID:        result.Transaction.ID.String(),
	})
}

// toCardResponse converts domain.Card to DTO.
func toCardResponse(card *domain.Card) dto.CardResponse {
	return dto.CardResponse{
		CardUID:    card.UID,
		HolderName: card.HolderName,
		Balance:    card.Balance,
		LastTopup:  card.LastTopup,
		CreatedAt:  card.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  card.UpdatedAt.Format(time.RFC3339),
	}
}

// toTransactionResponse converts domain.Transaction to DTO.
func toTransactionResponse(txn *domain.Transaction) dto.TransactionResponse {
	resp := dto.TransactionResponse{
		ID:            txn.ID.String(),
		CardUID:       txn.CardUID,
		Amount:        txn.Amount,
		Type:          string(txn.Type),
		BalanceBefore: txn.BalanceBefore,
		BalanceAfter:  txn.BalanceAfter,
		ProductName:   txn.ProductName,
		Description:   txn.Description,
		CreatedAt:     txn.CreatedAt.Format(time.RFC3339),
	}
	if txn.ProductID != nil {
		s := txn.ProductID.String()
		resp.ProductID = &s
	}
	return resp
}
