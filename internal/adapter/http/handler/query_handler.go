package handler

import (
	"strconv"

	"rfid-card-wallet/internal/adapter/http/dto"
	"rfid-card-wallet/internal/core/domain"
	"rfid-card-wallet/internal/core/ports"
	"rfid-card-wallet/pkg/response"

	"github.com/gin-gonic/gin"
)

// QueryHandler serves the read-only card, ledger and catalog endpoints.
type QueryHandler struct {
	reportingSvc ports.ReportingService
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(reportingSvc ports.ReportingService) *QueryHandler {
	return &QueryHandler{reportingSvc: reportingSvc}
}

// GetCard handles GET /card/:uid.
func (h *QueryHandler) GetCard(c *gin.Context) {
	card, err := h.reportingSvc.GetCard(c.Request.Context(), c.Param("uid"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toCardResponse(card))
}

// ListCards handles GET /cards.
func (h *QueryHandler) ListCards(c *gin.Context) {
	cards, err := h.reportingSvc.ListCards(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := make([]dto.CardResponse, 0, len(cards))
	for i := range cards {
		resp = append(resp, toCardResponse(&cards[i]))
	}
	response.OK(c, resp)
}

// ListCardTransactions handles GET /transactions/:uid.
func (h *QueryHandler) ListCardTransactions(c *gin.Context) {
	txns, err := h.reportingSvc.ListCardTransactions(c.Request.Context(), c.Param("uid"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toTransactionResponses(txns))
}

// ListTransactions handles GET /transactions.
func (h *QueryHandler) ListTransactions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	txns, err := h.reportingSvc.ListTransactions(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toTransactionResponses(txns))
}

// ListProducts handles GET /products.
func (h *QueryHandler) ListProducts(c *gin.Context) {
	products, err := h.reportingSvc.ListProducts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, dto.ProductResponse{
			ID:    p.ID.String(),
			Name:  p.Name,
			Price: p.Price,
		})
	}
	response.OK(c, resp)
}

func toTransactionResponses(txns []domain.Transaction) []dto.TransactionResponse {
	resp := make([]dto.TransactionResponse, 0, len(txns))
	for i := range txns {
		resp = append(resp, toTransactionResponse(&txns[i]))
	}
	return resp
}
