package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/bgoldmann/darkstore/internal/delivery/http/middleware"
	"github.com/bgoldmann/darkstore/internal/delivery/http/response"
	"github.com/bgoldmann/darkstore/internal/domain"
	escrowdto "github.com/bgoldmann/darkstore/internal/usecase/dto/escrow"
	escrowuc "github.com/bgoldmann/darkstore/internal/usecase/escrow"
	"github.com/gin-gonic/gin"
)

type EscrowHandler struct {
	uc escrowuc.EscrowUsecase
}

func NewEscrowHandler(uc escrowuc.EscrowUsecase) *EscrowHandler {
	return &EscrowHandler{uc: uc}
}

type OpenDisputeRequest struct {
	EvidenceEncrypted string `json:"evidence_encrypted"`
}

type ResolveDisputeRequest struct {
	Resolution string `json:"resolution" binding:"required"`
}

type FulfillmentRequest struct {
	Status string `json:"status" binding:"required"`
}

type OperatorNotesRequest struct {
	Notes string `json:"notes"`
}

type transition func(ctx context.Context, actor domain.Actor, ref string) (*domain.Order, error)

// respond writes the updated order, or the rejection reason with the unchanged order when visible.
func (h *EscrowHandler) respond(c *gin.Context, actor domain.Actor, order *domain.Order, err error) {
	if err == nil {
		response.Success(c, h.uc.Project(actor, order))
		return
	}

	httpCode, code := statusFor(err)
	if httpCode == http.StatusInternalServerError {
		slog.Error("escrow action failed", "order_ref", c.Param("ref"), "actor_id", actor.ID, "error", err.Error())
	}
	var data interface{}
	if order != nil {
		data = h.uc.Project(actor, order)
	}
	response.Rejected(c, httpCode, code, messageFor(httpCode, err), data)
}

func (h *EscrowHandler) run(fn transition) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := middleware.ActorFrom(c)
		if !ok {
			response.Error(c, http.StatusUnauthorized, response.ErrUnauthorized, "unauthenticated")
			return
		}
		order, err := fn(c.Request.Context(), actor, c.Param("ref"))
		h.respond(c, actor, order, err)
	}
}

func (h *EscrowHandler) MarkFunded(c *gin.Context) {
	h.run(h.uc.MarkFunded)(c)
}

func (h *EscrowHandler) ReportPayment(c *gin.Context) {
	h.run(h.uc.ReportPayment)(c)
}

func (h *EscrowHandler) ConfirmRelease(c *gin.Context) {
	h.run(h.uc.ConfirmRelease)(c)
}

func (h *EscrowHandler) CancelEscrow(c *gin.Context) {
	h.run(h.uc.CancelEscrow)(c)
}

func (h *EscrowHandler) OpenDispute(c *gin.Context) {
	var req OpenDisputeRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	h.run(func(ctx context.Context, actor domain.Actor, ref string) (*domain.Order, error) {
		return h.uc.OpenDispute(ctx, actor, ref, req.EvidenceEncrypted)
	})(c)
}

func (h *EscrowHandler) ResolveDispute(c *gin.Context) {
	var req ResolveDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	h.run(func(ctx context.Context, actor domain.Actor, ref string) (*domain.Order, error) {
		return h.uc.ResolveDispute(ctx, actor, ref, domain.EscrowStatus(req.Resolution))
	})(c)
}

func (h *EscrowHandler) SetFulfillmentStatus(c *gin.Context) {
	var req FulfillmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	h.run(func(ctx context.Context, actor domain.Actor, ref string) (*domain.Order, error) {
		return h.uc.SetFulfillmentStatus(ctx, actor, ref, domain.OrderStatus(req.Status))
	})(c)
}

func (h *EscrowHandler) SetOperatorNotes(c *gin.Context) {
	var req OperatorNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	h.run(func(ctx context.Context, actor domain.Actor, ref string) (*domain.Order, error) {
		return h.uc.SetOperatorNotes(ctx, actor, ref, req.Notes)
	})(c)
}

func (h *EscrowHandler) GetOrder(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.ErrUnauthorized, "unauthenticated")
		return
	}
	out, err := h.uc.GetOrder(c.Request.Context(), actor, c.Param("ref"))
	if err != nil {
		httpCode, code := statusFor(err)
		response.Error(c, httpCode, code, messageFor(httpCode, err))
		return
	}
	response.Success(c, out)
}

func (h *EscrowHandler) ListOrders(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.ErrUnauthorized, "unauthenticated")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	input := &escrowdto.ListOrdersInput{
		Scope:        c.Query("scope"),
		BuyerID:      c.Query("buyer_id"),
		SellerID:     c.Query("seller_id"),
		EscrowStatus: c.Query("escrow_status"),
		Status:       c.Query("status"),
		Page:         page,
		Limit:        limit,
	}

	out, err := h.uc.ListOrders(c.Request.Context(), actor, input)
	if err != nil {
		httpCode, code := statusFor(err)
		if httpCode == http.StatusInternalServerError {
			slog.Error("failed to list orders", "actor_id", actor.ID, "error", err.Error())
		}
		response.Error(c, httpCode, code, messageFor(httpCode, err))
		return
	}
	response.Success(c, out)
}
