package handlers

import (
	"log/slog"
	"net/http"

	"github.com/bgoldmann/darkstore/internal/delivery/http/middleware"
	"github.com/bgoldmann/darkstore/internal/delivery/http/response"
	checkoutuc "github.com/bgoldmann/darkstore/internal/usecase/checkout"
	escrowdto "github.com/bgoldmann/darkstore/internal/usecase/dto/escrow"
	escrowuc "github.com/bgoldmann/darkstore/internal/usecase/escrow"
	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	checkoutUc checkoutuc.CheckoutUsecase
	escrowUc   escrowuc.EscrowUsecase
}

func NewCheckoutHandler(checkoutUc checkoutuc.CheckoutUsecase, escrowUc escrowuc.EscrowUsecase) *CheckoutHandler {
	return &CheckoutHandler{checkoutUc: checkoutUc, escrowUc: escrowUc}
}

type CheckoutRequest struct {
	PaymentMethod  string `json:"payment_method" binding:"omitempty,max=32"`
	NotesEncrypted string `json:"notes_encrypted"`
}

func (h *CheckoutHandler) Checkout(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.ErrUnauthorized, "unauthenticated")
		return
	}

	var req CheckoutRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	order, err := h.checkoutUc.Checkout(c.Request.Context(), actor, &escrowdto.CheckoutInput{
		PaymentMethod:  req.PaymentMethod,
		NotesEncrypted: req.NotesEncrypted,
	})
	if err != nil {
		httpCode, code := statusFor(err)
		if httpCode == http.StatusInternalServerError {
			slog.Error("checkout failed", "actor_id", actor.ID, "error", err.Error())
		}
		response.Error(c, httpCode, code, messageFor(httpCode, err))
		return
	}
	response.Created(c, h.escrowUc.Project(actor, order))
}
