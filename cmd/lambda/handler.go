package main

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/lambdacontext"

	"github.com/baharkarakas/finflow-backend/internal/models"
	"github.com/baharkarakas/finflow-backend/internal/services"
)

// Event asks for one page of a user's transactions, or a single record when
// TransactionID is set.
type Event struct {
	UserID        string                  `json:"userId"`
	TransactionID string                  `json:"transactionId,omitempty"`
	Query         models.TransactionQuery `json:"query"`
}

// Response carries exactly one of Page or Result.
type Response struct {
	Page   *models.TransactionPage   `json:"page,omitempty"`
	Result *models.TransactionResult `json:"result,omitempty"`
}

type handler struct {
	svc *services.TransactionService
}

// Handle never returns an error; failures travel in the envelope.
func (h *handler) Handle(ctx context.Context, ev Event) (Response, error) {
	reqID := ""
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		reqID = lc.AwsRequestID
	}

	if ev.TransactionID != "" {
		res := h.svc.GetByID(ctx, ev.TransactionID)
		if res.Data != nil && res.Data.UserID != ev.UserID {
			res = models.TransactionResult{}
		}
		slog.Info("lambda get", "request_id", reqID, "found", res.Data != nil, "error", res.Error)
		return Response{Result: &res}, nil
	}

	page := h.svc.List(ctx, ev.UserID, ev.Query)
	slog.Info("lambda list", "request_id", reqID, "total", page.Pagination.Total, "error", page.Error)
	return Response{Page: &page}, nil
}
