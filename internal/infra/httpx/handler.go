package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/order-splitter/internal/coordinator/sagalog"
	"github.com/jcmexdev/order-splitter/internal/core/domain"
	"github.com/jcmexdev/order-splitter/internal/core/ports"
	"github.com/jcmexdev/order-splitter/internal/core/split"
)

// CredentialStore accepts an Admin API token obtained out of band.
type CredentialStore interface {
	Store(ctx context.Context, token string)
}

// HandlerOptions carries the optional collaborators. A nil field disables
// the endpoint that needs it.
type HandlerOptions struct {
	Credentials CredentialStore
	History     sagalog.Reader
}

// Handler serves the webhook, the manual operator endpoints and the health probe.
type Handler struct {
	service     ports.SplitService
	policy      split.Policy
	credentials CredentialStore
	history     sagalog.Reader
}

func NewHandler(service ports.SplitService, policy split.Policy, opts HandlerOptions) *Handler {
	return &Handler{
		service:     service,
		policy:      policy,
		credentials: opts.Credentials,
		history:     opts.History,
	}
}

// OrdersPaid receives an authenticated orders/paid webhook and runs the split
// synchronously: a 500 makes the platform retry, and retries are safe because
// processed orders are skipped.
func (h *Handler) OrdersPaid(w http.ResponseWriter, r *http.Request) {
	var payload ordersPaidPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		slog.ErrorContext(r.Context(), "failed to parse webhook payload", "error", err)
		writeError(w, http.StatusBadRequest, "invalid_json", "Bad Request")
		return
	}
	if payload.AdminGraphQLAPIID == "" {
		writeError(w, http.StatusBadRequest, "order_id_required", "admin_graphql_api_id is required")
		return
	}

	orderID := payload.AdminGraphQLAPIID
	slog.InfoContext(r.Context(), "received orders/paid webhook",
		"request_id", middleware.GetReqID(r.Context()),
		"order_id", orderID,
		"order_name", payload.Name,
	)

	if h.carriesSplitTag(payload.Tags) {
		slog.InfoContext(r.Context(), "skipping, split tag found in webhook payload", "order_id", orderID)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
		return
	}

	// Detach from the request so a dropped connection cannot stop the run between mutations.
	ctx := context.WithoutCancel(r.Context())
	result, err := h.service.RunSplit(ctx, orderID)
	if err != nil {
		slog.ErrorContext(ctx, "order split failed", "order_id", orderID, "error", err)
		writeError(w, http.StatusInternalServerError, "split_failed", "Internal Server Error")
		return
	}

	slog.InfoContext(ctx, "processing complete", "order_id", orderID, "action", result.Outcome)
	writeJSON(w, http.StatusOK, mapSplitResult(result))
}

// carriesSplitTag checks the comma-separated tag string of the webhook payload.
func (h *Handler) carriesSplitTag(tags string) bool {
	for _, tag := range strings.Split(tags, ",") {
		tag = strings.TrimSpace(tag)
		if tag == h.policy.MarkerTag || tag == h.policy.ProcessedTag {
			return true
		}
	}
	return false
}

// SplitOrder is the operator-triggered split.
func (h *Handler) SplitOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.resolveOrder(w, r)
	if !ok {
		return
	}

	slog.InfoContext(r.Context(), "manual split triggered", "order_id", orderID)

	ctx := context.WithoutCancel(r.Context())
	result, err := h.service.RunSplit(ctx, orderID)
	if err != nil {
		slog.ErrorContext(ctx, "manual split failed", "order_id", orderID, "error", err)
		writeError(w, http.StatusInternalServerError, "split_failed", err.Error())
		return
	}

	slog.InfoContext(ctx, "manual split complete", "order_id", orderID, "action", result.Outcome)
	writeJSON(w, http.StatusOK, mapSplitResult(result))
}

// PreviewOrder shows what a split would do without changing anything.
func (h *Handler) PreviewOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.resolveOrder(w, r)
	if !ok {
		return
	}

	preview, err := h.service.PreviewSplit(r.Context(), orderID)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "order_not_found", "Order not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "preview fetch failed", "order_id", orderID, "error", err)
		writeError(w, http.StatusInternalServerError, "preview_failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, mapPreview(preview))
}

// StoreAccessToken accepts a token from the installation flow.
func (h *Handler) StoreAccessToken(w http.ResponseWriter, r *http.Request) {
	if h.credentials == nil {
		writeError(w, http.StatusNotFound, "not_configured", "credential store is not configured")
		return
	}

	var req AccessTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
		return
	}
	if strings.TrimSpace(req.AccessToken) == "" {
		writeError(w, http.StatusBadRequest, "access_token_required", "accessToken is required")
		return
	}

	h.credentials.Store(r.Context(), strings.TrimSpace(req.AccessToken))
	w.WriteHeader(http.StatusNoContent)
}

// RunHistory lists the journal entries recorded for ?orderId=, oldest first.
func (h *Handler) RunHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, http.StatusNotFound, "not_configured", "run journal is not configured")
		return
	}

	orderID := r.URL.Query().Get("orderId")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "order_id_required", "orderId query parameter is required")
		return
	}

	entries, err := h.history.ListByOrder(r.Context(), orderID)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to read run journal", "order_id", orderID, "error", err)
		writeError(w, http.StatusInternalServerError, "journal_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, mapRunEntries(entries))
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// resolveOrder decodes an OrderRequest and maps it to an order id, writing the
// error response itself when that is not possible.
func (h *Handler) resolveOrder(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
		return "", false
	}

	if req.OrderID != "" {
		return req.OrderID, true
	}
	if req.OrderNumber == "" {
		writeError(w, http.StatusBadRequest, "order_required", "Provide orderNumber or orderId")
		return "", false
	}

	orderID, err := h.service.ResolveOrderNumber(r.Context(), req.OrderNumber)
	if errors.Is(err, domain.ErrNotFound) {
		number := strings.TrimSpace(strings.Replace(req.OrderNumber, "#", "", 1))
		writeError(w, http.StatusNotFound, "order_not_found", fmt.Sprintf("Order #%s not found", number))
		return "", false
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "order lookup failed", "order_number", req.OrderNumber, "error", err)
		writeError(w, http.StatusInternalServerError, "lookup_failed", err.Error())
		return "", false
	}
	return orderID, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error: msg,
		Code:  code,
	})
}
