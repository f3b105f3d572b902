package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"shipyard/internal/blob"
	"shipyard/pkg/domain"
)

type violationBody struct {
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// writeServiceError maps a typed service outcome onto its status code.
// Internal failures are logged and reported without detail.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		notFound   domain.NotFoundError
		duplicate  domain.DuplicateMaterialError
		unknown    domain.UnknownMaterialError
		inUse      domain.MaterialInUseError
		blocked    domain.RuleViolationError
		constraint domain.ConstraintViolationError
	)
	switch {
	case errors.As(err, &notFound), errors.Is(err, blob.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &duplicate), errors.As(err, &unknown):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &inUse):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &blocked):
		violations := make([]violationBody, 0, len(blocked.Result.Violations))
		for _, v := range blocked.Result.Violations {
			violations = append(violations, violationBody{Rule: v.Rule, Severity: string(v.Severity), Message: v.Message})
		}
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": err.Error(), "violations": violations})
	default:
		fields := []zap.Field{zap.String("request_id", middleware.GetReqID(r.Context())), zap.Error(err)}
		if errors.As(err, &constraint) {
			fields = append(fields, zap.String("entity", string(constraint.Entity)), zap.Int64("entity_id", constraint.ID))
		}
		h.logger.Error("request failed", fields...)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
