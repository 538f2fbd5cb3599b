package service

import (
	commonerrors "github.com/AlibekovAA/dh-notes/internal/common/errors"
	"github.com/AlibekovAA/dh-notes/internal/observability/metrics"
)

func recordOperation(operation string, err error) {
	result := "success"
	if err != nil {
		result = "error"
		if de, ok := commonerrors.AsDomainError(err); ok {
			result = string(de.Category())
		}
	}
	metrics.NoteOperationsTotal.WithLabelValues(operation, result).Inc()
}
