package handlers

import (
	"github.com/yungbote/bexps-backend/internal/platform/apierr"
	"github.com/yungbote/bexps-backend/internal/platform/logger"
)

// logUnexpected logs errors that will surface as 500s; client errors are
// already covered by the request log.
func logUnexpected(log *logger.Logger, msg string, err error) {
	if _, ok := apierr.As(err); ok {
		return
	}
	log.Error(msg, "error", err)
}
