package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/bexps-backend/internal/http/response"
	"github.com/yungbote/bexps-backend/internal/platform/apierr"
)

// parseID accepts positive decimal integers only.
func parseID(raw string) (uint, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "+") {
		return 0, false
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 || uint64(uint(n)) != n {
		return 0, false
	}
	return uint(n), true
}

// pathIDs resolves the named path params, answering 404 on the first bad one.
func pathIDs(c *gin.Context, names ...string) ([]uint, bool) {
	out := make([]uint, 0, len(names))
	for _, name := range names {
		id, ok := parseID(c.Param(name))
		if !ok {
			response.RespondAPIError(c, apierr.NotFound(strings.TrimSuffix(name, "_id")))
			return nil, false
		}
		out = append(out, id)
	}
	return out, true
}

func locationURL(buildingID, locationID uint) string {
	return fmt.Sprintf("/api/buildings/%d/locations/%d", buildingID, locationID)
}
