package http

import (
	"net/http"
	"strconv"

	"bokclean/pkg/config"
	apperrors "bokclean/pkg/errors"
)

// HeaderUserID carries the authenticated user identity, set by the
// API gateway in front of these services.
const HeaderUserID = "X-User-ID"

func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64 = 0
	if s := query.Get("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = int64(v)
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	return limit, offset, nil
}

// ExtractUserID reads the gateway-set identity header. Returns an
// Unauthorized error when the header is absent.
func ExtractUserID(r *http.Request) (string, error) {
	userID := r.Header.Get(HeaderUserID)
	if userID == "" {
		return "", apperrors.Unauthorized("missing user identity")
	}
	return userID, nil
}
