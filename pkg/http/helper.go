package http

import (
	"net/http"
	"strconv"
	"time"

	apperrors "visitdesk/pkg/errors"
)

// ActorHeader carries the authenticated actor's principal ID. Authentication
// itself happens upstream in the identity service; the engine only threads
// the actor through explicitly.
const ActorHeader = "X-Actor-ID"

func ExtractActor(r *http.Request) (string, error) {
	actor := r.Header.Get(ActorHeader)
	if actor == "" {
		return "", apperrors.Unauthorized("Missing " + ActorHeader + " header")
	}
	return actor, nil
}

func ExtractDate(r *http.Request, param string) (time.Time, error) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return time.Time{}, apperrors.InvalidInput("missing " + param + " parameter")
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, apperrors.InvalidInput("invalid " + param + " parameter, expected YYYY-MM-DD: " + raw)
	}
	return date, nil
}

func ExtractTime(r *http.Request, param string) (time.Time, error) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return time.Time{}, apperrors.InvalidInput("missing " + param + " parameter")
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, apperrors.InvalidInput("invalid " + param + " parameter, expected RFC3339: " + raw)
	}
	return t, nil
}

func ExtractInt(r *http.Request, param string) (int, error) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return 0, apperrors.InvalidInput("missing " + param + " parameter")
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.InvalidInput("invalid " + param + " parameter: " + raw)
	}
	return v, nil
}
