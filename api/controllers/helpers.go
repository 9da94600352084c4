package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/polly-storefront/api/middleware"
	pkgerrors "github.com/angelmondragon/polly-storefront/pkg/errors"
)

func adminIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.AdminIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid admin id")
	}
	return id, nil
}
