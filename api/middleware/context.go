package middleware

import "context"

type contextKey string

const (
	ctxAdminID     contextKey = "admin_id"
	ctxRole        contextKey = "admin_role"
	ctxAccessID    contextKey = "access_id"
	ctxCartSession contextKey = "cart_session"
)

func AdminIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxAdminID)
}

func RoleFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxRole)
}

// AccessIDFromContext returns the jti of the access token that authenticated the request.
func AccessIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxAccessID)
}

func CartSessionFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxCartSession)
}

// WithAdminID injects the admin identifier into the context.
func WithAdminID(ctx context.Context, adminID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAdminID, adminID)
}

func WithRole(ctx context.Context, role string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRole, role)
}

func WithAccessID(ctx context.Context, accessID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAccessID, accessID)
}

func WithCartSession(ctx context.Context, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxCartSession, sessionID)
}

func stringFromContext(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}
