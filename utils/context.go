package utils

import (
	"context"

	"github.com/sirupsen/logrus"
)

type contextString string

type ctxKeys struct {
	SteamID     contextString
	Log         contextString
	RequestID   contextString
	RequestType contextString
}

// CtxKeys is context value keys
var CtxKeys = ctxKeys{
	SteamID:     "steamID",
	Log:         "Log",
	RequestID:   "requestID",
	RequestType: "requestType",
}

// SteamIDFromContext extracts the authenticated staff member's steam ID, empty when anonymous
func SteamIDFromContext(ctx context.Context) string {
	v := ctx.Value(CtxKeys.SteamID)
	if v == nil {
		return ""
	}
	return v.(string)
}

// RequestID extracts requestID from context
func RequestID(ctx context.Context) string {
	v := ctx.Value(CtxKeys.RequestID)
	if v == nil {
		return ""
	}
	return v.(string)
}

// RequestType extracts requestType from context
func RequestType(ctx context.Context) string {
	v := ctx.Value(CtxKeys.RequestType)
	if v == nil {
		return ""
	}
	return v.(string)
}

// LogCtx returns logger with certain context values included
func LogCtx(ctx context.Context) *logrus.Entry {
	l := ctx.Value(CtxKeys.Log).(*logrus.Logger)
	entry := logrus.NewEntry(l)

	if steamID := SteamIDFromContext(ctx); steamID != "" {
		entry = entry.WithField(string(CtxKeys.SteamID), steamID)
	}
	if requestID := RequestID(ctx); len(requestID) > 0 {
		entry = entry.WithField(string(CtxKeys.RequestID), requestID)
	}
	if requestType := RequestType(ctx); len(requestType) > 0 {
		entry = entry.WithField(string(CtxKeys.RequestType), requestType)
	}

	return entry
}
