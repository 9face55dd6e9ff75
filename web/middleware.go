package web

import (
	"context"
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"weeklog/internal/logger"
)

const headerRequestID = "X-Request-ID"

const requestDataKey contextKey = "request_data"

// requestData is shared by the middleware chain of one request. The auth
// middleware fills in UserID once the token is verified.
type requestData struct {
	RequestID string
	UserID    int64
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := strings.TrimSpace(r.Header.Get(headerRequestID))
		if reqID == "" {
			reqID = uuid.New().String()
		}
		w.Header().Set(headerRequestID, reqID)
		ctx := context.WithValue(r.Context(), requestDataKey, &requestData{RequestID: reqID})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getRequestData(ctx context.Context) *requestData {
	rd, _ := ctx.Value(requestDataKey).(*requestData)
	return rd
}

func RequestID(ctx context.Context) string {
	if rd := getRequestData(ctx); rd != nil {
		return rd.RequestID
	}
	return ""
}

func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", RequestID(r.Context()),
			}
			if rd := getRequestData(r.Context()); rd != nil && rd.UserID > 0 {
				fields = append(fields, "user_id", rd.UserID)
			}

			switch {
			case status >= 500:
				log.Error("HTTP request", fields...)
			case status >= 400:
				log.Warn("HTTP request", fields...)
			default:
				log.Info("HTTP request", fields...)
			}
		})
	}
}
