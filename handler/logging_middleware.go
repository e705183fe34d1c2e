package handler

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"blogger-api/common"
	"blogger-api/logger"
	"blogger-api/metrics"

	"github.com/sirupsen/logrus"
)

type requestInfoKey struct{}

// requestInfo is filled in by inner middleware so the access log can report
// who made the request.
type requestInfo struct {
	userID string
}

func setRequestUser(ctx context.Context, userID string) {
	if info, ok := ctx.Value(requestInfoKey{}).(*requestInfo); ok {
		info.userID = userID
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}

// LoggingMiddleware writes one access-log line per request, records its
// latency and turns panics into a 500.
func LoggingMiddleware(collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			info := &requestInfo{}
			r = r.WithContext(context.WithValue(r.Context(), requestInfoKey{}, info))
			rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			defer func() {
				if p := recover(); p != nil {
					logger.Log.WithFields(logrus.Fields{
						"panic": p,
						"stack": string(debug.Stack()),
					}).Error("Panic recovered")
					if !rec.written {
						common.NewAppError(http.StatusInternalServerError, "Internal server error", nil).Send(rec)
					}
				}

				duration := time.Since(start)
				route := r.Pattern
				if route == "" {
					route = "unmatched"
				}
				collector.RecordRequest(r.Method, route, rec.statusCode, duration)

				entry := logger.Log.WithFields(logrus.Fields{
					"method":      r.Method,
					"path":        r.URL.Path,
					"status":      rec.statusCode,
					"duration_ms": float64(duration.Microseconds()) / 1000,
				})
				if info.userID != "" {
					entry = entry.WithField("user_id", info.userID)
				}

				switch {
				case rec.statusCode >= 500:
					entry.Error("HTTP request")
				case rec.statusCode >= 400:
					entry.Warn("HTTP request")
				default:
					entry.Info("HTTP request")
				}
			}()

			next.ServeHTTP(rec, r)
		})
	}
}
