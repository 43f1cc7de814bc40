package middlewarectx

import (
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// APIMetrics описывает метрики, которые пишет MetricsMiddleware.
type APIMetrics interface {
	StartAPIResponseTimer() *prometheus.Timer
	RecordAPICall(success bool)
	RecordRequestSize(size int64)
	RecordResponseSize(size int64)
}

// MetricsMiddleware замеряет время обработки, размеры запроса и ответа
// и учитывает вызов как успешный при статусе 200..399.
// Паника обработчика учитывается как неуспешный вызов и пробрасывается дальше.
func MetricsMiddleware(m APIMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			timer := m.StartAPIResponseTimer()
			if r.ContentLength > 0 {
				m.RecordRequestSize(r.ContentLength)
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			completed := false
			defer func() {
				timer.ObserveDuration()
				m.RecordResponseSize(int64(ww.BytesWritten()))

				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				m.RecordAPICall(completed && status >= 200 && status < 400)
			}()

			next.ServeHTTP(ww, r)
			completed = true
		})
	}
}
