// Package metrics предоставляет процессный набор метрик сервиса на базе Prometheus:
// счётчики вызовов API и операций с пользователями, gauge-метрики,
// таймеры с перцентилями p50/p95/p99 и распределения размеров запросов.
//
// Sink создаётся явно и передаётся в сервисы и middleware; все его коллекторы
// зарегистрированы в собственном prometheus.Registry.
package metrics

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

// objectives — перцентили, публикуемые для таймеров и размеров.
var objectives = map[float64]float64{0.5: 0.05, 0.95: 0.01, 0.99: 0.001}

// Options задаёт общие метки, добавляемые ко всем метрикам.
type Options struct {
	Application string
	Version     string
	Environment string
}

// Sink хранит все коллекторы сервиса.
type Sink struct {
	registry   *prometheus.Registry
	registerer prometheus.Registerer

	totalAPICalls      prometheus.Counter
	successfulAPICalls prometheus.Counter
	failedAPICalls     prometheus.Counter

	usersCreated prometheus.Counter
	usersUpdated prometheus.Counter
	usersDeleted prometheus.Counter

	loginAttempts prometheus.Counter
	loginSuccess  prometheus.Counter
	loginFailure  prometheus.Counter

	activeUsers prometheus.Gauge
	totalUsers  prometheus.Gauge

	apiResponseTime   prometheus.Summary
	databaseQueryTime prometheus.Summary
	requestSize       prometheus.Summary
	responseSize      prometheus.Summary

	mu       sync.Mutex
	business map[string]prometheus.Gauge
}

// New создаёт Sink и регистрирует коллекторы, включая go- и process-коллекторы.
func New(opts Options) *Sink {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	labels := prometheus.Labels{}
	if opts.Application != "" {
		labels["application"] = opts.Application
	}
	if opts.Version != "" {
		labels["version"] = opts.Version
	}
	if opts.Environment != "" {
		labels["environment"] = opts.Environment
	}
	registerer := prometheus.WrapRegistererWith(labels, reg)

	s := &Sink{
		registry:   reg,
		registerer: registerer,
		totalAPICalls: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "api_calls_total",
			Help:        "Total number of API calls",
			ConstLabels: prometheus.Labels{"type": "all"},
		}),
		successfulAPICalls: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "api_calls_successful_total",
			Help:        "Total number of successful API calls",
			ConstLabels: prometheus.Labels{"type": "success"},
		}),
		failedAPICalls: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "api_calls_failed_total",
			Help:        "Total number of failed API calls",
			ConstLabels: prometheus.Labels{"type": "failure"},
		}),
		usersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "users_created_total",
			Help: "Total number of created users",
		}),
		usersUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "users_updated_total",
			Help: "Total number of updated users",
		}),
		usersDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "users_deleted_total",
			Help: "Total number of deleted users",
		}),
		loginAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "login_attempts_total",
			Help: "Total number of login attempts",
		}),
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "login_success_total",
			Help: "Total number of successful logins",
		}),
		loginFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "login_failure_total",
			Help: "Total number of failed logins",
		}),
		activeUsers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "active_users",
			Help: "Number of active users",
		}),
		totalUsers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "total_users",
			Help: "Total number of users",
		}),
		apiResponseTime: prometheus.NewSummary(prometheus.SummaryOpts{
			Name:       "api_response_time_seconds",
			Help:       "API response time",
			Objectives: objectives,
		}),
		databaseQueryTime: prometheus.NewSummary(prometheus.SummaryOpts{
			Name:       "database_query_time_seconds",
			Help:       "Database query execution time",
			Objectives: objectives,
		}),
		requestSize: prometheus.NewSummary(prometheus.SummaryOpts{
			Name:       "request_size_bytes",
			Help:       "Request size in bytes",
			Objectives: objectives,
		}),
		responseSize: prometheus.NewSummary(prometheus.SummaryOpts{
			Name:       "response_size_bytes",
			Help:       "Response size in bytes",
			Objectives: objectives,
		}),
		business: make(map[string]prometheus.Gauge),
	}

	registerer.MustRegister(
		s.totalAPICalls,
		s.successfulAPICalls,
		s.failedAPICalls,
		s.usersCreated,
		s.usersUpdated,
		s.usersDeleted,
		s.loginAttempts,
		s.loginSuccess,
		s.loginFailure,
		s.activeUsers,
		s.totalUsers,
		s.apiResponseTime,
		s.databaseQueryTime,
		s.requestSize,
		s.responseSize,
	)
	return s
}

// RecordAPICall учитывает вызов API как успешный или неуспешный.
func (s *Sink) RecordAPICall(success bool) {
	s.totalAPICalls.Inc()
	if success {
		s.successfulAPICalls.Inc()
	} else {
		s.failedAPICalls.Inc()
	}
}

// RecordLogin учитывает попытку входа.
func (s *Sink) RecordLogin(success bool) {
	s.loginAttempts.Inc()
	if success {
		s.loginSuccess.Inc()
	} else {
		s.loginFailure.Inc()
	}
}

// IncUsersCreated увеличивает счётчик созданных пользователей.
func (s *Sink) IncUsersCreated() { s.usersCreated.Inc() }

// IncUsersUpdated увеличивает счётчик обновлённых пользователей.
func (s *Sink) IncUsersUpdated() { s.usersUpdated.Inc() }

// IncUsersDeleted увеличивает счётчик удалённых пользователей.
func (s *Sink) IncUsersDeleted() { s.usersDeleted.Inc() }

// SetActiveUsers обновляет количество активных пользователей.
func (s *Sink) SetActiveUsers(count int64) { s.activeUsers.Set(float64(count)) }

// SetTotalUsers обновляет общее количество пользователей.
func (s *Sink) SetTotalUsers(count int64) { s.totalUsers.Set(float64(count)) }

// StartAPIResponseTimer запускает таймер времени ответа API.
// Остановка — ObserveDuration у возвращённого таймера.
func (s *Sink) StartAPIResponseTimer() *prometheus.Timer {
	return prometheus.NewTimer(s.apiResponseTime)
}

// StartDatabaseQueryTimer запускает таймер запроса к хранилищу.
func (s *Sink) StartDatabaseQueryTimer() *prometheus.Timer {
	return prometheus.NewTimer(s.databaseQueryTime)
}

// RecordRequestSize записывает размер запроса в байтах.
func (s *Sink) RecordRequestSize(size int64) { s.requestSize.Observe(float64(size)) }

// RecordResponseSize записывает размер ответа в байтах.
func (s *Sink) RecordResponseSize(size int64) { s.responseSize.Observe(float64(size)) }

// RecordBusinessMetric устанавливает значение gauge "business_<name>".
// Gauge создаётся при первом обращении. Если имя не проходит регистрацию,
// значение сохраняется только локально.
func (s *Sink) RecordBusinessMetric(name string, value float64) {
	s.mu.Lock()
	g, ok := s.business[name]
	if !ok {
		g = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "business_" + name,
			Help: "Business metric: " + name,
		})
		_ = s.registerer.Register(g)
		s.business[name] = g
	}
	s.mu.Unlock()
	g.Set(value)
}

// BusinessMetric возвращает текущее значение business-метрики.
func (s *Sink) BusinessMetric(name string) (float64, bool) {
	s.mu.Lock()
	g, ok := s.business[name]
	s.mu.Unlock()
	if !ok {
		return 0, false
	}
	return gaugeValue(g), true
}

// Summary возвращает текущие значения счётчиков и gauge-метрик в читаемом виде.
func (s *Sink) Summary() string {
	return fmt.Sprintf(
		"Metrics Summary:\n"+
			"- Total API Calls: %d\n"+
			"- Successful API Calls: %d\n"+
			"- Failed API Calls: %d\n"+
			"- Active Users: %d\n"+
			"- Total Users: %d",
		int64(counterValue(s.totalAPICalls)),
		int64(counterValue(s.successfulAPICalls)),
		int64(counterValue(s.failedAPICalls)),
		int64(gaugeValue(s.activeUsers)),
		int64(gaugeValue(s.totalUsers)),
	)
}

// Gatherer возвращает реестр для экспорта и тестов.
func (s *Sink) Gatherer() prometheus.Gatherer {
	return s.registry
}

// Handler возвращает HTTP-обработчик для скрейпа Prometheus.
func (s *Sink) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry})
}

func counterValue(c prometheus.Counter) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func gaugeValue(g prometheus.Gauge) float64 {
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		return 0
	}
	return m.GetGauge().GetValue()
}
