package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/streamcore/playback/internal/abr"
	"github.com/streamcore/playback/internal/adapters/analyticsmongo"
	"github.com/streamcore/playback/internal/adapters/demoplayer"
	"github.com/streamcore/playback/internal/adapters/httpfetcher"
	"github.com/streamcore/playback/internal/adapters/memoryreader"
	"github.com/streamcore/playback/internal/adapters/wsbridge"
	"github.com/streamcore/playback/internal/app"
	"github.com/streamcore/playback/internal/buffermem"
	"github.com/streamcore/playback/internal/domain"
	"github.com/streamcore/playback/internal/logging"
	"github.com/streamcore/playback/internal/metrics"
	"github.com/streamcore/playback/internal/monitor"
	"github.com/streamcore/playback/internal/orchestrator"
	"github.com/streamcore/playback/internal/preload"
	"github.com/streamcore/playback/internal/pubsub"
	"github.com/streamcore/playback/internal/telemetry"
)

const tickInterval = 250 * time.Millisecond

func main() {
	cfg := app.LoadConfig()
	level := logging.ParseLevel(cfg.LogLevel)
	baseLogger := newSlogLogger(level, cfg.LogFormat)
	slog.SetDefault(baseLogger)
	coreLogger := logging.New(baseLogger, level)
	metrics.Register(prometheus.DefaultRegisterer)

	shutdownTracer, err := telemetry.Init(context.Background(), cfg.ServiceName)
	if err != nil {
		baseLogger.Warn("otel init failed", slog.String("error", err.Error()))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	baseLogger.Info("configuration loaded",
		slog.String("service", cfg.ServiceName),
		slog.String("httpAddr", cfg.HTTPAddr),
		slog.String("logLevel", cfg.LogLevel),
		slog.String("mongoDatabase", cfg.MongoDatabase),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, connectCancel := context.WithTimeout(rootCtx, 10*time.Second)
	defer connectCancel()

	mongoMonitor := otelmongo.NewMonitor()
	mongoClient, err := analyticsmongo.Connect(connectCtx, cfg.MongoURI, mongoMonitor)
	if err != nil {
		baseLogger.Error("mongo connect failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := mongoClient.Ping(connectCtx, readpref.Primary()); err != nil {
		baseLogger.Error("mongo ping failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	sink := analyticsmongo.New(mongoClient, cfg.MongoDatabase, cfg.MongoCollection, 256, baseLogger)
	if err := sink.EnsureIndexes(connectCtx); err != nil {
		baseLogger.Warn("analytics ensure indexes failed", slog.String("error", err.Error()))
	}
	defer sink.Close()

	thresholds := domain.PerformanceThresholds{
		WarningStartupTime:          cfg.WarningStartupTime,
		CriticalStartupTime:         cfg.CriticalStartupTime,
		MaxBufferingEventsPerMinute: uint32(cfg.MaxBufferingPerMinute),
		MaxBufferingDuration:        cfg.MaxBufferingDuration,
		CriticalRebufferingRatio:    cfg.CriticalRebufferRatio,
	}
	mon := monitor.New(thresholds, time.Now)

	memReader := memoryreader.New(512 * 1024 * 1024)
	memMon := buffermem.New(memReader, buffermem.DefaultThresholds(), cfg.MemoryPollInterval, baseLogger)
	go memMon.Run(rootCtx)

	fetcher := httpfetcher.New(cfg.PreloadAdmitPerSecond, 64*1024)
	scheduler := preload.New(fetcher, cfg.PreloadAdmitPerSecond)

	player := demoplayer.New()

	session := orchestrator.New(
		player,
		sink,
		coreLogger,
		abr.New(abr.Conservative{}),
		scheduler,
		mon,
		memMon,
		preload.AdjacentVideo{},
		domain.StandardLadder(),
	)

	hub := wsbridge.New(baseLogger)
	go wsbridge.Run(rootCtx.Done(), hub, sessionBridge{session})
	go runTicker(rootCtx, player)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.Handler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	traced := otelhttp.NewHandler(loggingMiddleware(baseLogger, mux), cfg.ServiceName,
		otelhttp.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/metrics" && r.URL.Path != "/healthz"
		}),
	)
	handler := recoveryMiddleware(baseLogger, metricsMiddleware(corsMiddleware(cfg.CORSAllowedOrigins, traced)))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      0,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	baseLogger.Info("server started", slog.String("addr", cfg.HTTPAddr))

	select {
	case <-rootCtx.Done():
		baseLogger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Error("http server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Warn("http shutdown error", slog.String("error", err.Error()))
	}
	session.Stop()
	if err := mongoClient.Disconnect(context.Background()); err != nil {
		baseLogger.Warn("mongo disconnect error", slog.String("error", err.Error()))
	}

	baseLogger.Info("server stopped")
}

// sessionBridge satisfies wsbridge.BridgeSource by delegating to the
// orchestrator's underlying state machine, performance monitor, and buffer
// configuration stream.
type sessionBridge struct {
	session *orchestrator.Session
}

func (b sessionBridge) SubscribeState() *pubsub.Subscription[domain.PlaybackState] {
	return b.session.Machine().SubscribeState()
}

func (b sessionBridge) Snapshots() *pubsub.Subscription[domain.PerformanceSnapshot] {
	return b.session.Monitor().Snapshots()
}

func (b sessionBridge) Alerts() *pubsub.Subscription[domain.PerformanceAlert] {
	return b.session.Monitor().Alerts()
}

func (b sessionBridge) BufferConfigs() *pubsub.Subscription[domain.BufferConfiguration] {
	return b.session.BufferConfigSubscription()
}

var _ wsbridge.BridgeSource = sessionBridge{}

func newSlogLogger(level domain.LogLevel, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: toSlogLevel(level)}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func toSlogLevel(l domain.LogLevel) slog.Level {
	switch l {
	case domain.LogDebug:
		return slog.LevelDebug
	case domain.LogWarning:
		return slog.LevelWarn
	case domain.LogError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func runTicker(ctx context.Context, player *demoplayer.Player) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			player.Advance(tickInterval.Seconds())
		}
	}
}

func corsMiddleware(allowed []string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			if len(allowed) == 0 {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else {
				for _, a := range allowed {
					if a == origin {
						w.Header().Set("Access-Control-Allow-Origin", origin)
						break
					}
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}
