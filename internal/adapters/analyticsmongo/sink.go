// Package analyticsmongo implements ports.AnalyticsSink against MongoDB,
// firing an asynchronous, fire-and-forget insert per event so Record never
// blocks the caller on network latency.
package analyticsmongo

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/streamcore/playback/internal/domain"
)

// Connect dials Mongo with the OTel command monitor attached, so every
// query this sink issues shows up as a span alongside playback request
// traces.
func Connect(ctx context.Context, uri string, monitor *event.CommandMonitor) (*mongo.Client, error) {
	opts := options.Client().ApplyURI(uri)
	if monitor != nil {
		opts = opts.SetMonitor(monitor)
	}
	return mongo.Connect(ctx, opts)
}

type eventDoc struct {
	Kind       int     `bson:"kind"`
	Position   float64 `bson:"position"`
	SeekFrom   float64 `bson:"seekFrom,omitempty"`
	SeekTo     float64 `bson:"seekTo,omitempty"`
	Speed      float64 `bson:"speed,omitempty"`
	Volume     float64 `bson:"volume,omitempty"`
	Muted      bool    `bson:"muted,omitempty"`
	RecordedAt int64   `bson:"recordedAt"`
}

// Sink is an AnalyticsSink backed by a Mongo collection. Record enqueues the
// event and returns immediately; a background goroutine owns the actual
// insert so a slow or unreachable database never stalls playback.
type Sink struct {
	collection *mongo.Collection
	logger     *slog.Logger
	queue      chan domain.PlaybackEvent
	done       chan struct{}
}

// New creates a Sink and starts its background writer. queueSize bounds how
// many events may be buffered before Record starts dropping the oldest
// unsent event to avoid unbounded memory growth under sustained DB outage.
func New(client *mongo.Client, dbName, collectionName string, queueSize int, logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	if queueSize < 1 {
		queueSize = 1
	}
	s := &Sink{
		collection: client.Database(dbName).Collection(collectionName),
		logger:     logger,
		queue:      make(chan domain.PlaybackEvent, queueSize),
		done:       make(chan struct{}),
	}
	go s.run()
	return s
}

// Record implements ports.AnalyticsSink.
func (s *Sink) Record(e domain.PlaybackEvent) {
	select {
	case s.queue <- e:
	default:
		select {
		case <-s.queue:
		default:
		}
		select {
		case s.queue <- e:
		default:
		}
	}
}

func (s *Sink) run() {
	for {
		select {
		case <-s.done:
			return
		case e := <-s.queue:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if _, err := s.collection.InsertOne(ctx, toDoc(e)); err != nil {
				s.logger.Warn("analytics insert failed", slog.String("error", err.Error()))
			}
			cancel()
		}
	}
}

// Close stops the background writer. Events still queued when Close is
// called are discarded.
func (s *Sink) Close() {
	close(s.done)
}

// EnsureIndexes creates the indexes analytics queries rely on.
func (s *Sink) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "kind", Value: 1}}},
		{Keys: bson.D{{Key: "recordedAt", Value: -1}}},
	}
	_, err := s.collection.Indexes().CreateMany(ctx, models)
	return err
}

func toDoc(e domain.PlaybackEvent) eventDoc {
	return eventDoc{
		Kind:       int(e.Kind),
		Position:   e.Position,
		SeekFrom:   e.SeekFrom,
		SeekTo:     e.SeekTo,
		Speed:      e.Speed,
		Volume:     e.Volume,
		Muted:      e.Muted,
		RecordedAt: time.Now().UnixMilli(),
	}
}
