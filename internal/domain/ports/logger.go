package ports

import "github.com/streamcore/playback/internal/domain"

// Logger receives structured LogEntry records. Implementations drop entries
// below their configured minimum level; the core never checks the level
// itself before logging.
type Logger interface {
	Log(entry domain.LogEntry)
}
