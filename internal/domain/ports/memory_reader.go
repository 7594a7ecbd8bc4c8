package ports

import "github.com/streamcore/playback/internal/domain"

// MemoryReader samples current process/device memory state.
type MemoryReader interface {
	Read() domain.MemoryState
}
