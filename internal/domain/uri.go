package domain

// Uri identifies a playable media source. The core never parses or
// dereferences it — that's the PlayerAdapter's job.
type Uri string
