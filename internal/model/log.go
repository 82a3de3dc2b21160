package model

// Log is a raw event log, persisted unmodified regardless of whether the
// decoder (internal/decode) recognised its topic signature.
type Log struct {
	Chain           uint64
	Address         string
	BlockNumber     uint64
	TransactionHash string
	LogIndex        uint64
	Topic0          string
	Topic1          string
	Topic2          string
	Topic3          string
	Data            []byte
	Timestamp       uint64
}
