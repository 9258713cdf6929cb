package uid

import (
	"hash/fnv"
	"os"

	"github.com/bwmarrin/snowflake"
)

// Snowflake generates 63-bit IDs that sort by creation time.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake derives the node number from the hostname so replicas rarely
// share a node.
func NewSnowflake() (*Snowflake, error) {
	host, err := os.Hostname()
	if err != nil {
		host = "notekeep"
	}

	h := fnv.New32a()
	//nolint:errcheck // hash.Hash never returns an error
	h.Write([]byte(host))

	return NewSnowflakeWithNode(int64(h.Sum32() % 1024))
}

// NewSnowflakeWithNode builds a generator for an explicit node number (0-1023).
func NewSnowflakeWithNode(node int64) (*Snowflake, error) {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: n}, nil
}

// Generate returns a new ID.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}
