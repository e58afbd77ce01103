package common

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// IDGenerator issues unique, time-ordered 63-bit ids for journey events.
// Construct one per process and share it by pointer.
type IDGenerator struct {
	node *snowflake.Node
}

// NewIDGenerator creates a generator for the given node id (0-1023)
func NewIDGenerator(node int64) (*IDGenerator, error) {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, fmt.Errorf("failed to create id generator for node %d: %w", node, err)
	}
	return &IDGenerator{node: n}, nil
}

// Next returns the next id
func (g *IDGenerator) Next() int64 {
	return g.node.Generate().Int64()
}

// NodeOf extracts the node id an id was issued by
func NodeOf(id int64) int64 {
	return snowflake.ParseInt64(id).Node()
}
