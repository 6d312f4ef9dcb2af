package lookbook

import (
	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// IDGenerator produces unique, time-ordered product identifiers.
type IDGenerator func() string

// ID strategies accepted by NewIDGenerator.
const (
	IDStrategySnowflake = "snowflake"
	IDStrategyUUID      = "uuid"
)

// Snowflake returns a generator backed by a snowflake node. IDs are
// monotonic within the process.
func Snowflake(node int64) (IDGenerator, error) {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, errors.Wrapf(err, "snowflake node %d", node)
	}
	return func() string {
		return n.Generate().String()
	}, nil
}

// UUIDv7 returns a generator producing RFC 9562 version 7 UUID strings.
func UUIDv7() IDGenerator {
	return func() string {
		return uuid.Must(uuid.NewV7()).String()
	}
}

// NewIDGenerator picks a generator by strategy name.
func NewIDGenerator(strategy string) (IDGenerator, error) {
	switch strategy {
	case "", IDStrategySnowflake:
		return Snowflake(1)
	case IDStrategyUUID:
		return UUIDv7(), nil
	default:
		return nil, errors.Errorf("unknown id strategy %q", strategy)
	}
}
