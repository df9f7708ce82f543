package pointsfile

import (
	"errors"
	"time"
)

var MAGIC_BYTES = []byte("RQTP")

const COMPATIBILITY_LEVEL uint32 = 1

// points are encoded in chunks so a corrupted count can't force a huge allocation
const pointsChunkSize = 1000

var (
	ErrBadMagic           = errors.New("not a points file")
	ErrUnsupportedVersion = errors.New("unsupported compatibility level")
)

type Metadata struct {
	Count       uint64
	DateCreated time.Time
}

type header struct {
	Count       uint64
	DateCreated int64
}
