package stores

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	barRecordVersionV1 = 1

	maxDecimalLen = math.MaxUint16
)

var (
	ErrCacheMiss        = errors.New("bar cache miss")
	ErrCacheUnavailable = errors.New("bar cache redis unavailable")
	ErrRecordCorrupt    = errors.New("bar cache record corrupt")
)

// BarRecord is the cache-side shape of a time bar. Prices and volume are
// decimal strings so the cache round-trips exchange precision exactly.
type BarRecord struct {
	Open        string
	High        string
	Low         string
	Close       string
	Volume      string
	TradeCount  int32
	OpenTimeMS  int64
	CloseTimeMS int64
}

// BarCache stores contiguous time-bar ranges keyed by symbol, interval and
// the exact requested range. Only exact-range lookups hit; a narrower or
// wider request is a miss and goes to the exchange.
type BarCache struct {
	redis  redis.UniversalClient
	prefix string
}

func NewBarCache(redisClient redis.UniversalClient, prefix string) *BarCache {
	if prefix == "" {
		prefix = "gt"
	}
	return &BarCache{
		redis:  redisClient,
		prefix: prefix,
	}
}

func (c *BarCache) key(symbol, interval string, startMS, endMS int64) string {
	return c.prefix + ":bars:" + symbol + ":" + interval + ":" +
		strconv.FormatInt(startMS, 10) + ":" + strconv.FormatInt(endMS, 10)
}

// Get returns the cached records for the exact range, or ErrCacheMiss.
func (c *BarCache) Get(ctx context.Context, symbol, interval string, startMS, endMS int64) ([]BarRecord, error) {
	data, err := c.redis.Get(ctx, c.key(symbol, interval, startMS, endMS)).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}

	records, err := decodeBarRecords(data)
	if err != nil {
		// A corrupt record is unreadable forever; drop it so the next
		// fetch repopulates the key.
		_ = c.redis.Del(ctx, c.key(symbol, interval, startMS, endMS)).Err()
		return nil, err
	}

	return records, nil
}

// Put stores the records for the exact range with the given TTL.
func (c *BarCache) Put(ctx context.Context, symbol, interval string, startMS, endMS int64, records []BarRecord, ttl time.Duration) error {
	encoded, err := encodeBarRecords(records)
	if err != nil {
		return err
	}

	if err := c.redis.Set(ctx, c.key(symbol, interval, startMS, endMS), encoded, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}

	return nil
}

func encodeBarRecords(records []BarRecord) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(barRecordVersionV1)

	var count [4]byte
	binary.BigEndian.PutUint32(count[:], uint32(len(records)))
	buf.Write(count[:])

	for i := range records {
		r := &records[i]
		for _, s := range []string{r.Open, r.High, r.Low, r.Close, r.Volume} {
			if len(s) > maxDecimalLen {
				return nil, ErrRecordCorrupt
			}
			var l [2]byte
			binary.BigEndian.PutUint16(l[:], uint16(len(s)))
			buf.Write(l[:])
			buf.WriteString(s)
		}

		var fixed [20]byte
		binary.BigEndian.PutUint32(fixed[0:4], uint32(r.TradeCount))
		binary.BigEndian.PutUint64(fixed[4:12], uint64(r.OpenTimeMS))
		binary.BigEndian.PutUint64(fixed[12:20], uint64(r.CloseTimeMS))
		buf.Write(fixed[:])
	}

	return buf.Bytes(), nil
}

func decodeBarRecords(data []byte) ([]BarRecord, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, ErrRecordCorrupt
	}
	if version != barRecordVersionV1 {
		return nil, ErrRecordCorrupt
	}

	var count [4]byte
	if _, err := io.ReadFull(reader, count[:]); err != nil {
		return nil, ErrRecordCorrupt
	}
	n := binary.BigEndian.Uint32(count[:])

	records := make([]BarRecord, 0, n)
	for i := uint32(0); i < n; i++ {
		var r BarRecord
		fields := []*string{&r.Open, &r.High, &r.Low, &r.Close, &r.Volume}
		for _, field := range fields {
			var l [2]byte
			if _, err := io.ReadFull(reader, l[:]); err != nil {
				return nil, ErrRecordCorrupt
			}
			raw := make([]byte, binary.BigEndian.Uint16(l[:]))
			if _, err := io.ReadFull(reader, raw); err != nil {
				return nil, ErrRecordCorrupt
			}
			*field = string(raw)
		}

		var fixed [20]byte
		if _, err := io.ReadFull(reader, fixed[:]); err != nil {
			return nil, ErrRecordCorrupt
		}
		r.TradeCount = int32(binary.BigEndian.Uint32(fixed[0:4]))
		r.OpenTimeMS = int64(binary.BigEndian.Uint64(fixed[4:12]))
		r.CloseTimeMS = int64(binary.BigEndian.Uint64(fixed[12:20]))

		records = append(records, r)
	}

	if reader.Len() != 0 {
		return nil, ErrRecordCorrupt
	}

	return records, nil
}
