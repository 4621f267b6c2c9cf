// Command gotrade-backfill fetches historical time bars from Binance and
// warms the Redis bar cache, chunk by chunk, printing throughput and cache
// statistics at the end. Without a Redis address it runs against an embedded
// miniredis, which is useful for smoke-testing connector and cache wiring.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	goTrade "github.com/MrEthical07/goTrade"
	"github.com/MrEthical07/goTrade/binance"
	"github.com/MrEthical07/goTrade/binancefutures"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func main() {
	var (
		symbol    = flag.String("symbol", "BTCUSDT", "exchange symbol to backfill")
		interval  = flag.String("interval", "1m", "bar interval (1m, 5m, 15m, 1h, 4h, 1d)")
		startStr  = flag.String("start", "", "range start, RFC 3339 (required)")
		endStr    = flag.String("end", "", "range end, RFC 3339; defaults to now")
		futures   = flag.Bool("futures", false, "use the USD-M futures endpoints instead of spot")
		redisAddr = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		chunk     = flag.Duration("chunk", 24*time.Hour, "cache chunk size; each chunk becomes one cache entry")
		apiKey    = flag.String("api-key", "", "optional Binance API key")
	)
	flag.Parse()

	iv := goTrade.Interval(*interval)
	if !iv.Valid() {
		fmt.Fprintf(os.Stderr, "invalid interval %q\n", *interval)
		os.Exit(2)
	}
	if *startStr == "" {
		fmt.Fprintln(os.Stderr, "-start is required")
		os.Exit(2)
	}
	start, err := time.Parse(time.RFC3339, *startStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -start: %v\n", err)
		os.Exit(2)
	}
	end := time.Now().UTC().Truncate(time.Minute)
	if *endStr != "" {
		end, err = time.Parse(time.RFC3339, *endStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -end: %v\n", err)
			os.Exit(2)
		}
	}
	if !end.After(start) {
		fmt.Fprintln(os.Stderr, "-end must be after -start")
		os.Exit(2)
	}
	if *chunk <= 0 {
		fmt.Fprintln(os.Stderr, "-chunk must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	var md goTrade.MarketData
	if *futures {
		var opts []binancefutures.Option
		if *apiKey != "" {
			opts = append(opts, binancefutures.WithAPIKey(*apiKey))
		}
		md = binancefutures.New(opts...)
	} else {
		var opts []binance.Option
		if *apiKey != "" {
			opts = append(opts, binance.WithAPIKey(*apiKey))
		}
		md = binance.New(opts...)
	}

	engine, err := goTrade.New().
		WithRedis(client).
		WithCacheEnabled(true).
		WithRateLimitEnabled(true).
		WithMarketData(md).
		WithMetricsEnabled(true).
		WithLatencyHistograms(true).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build engine: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = engine.Close() }()

	fmt.Printf("backfilling %s %s bars from %s to %s in %s chunks\n",
		*symbol, iv, start.Format(time.RFC3339), end.Format(time.RFC3339), *chunk)

	var totalBars int
	t0 := time.Now()
	for cursor := start; cursor.Before(end); cursor = cursor.Add(*chunk) {
		chunkEnd := cursor.Add(*chunk)
		if chunkEnd.After(end) {
			chunkEnd = end
		}

		bars, err := engine.TimeBars(ctx, *symbol, iv, cursor, chunkEnd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "chunk %s: %v\n", cursor.Format(time.RFC3339), err)
			os.Exit(1)
		}
		totalBars += len(bars)
		fmt.Printf("  %s -> %s: %d bars\n", cursor.Format(time.RFC3339), chunkEnd.Format(time.RFC3339), len(bars))
	}
	elapsed := time.Since(t0)

	snapshot := engine.MetricsSnapshot()
	fmt.Println("---- results ----")
	fmt.Printf("bars=%d elapsed=%s bars/sec=%.0f\n",
		totalBars, elapsed.Round(time.Millisecond), float64(totalBars)/elapsed.Seconds())
	fmt.Printf("fetched=%d cache_hits=%d cache_misses=%d cache_write_failures=%d weight_limited=%d\n",
		snapshot.Counters[goTrade.MetricTimeBarsFetched],
		snapshot.Counters[goTrade.MetricTimeBarsCacheHit],
		snapshot.Counters[goTrade.MetricTimeBarsCacheMiss],
		snapshot.Counters[goTrade.MetricCacheWriteFailure],
		snapshot.Counters[goTrade.MetricWeightLimited],
	)
}
