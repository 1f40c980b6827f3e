package redis

import (
	"testing"
	"time"
)

func TestClientOptions(t *testing.T) {
	opts := clientOptions(Config{Addr: "cache:6379", DB: 2})
	if opts.DialTimeout != defaultTimeout || opts.ReadTimeout != defaultTimeout || opts.WriteTimeout != defaultTimeout {
		t.Fatalf("expected %v timeouts, got %+v", defaultTimeout, opts)
	}
	if opts.Addr != "cache:6379" || opts.DB != 2 || opts.ClientName != clientName {
		t.Fatalf("unexpected options: %+v", opts)
	}

	opts = clientOptions(Config{Addr: "cache:6379", Timeout: time.Second, PoolSize: 20})
	if opts.ReadTimeout != time.Second || opts.PoolSize != 20 {
		t.Fatalf("expected configured timeout and pool, got %+v", opts)
	}
}
