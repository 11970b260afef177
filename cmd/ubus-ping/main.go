// Command ubus-ping exercises the full stack end to end: it wires an
// in-memory loopback transport, registers an echo method on an RPC
// server, and invokes it from an RPC client.
//
// Usage:
//
//	go run ./cmd/ubus-ping [-n count] [-timeout duration] [-v]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ubus-protocol/ubus-go/pkg/id"
	"github.com/ubus-protocol/ubus-go/pkg/logging"
	"github.com/ubus-protocol/ubus-go/pkg/rpc"
	"github.com/ubus-protocol/ubus-go/pkg/transport"
	"github.com/ubus-protocol/ubus-go/pkg/uri"
	"github.com/ubus-protocol/ubus-go/pkg/wire"
)

func main() {
	count := flag.Int("n", 3, "number of pings to send")
	timeout := flag.Duration("timeout", 2*time.Second, "per-call timeout")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	cfg := logging.DefaultConfig()
	if *verbose {
		cfg.Level = "debug"
	}
	if err := logging.Init(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "logging:", err)
		os.Exit(1)
	}
	log := logging.WithComponent("ubus-ping")

	identity := uri.UUri{
		Entity: uri.EntityNamedVersion("ping.service", 1),
	}
	lb := transport.NewLoopback(identity,
		transport.WithLoopbackLogger(logging.WithComponent("loopback")))
	defer lb.Close()

	gen := id.NewV7Generator()

	server, err := rpc.NewServer(lb, gen,
		rpc.WithServerLogger(logging.WithComponent("server")))
	if err != nil {
		log.Fatal().Err(err).Msg("server setup failed")
	}
	defer server.Close()

	method := uri.UUri{
		Entity:   identity.Entity,
		Resource: uri.RPCMethod("echo"),
	}
	if st := server.Register(method, echo); st.IsError() {
		log.Fatal().Str("status", st.String()).Msg("register failed")
	}

	client, err := rpc.NewClient(lb, gen,
		rpc.WithClientLogger(logging.WithComponent("client")))
	if err != nil {
		log.Fatal().Err(err).Msg("client setup failed")
	}
	defer client.Close()

	for i := 0; i < *count; i++ {
		body := fmt.Sprintf("ping %d", i+1)
		start := time.Now()
		payload, st := client.Call(context.Background(), method,
			wire.RawPayload([]byte(body)), *timeout)
		if st.IsError() {
			log.Error().Str("status", st.String()).Msg("call failed")
			continue
		}
		log.Info().
			Str("reply", string(payload.Data)).
			Dur("rtt", time.Since(start)).
			Msg("pong")
	}
}

// echo returns the request payload unchanged.
func echo(_ context.Context, req *wire.Message) (wire.Payload, error) {
	return req.Payload, nil
}
