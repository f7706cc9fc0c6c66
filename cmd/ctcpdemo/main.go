// Command ctcpdemo pipes stdin/stdout through a single cTCP connection over
// UDP, the way examples/tcpclient pipes an HTTP request through a raw TCP
// socket. It is meant as a runnable demonstration of the core, not a
// production transport: one process is one connection.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cs144/ctcp"
	"github.com/cs144/ctcp/ctcpmetrics"
	"github.com/cs144/ctcp/internal"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var (
		listenAddr  = flag.String("listen", ":9144", "local UDP address to bind")
		remoteAddr  = flag.String("remote", "", "remote UDP address to send segments to (required)")
		configPath  = flag.String("config", "", "optional YAML config file (see ctcp.Config)")
		metricsAddr = flag.String("metrics", "", "if set, serve Prometheus metrics on this address")
		debug       = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()
	if *remoteAddr == "" {
		return fmt.Errorf("ctcpdemo: -remote is required")
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := ctcp.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = ctcp.LoadConfigFile(*configPath)
		if err != nil {
			return err
		}
	}

	local, err := net.ResolveUDPAddr("udp", *listenAddr)
	if err != nil {
		return err
	}
	remote, err := net.ResolveUDPAddr("udp", *remoteAddr)
	if err != nil {
		return err
	}
	sock, err := net.ListenUDP("udp", local)
	if err != nil {
		return err
	}
	defer sock.Close()

	var collector ctcp.MetricsCollector
	if *metricsAddr != "" {
		reg := prometheus.NewRegistry()
		collector = ctcpmetrics.New(reg, "ctcpdemo")
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				log.Error("ctcpdemo:metrics-serve-failed", slog.String("err", err.Error()))
			}
		}()
	}

	reg := &ctcp.Registry{}
	reg.SetMetrics(collector)

	transport := &udpTransport{sock: sock, remote: remote}
	source := newStdinSource()
	sink := &stdoutSink{}
	clock := realClock{}

	conn, err := reg.Init(transport, source, sink, clock, cfg, log)
	if err != nil {
		return err
	}

	inbound := make(chan []byte, 64)
	go readLoop(sock, inbound, log)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(time.Duration(cfg.TimerMS) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-sigc:
			return nil
		case frame := <-inbound:
			conn.Receive(frame, clock.NowMillis())
		case <-ticker.C:
			now := clock.NowMillis()
			conn.Read(now)
			conn.Output(now)
			reg.Tick(now)
			if conn.State() == ctcp.StateClosed {
				return nil
			}
		}
	}
}

func readLoop(sock *net.UDPConn, out chan<- []byte, log *slog.Logger) {
	buf := make([]byte, 64*1024)
	for {
		n, _, err := sock.ReadFromUDP(buf)
		if err != nil {
			log.Debug("ctcpdemo:udp-read-stopped", slog.String("err", err.Error()))
			return
		}
		frame := make([]byte, n)
		copy(frame, buf[:n])
		out <- frame
	}
}

// udpTransport implements ctcp.Transport over a single fixed peer. A
// temporary write error (e.g. the local send buffer is momentarily full)
// is retried a bounded number of times with the same exponential backoff
// the teacher uses for its own transient-failure retries, rather than
// surfaced immediately as a permanent transport failure.
type udpTransport struct {
	sock   *net.UDPConn
	remote *net.UDPAddr
}

func (t *udpTransport) Send(frame []byte) (int, error) {
	b := internal.NewBackoff(internal.BackoffTCPConn)
	var lastErr error
	for attempt := 0; attempt < 5; attempt++ {
		n, err := t.sock.WriteToUDP(frame, t.remote)
		if err == nil {
			return n, nil
		}
		var netErr net.Error
		if !errors.As(err, &netErr) || !netErr.Temporary() {
			return n, err
		}
		lastErr = err
		b.Miss()
	}
	return 0, lastErr
}

// realClock implements ctcp.Clock with the wall clock.
type realClock struct{}

func (realClock) NowMillis() int64 { return time.Now().UnixMilli() }
