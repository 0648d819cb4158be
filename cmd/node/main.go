// Command node launches a single Chord ring participant: it loads its
// configuration, opens a listener, derives its ring identifier, joins
// (or forms) a ring, and serves RPC surface until a
// shutdown signal arrives.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chordring/internal/bootstrap"
	"chordring/internal/client"
	"chordring/internal/config"
	"chordring/internal/domain"
	"chordring/internal/logger"
	zapfactory "chordring/internal/logger/zap"
	"chordring/internal/node"
	"chordring/internal/routingtable"
	"chordring/internal/server"
	"chordring/internal/storage"
	"chordring/internal/telemetry"
	"chordring/internal/telemetry/lookuptrace"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

var defaultConfigPath = "config/node/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration from %q: %v", *configPath, err)
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.ValidateConfig(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	var lgr logger.Logger
	if cfg.Logger.Active {
		zapLog, err := zapfactory.New(cfg.Logger)
		if err != nil {
			log.Fatalf("failed to initialize logger: %v", err)
		}
		defer func() { _ = zapLog.Sync() }()
		lgr = zapfactory.NewZapAdapter(zapLog)
	} else {
		lgr = logger.NopLogger{}
	}
	cfg.LogConfig(lgr)

	// "private" matches this node's default advertised host
	// (127.0.0.1); it only matters when cfg.Node.Host is left blank
	// and the listener has to pick an interface itself.
	lis, advertised, err := server.Listen("private", cfg.Node.Bind, cfg.Node.Host, cfg.Node.Port)
	if err != nil {
		lgr.Error("failed to initialize listener", logger.F("err", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = lis.Close() }()
	lgr.Debug("listener created", logger.F("addr", advertised))

	space, err := domain.NewSpace(cfg.Chord.Bits)
	if err != nil {
		lgr.Error("failed to initialize identifier space", logger.F("err", err.Error()))
		os.Exit(1)
	}
	lgr.Debug("identifier space initialized", logger.F("bits", space.Bits))

	var id domain.ID
	if cfg.Node.Id == "" {
		id = space.NewIdFromString(advertised)
	} else {
		id, err = space.FromHexString(cfg.Node.Id)
		if err != nil {
			lgr.Error("invalid node id in configuration", logger.F("err", err.Error()))
			os.Exit(1)
		}
	}
	self := &domain.Node{ID: id, Addr: advertised}
	lgr = lgr.Named("node").With(logger.FNode("self", self))
	lgr.Info("node initializing", logger.F("id", id.ToHexString(true)))

	shutdownTracer := telemetry.InitTracer(cfg.Telemetry, "chord-node", id)
	defer func() { _ = shutdownTracer(context.Background()) }()

	rt, err := routingtable.New(self, space, routingtable.WithLogger(lgr.Named("routingtable")))
	if err != nil {
		lgr.Error("failed to initialize routing table", logger.F("err", err.Error()))
		os.Exit(1)
	}

	dialOpts := []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	if cfg.Telemetry.Tracing.Enabled {
		dialOpts = append(dialOpts, grpc.WithChainUnaryInterceptor(lookuptrace.ClientInterceptor()))
	}
	pool := client.New(dialOpts...)
	pool.Apply(client.WithLogger(lgr.Named("client")))
	defer func() { _ = pool.Close() }()

	store := storage.NewMemoryStore(space, lgr.Named("storage"))

	n := node.New(rt, pool, store, node.WithLogger(lgr))

	var grpcOpts []grpc.ServerOption
	if cfg.Telemetry.Tracing.Enabled {
		grpcOpts = append(grpcOpts, grpc.ChainUnaryInterceptor(lookuptrace.ServerInterceptor()))
		lgr.Debug("lookup tracing enabled")
	}

	srv, err := server.New(lis, n, grpcOpts, server.WithLogger(lgr.Named("server")))
	if err != nil {
		lgr.Error("failed to initialize gRPC server", logger.F("err", err.Error()))
		os.Exit(1)
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Start() }()
	lgr.Info("server started")

	var register bootstrap.Bootstrap
	switch cfg.Bootstrap.Mode {
	case "route53":
		register, err = bootstrap.NewRoute53Bootstrap(cfg.Bootstrap.Route53)
		if err != nil {
			lgr.Error("failed to initialize route53 bootstrap", logger.F("err", err.Error()))
			srv.Stop()
			os.Exit(1)
		}
	case "static":
		register = bootstrap.NewStaticBootstrap(cfg.Bootstrap.Peers)
	default:
		lgr.Error("unsupported bootstrap mode", logger.F("mode", cfg.Bootstrap.Mode))
		srv.Stop()
		os.Exit(1)
	}

	discoverCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	peers, err := register.Discover(discoverCtx)
	cancel()
	if err != nil {
		lgr.Error("failed to resolve bootstrap peers", logger.F("err", err.Error()))
		srv.Stop()
		os.Exit(1)
	}
	lgr.Info("resolved bootstrap peers", logger.F("peers", peers))

	joinCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	known := ""
	if len(peers) > 0 {
		known = peers[0]
	}
	if err := n.Join(joinCtx, known); err != nil {
		cancel()
		lgr.Error("failed to join ring", logger.F("err", err.Error()))
		srv.Stop()
		os.Exit(1)
	}
	cancel()

	registerCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := register.Register(registerCtx, self); err != nil {
		lgr.Error("failed to register node", logger.F("err", err.Error()))
	} else {
		lgr.Info("node registered")
	}
	cancel()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := register.Deregister(ctx, self); err != nil {
			lgr.Warn("failed to deregister node", logger.F("err", err.Error()))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		lgr.Info("shutdown signal received, stopping gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		done := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(done)
		}()
		select {
		case <-done:
			lgr.Info("server stopped gracefully")
		case <-shutdownCtx.Done():
			lgr.Warn("graceful stop timed out, forcing shutdown")
			srv.Stop()
		}
	case err := <-serveErr:
		lgr.Error("gRPC server terminated unexpectedly", logger.F("err", err.Error()))
		os.Exit(1)
	}
}
