package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	pb "github.com/artem-burashnikov/grpc-rendezvous/api/rendezvouspb"
	"github.com/artem-burashnikov/grpc-rendezvous/internal/config"
	"github.com/artem-burashnikov/grpc-rendezvous/internal/logger"
	"github.com/artem-burashnikov/grpc-rendezvous/internal/metrics"
	"github.com/artem-burashnikov/grpc-rendezvous/pkg/rendezvous"
)

// Hub is the set of named channels served over gRPC.
type Hub interface {
	Write(key string, v []byte) error
	ReadContext(ctx context.Context, key string) ([]byte, error)
	Stats(ctx context.Context, key string) (rendezvous.Stats, error)
	Len() int
	Close(ctx context.Context) (rendezvous.Stats, error)
}

// gRPC rendezvous server.
type Server struct {
	cfg     config.Config
	log     logger.Logger
	hub     Hub
	metrics *metrics.Metrics
	grpc    *grpc.Server
	http    *http.Server // metrics endpoint, nil when disabled
	pb.UnimplementedRendezvousServer
}

func New(cfg config.Config, log logger.Logger, hub Hub, m *metrics.Metrics) *Server {
	kp := keepalive.ServerParameters{
		MaxConnectionIdle: cfg.GRPCServer.MaxIdle,
		Timeout:           cfg.GRPCServer.Timeout,
	}

	s := &Server{
		cfg:     cfg,
		log:     log,
		hub:     hub,
		metrics: m,
	}

	s.grpc = grpc.NewServer(
		grpc.KeepaliveParams(kp),
		grpc.ChainUnaryInterceptor(s.logCalls),
	)
	pb.RegisterRendezvousServer(s.grpc, s)

	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, m.Handler())
		s.http = &http.Server{
			Addr:              ":" + cfg.Metrics.Port,
			Handler:           mux,
			ReadHeaderTimeout: cfg.GRPCServer.Timeout,
		}
	}

	return s
}

// Run serves gRPC (and metrics, if enabled) until ctx is done, then shuts
// down gracefully within the configured shutdown period.
func (s *Server) Run(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("gRPC server is not initialized")
	}

	// Create a TCP listener.
	lis, err := net.Listen("tcp", ":"+s.cfg.GRPCServer.Port)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("gRPC server started", zap.String("addr", lis.Addr().String()))
		if err := s.grpc.Serve(lis); err != nil {
			return fmt.Errorf("gRPC server failed: %w", err)
		}
		return nil
	})

	if s.http != nil {
		g.Go(func() error {
			s.log.Info("metrics server started",
				zap.String("addr", s.http.Addr),
				zap.String("path", s.cfg.Metrics.Path),
			)
			if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server failed: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		s.log.Info("shutting down gracefully...")

		sctx, cancel := context.WithTimeout(context.Background(), s.cfg.GRPCServer.ShutdownPeriod)
		defer cancel()

		if err := s.gracefulShutdown(sctx); err != nil {
			s.log.Error("error during graceful shutdown", zap.Error(err))
			return err
		}
		s.log.Info("server stopped")
		return nil
	})

	return g.Wait()
}

// gracefulShutdown closes the hub, which releases every pending Read,
// then stops the gRPC and metrics servers.
func (s *Server) gracefulShutdown(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("gRPC server is not initialized")
	}

	done := make(chan struct{})
	errCh := make(chan error, 1)

	go func() {
		defer close(done)

		s.log.Info("closing rendezvous hub...")
		dropped, err := s.hub.Close(ctx)
		if err != nil && !errors.Is(err, rendezvous.ErrClosed) {
			s.log.Error("failed to close rendezvous hub", zap.Error(err))
			errCh <- err
			return
		}
		s.log.Info("rendezvous hub closed",
			zap.Int("dropped_writers", dropped.PendingWriters),
			zap.Int("canceled_readers", dropped.PendingReaders),
		)

		s.log.Info("stopping gRPC server...")
		s.grpc.GracefulStop()
		s.log.Info("gRPC server stopped")

		if s.http != nil {
			if err := s.http.Shutdown(ctx); err != nil {
				s.log.Error("failed to stop metrics server", zap.Error(err))
				errCh <- err
				return
			}
		}
	}()

	select {
	case <-done:
		select {
		case err := <-errCh:
			s.grpc.Stop()
			return err
		default:
		}
		s.log.Info("graceful shutdown completed successfully")
		return nil
	case <-ctx.Done():
		s.log.Warn("graceful shutdown timed out, forcing stop")
		s.grpc.Stop()
		if s.http != nil {
			_ = s.http.Close()
		}
		return ctx.Err()
	}
}

func (s *Server) logCalls(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.log.Debug("call finished",
		zap.String("method", info.FullMethod),
		zap.Duration("elapsed", time.Since(start)),
		zap.Stringer("code", status.Code(err)),
	)
	return resp, err
}

// key extracts and validates the channel key of a call.
// The returned logger carries the key.
func (s *Server) key(ctx context.Context) (string, logger.Logger, error) {
	key, ok := pb.KeyFromContext(ctx)
	if !ok || key == "" {
		return "", nil, status.Error(codes.InvalidArgument, "missing "+pb.KeyHeader+" metadata")
	}
	if len(key) > s.cfg.Rendezvous.MaxKeyLength {
		return "", nil, status.Errorf(codes.InvalidArgument, "key exceeds %d bytes", s.cfg.Rendezvous.MaxKeyLength)
	}
	return key, s.log.With(zap.String("key", key)), nil
}

// Write queues a value on the channel named by the call's key.
// It returns as soon as the value is handed to the channel.
func (s *Server) Write(ctx context.Context, req *wrapperspb.BytesValue) (*emptypb.Empty, error) {
	if s == nil {
		return nil, status.Error(codes.Unknown, "gRPC server is not initialized")
	}

	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is nil")
	}

	key, log, err := s.key(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.hub.Write(key, req.GetValue()); err != nil {
		if errors.Is(err, rendezvous.ErrClosed) {
			return nil, status.Error(codes.Unavailable, "server is shutting down")
		}
		log.Error("failed to write", zap.Error(err))
		return nil, status.Error(codes.Internal, "internal server error")
	}

	s.metrics.ObserveWrite()
	log.Debug("value written", zap.Int("bytes", len(req.GetValue())))

	return &emptypb.Empty{}, nil
}

// Read waits for a value on the channel named by the call's key.
func (s *Server) Read(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.BytesValue, error) {
	if s == nil {
		return nil, status.Error(codes.Unknown, "gRPC server is not initialized")
	}

	key, log, err := s.key(ctx)
	if err != nil {
		return nil, err
	}

	if d := s.cfg.Rendezvous.ReadTimeout; d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	start := time.Now()
	v, err := s.hub.ReadContext(ctx, key)
	waited := time.Since(start)

	switch {
	case err == nil:
		s.metrics.ObserveRead(metrics.OutcomeDelivered, waited)
		log.Debug("value delivered", zap.Duration("waited", waited))
		return wrapperspb.Bytes(v), nil
	case errors.Is(err, rendezvous.ErrClosed):
		s.metrics.ObserveRead(metrics.OutcomeClosed, waited)
		return nil, status.Error(codes.Unavailable, "server is shutting down")
	case errors.Is(err, context.DeadlineExceeded):
		s.metrics.ObserveRead(metrics.OutcomeTimeout, waited)
		return nil, status.Error(codes.DeadlineExceeded, "no value arrived in time")
	case errors.Is(err, context.Canceled):
		s.metrics.ObserveRead(metrics.OutcomeCanceled, waited)
		return nil, status.Error(codes.Canceled, "read request was canceled by caller")
	default:
		log.Error("failed to read", zap.Error(err))
		return nil, status.Error(codes.Internal, "internal server error")
	}
}

// Stats reports the queue depths of the channel named by the call's key.
func (s *Server) Stats(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	if s == nil {
		return nil, status.Error(codes.Unknown, "gRPC server is not initialized")
	}

	key, log, err := s.key(ctx)
	if err != nil {
		return nil, err
	}

	st, err := s.hub.Stats(ctx, key)
	if err != nil {
		if errors.Is(err, rendezvous.ErrClosed) {
			return nil, status.Error(codes.Unavailable, "server is shutting down")
		}
		return nil, status.FromContextError(err).Err()
	}

	out, err := structpb.NewStruct(map[string]any{
		pb.StatsPendingWriters: st.PendingWriters,
		pb.StatsPendingReaders: st.PendingReaders,
	})
	if err != nil {
		log.Error("failed to encode stats", zap.Error(err))
		return nil, status.Error(codes.Internal, "internal server error")
	}
	return out, nil
}

var _ Hub = (*rendezvous.Hub[[]byte])(nil)
