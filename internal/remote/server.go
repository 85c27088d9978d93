package remote

import (
	"context"
	"log/slog"
	"time"

	"github.com/ashureev/mindcraft-labs/internal/domain"
	pb "github.com/ashureev/mindcraft-labs/internal/proto/challenge"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// Backend is the challenge service exposed over gRPC.
type Backend interface {
	Next(ctx context.Context, category domain.Category) (domain.Challenge, error)
	Check(ctx context.Context, userID string, c domain.Challenge, answer string) (domain.ChallengeResult, error)
}

type server struct {
	pb.UnimplementedChallengeServiceServer
	backend Backend
}

// NewServer creates a gRPC server with the challenge service registered and
// a logging interceptor installed.
func NewServer(backend Backend, logger *slog.Logger, opts ...grpc.ServerOption) *grpc.Server {
	if logger == nil {
		logger = slog.Default()
	}
	opts = append(opts, grpc.ChainUnaryInterceptor(unaryLogger(logger)))
	s := grpc.NewServer(opts...)
	Register(s, backend)
	return s
}

// Register registers the challenge service on s.
func Register(s grpc.ServiceRegistrar, backend Backend) {
	pb.RegisterChallengeServiceServer(s, &server{backend: backend})
}

func (s *server) Next(ctx context.Context, in *pb.NextRequest) (*pb.Challenge, error) {
	category, err := domain.ParseCategory(in.GetCategory())
	if err != nil {
		return nil, toStatus(err)
	}
	c, err := s.backend.Next(ctx, category)
	if err != nil {
		return nil, toStatus(err)
	}
	return challengeToProto(c), nil
}

func (s *server) Check(ctx context.Context, in *pb.CheckRequest) (*pb.ChallengeResult, error) {
	c, err := challengeFromProto(in.GetChallenge())
	if err != nil {
		return nil, toStatus(err)
	}
	res, err := s.backend.Check(ctx, in.GetUserId(), c, in.GetAnswer())
	if err != nil {
		return nil, toStatus(err)
	}
	return resultToProto(res), nil
}

func unaryLogger(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		if err != nil {
			logger.Warn("gRPC call failed", "method", info.FullMethod, "code", status.Code(err).String(), "error", err, "duration", time.Since(start))
		} else {
			logger.Debug("gRPC call", "method", info.FullMethod, "duration", time.Since(start))
		}
		return resp, err
	}
}
