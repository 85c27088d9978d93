package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ashureev/mindcraft-labs/internal/domain"
	pb "github.com/ashureev/mindcraft-labs/internal/proto/challenge"
	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
)

var (
	errConnectionShutdown       = errors.New("connection shutdown")
	errConnectionStateUnchanged = errors.New("connection state did not change")
)

// ClientConfig holds configuration for the gRPC client.
type ClientConfig struct {
	Address          string
	ConnectTimeout   time.Duration
	KeepaliveTime    time.Duration
	KeepaliveTimeout time.Duration
}

// DefaultClientConfig returns default configuration for addr.
func DefaultClientConfig(addr string) ClientConfig {
	return ClientConfig{
		Address:          addr,
		ConnectTimeout:   5 * time.Second,
		KeepaliveTime:    2 * time.Minute,
		KeepaliveTimeout: 10 * time.Second,
	}
}

// Client calls a remote challenge service.
type Client struct {
	conn   *grpc.ClientConn
	client pb.ChallengeServiceClient
	addr   string
	logger *slog.Logger
}

// Dial connects to the challenge service and waits until the connection is
// ready, failing fast on bad endpoints.
func Dial(cfg ClientConfig, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	kacp := keepalive.ClientParameters{
		Time:                cfg.KeepaliveTime,
		Timeout:             cfg.KeepaliveTimeout,
		PermitWithoutStream: false,
	}

	conn, err := grpc.NewClient(cfg.Address,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithKeepaliveParams(kacp),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to challenge service at %s: %w", cfg.Address, err)
	}

	connectCtx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()
	if err := waitForReady(connectCtx, conn); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			logger.Warn("failed to close gRPC connection after readiness failure", "error", closeErr)
		}
		return nil, fmt.Errorf("challenge service at %s not ready: %w", cfg.Address, err)
	}

	logger.Info("Connected to challenge service", "address", cfg.Address)
	return &Client{conn: conn, client: pb.NewChallengeServiceClient(conn), addr: cfg.Address, logger: logger}, nil
}

// NewClient wraps an existing connection.
func NewClient(conn *grpc.ClientConn, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{conn: conn, client: pb.NewChallengeServiceClient(conn), addr: conn.Target(), logger: logger}
}

func waitForReady(ctx context.Context, conn *grpc.ClientConn) error {
	for {
		state := conn.GetState()
		switch state {
		case connectivity.Ready:
			return nil
		case connectivity.Idle:
			conn.Connect()
		case connectivity.Shutdown:
			return errConnectionShutdown
		}

		if !conn.WaitForStateChange(ctx, state) {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w from %s", errConnectionStateUnchanged, state)
		}
	}
}

// Close closes the gRPC connection.
func (c *Client) Close() {
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			c.logger.Warn("failed to close gRPC connection", "error", err)
		}
	}
}

// Next fetches a challenge for the category.
func (c *Client) Next(ctx context.Context, category domain.Category) (domain.Challenge, error) {
	out, err := c.client.Next(ctx, &pb.NextRequest{Category: string(category)})
	if err != nil {
		return domain.Challenge{}, fromStatus(err)
	}
	ch, err := challengeFromProto(out)
	if err != nil {
		return domain.Challenge{}, fmt.Errorf("decode challenge: %w", err)
	}
	return ch, nil
}

// Check grades an answer for a player.
func (c *Client) Check(ctx context.Context, userID string, ch domain.Challenge, answer string) (domain.ChallengeResult, error) {
	out, err := c.client.Check(ctx, &pb.CheckRequest{
		UserId:    userID,
		Challenge: challengeToProto(ch),
		Answer:    answer,
	})
	if err != nil {
		return domain.ChallengeResult{}, fromStatus(err)
	}
	return resultFromProto(out), nil
}
