// Package remote exposes the challenge service over gRPC and provides a
// client for it.
package remote

import (
	"errors"
	"fmt"

	"github.com/ashureev/mindcraft-labs/internal/domain"
	pb "github.com/ashureev/mindcraft-labs/internal/proto/challenge"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrMalformed reports a request the service could not decode.
var ErrMalformed = errors.New("malformed message")

// errorDomain scopes the ErrorInfo reasons below.
const errorDomain = "mindcraft.challenge.v1"

const (
	reasonUnknownCategory = "UNKNOWN_CATEGORY"
	reasonNotFound        = "CHALLENGE_NOT_FOUND"
	reasonMalformed       = "MALFORMED_MESSAGE"
)

func challengeToProto(c domain.Challenge) *pb.Challenge {
	out := &pb.Challenge{Type: string(c.Kind()), Hint: c.Hint()}
	switch c.Kind() {
	case domain.CategoryMath:
		out.Question = c.Prompt()
	case domain.CategoryReading:
		out.Word = c.Word()
	}
	return out
}

func challengeFromProto(c *pb.Challenge) (domain.Challenge, error) {
	if c == nil {
		return domain.Challenge{}, fmt.Errorf("%w: missing challenge", ErrMalformed)
	}
	ch, err := domain.ChallengeFromWire(c.GetType(), c.GetQuestion(), c.GetWord(), c.GetHint())
	if err != nil {
		return domain.Challenge{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return ch, nil
}

func resultToProto(r domain.ChallengeResult) *pb.ChallengeResult {
	areas := make([]int32, 0, len(r.UnlockedAreas))
	for _, id := range r.UnlockedAreas {
		areas = append(areas, int32(id))
	}
	return &pb.ChallengeResult{
		Correct:       r.Correct,
		EarnedXp:      int32(r.EarnedXP),
		EarnedCoins:   int32(r.EarnedCoins),
		EarnedItem:    r.EarnedItem,
		NewLevel:      int32(r.NewLevel),
		NewXp:         int32(r.NewXP),
		NewCoins:      int32(r.NewCoins),
		UnlockedAreas: areas,
		CorrectAnswer: r.CorrectAnswer,
	}
}

func resultFromProto(r *pb.ChallengeResult) domain.ChallengeResult {
	areas := make([]int, 0, len(r.GetUnlockedAreas()))
	for _, id := range r.GetUnlockedAreas() {
		areas = append(areas, int(id))
	}
	return domain.ChallengeResult{
		Correct:       r.GetCorrect(),
		EarnedXP:      int(r.GetEarnedXp()),
		EarnedCoins:   int(r.GetEarnedCoins()),
		EarnedItem:    r.GetEarnedItem(),
		NewLevel:      int(r.GetNewLevel()),
		NewXP:         int(r.GetNewXp()),
		NewCoins:      int(r.GetNewCoins()),
		UnlockedAreas: areas,
		CorrectAnswer: r.GetCorrectAnswer(),
	}
}

// toStatus maps domain errors onto gRPC statuses carrying an ErrorInfo
// reason, so the client can tell errors sharing a code apart.
func toStatus(err error) error {
	var code codes.Code
	var reason string
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrUnknownCategory):
		code, reason = codes.InvalidArgument, reasonUnknownCategory
	case errors.Is(err, domain.ErrChallengeNotFound):
		code, reason = codes.NotFound, reasonNotFound
	case errors.Is(err, ErrMalformed):
		code, reason = codes.InvalidArgument, reasonMalformed
	default:
		return status.Error(codes.Internal, err.Error())
	}

	st, detailErr := status.New(code, err.Error()).WithDetails(&errdetails.ErrorInfo{
		Reason: reason,
		Domain: errorDomain,
	})
	if detailErr != nil {
		return status.Error(code, err.Error())
	}
	return st.Err()
}

func reasonOf(st *status.Status) string {
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok && info.GetDomain() == errorDomain {
			return info.GetReason()
		}
	}
	return ""
}

// fromStatus maps gRPC statuses back onto domain errors.
func fromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch reasonOf(st) {
	case reasonUnknownCategory:
		return fmt.Errorf("%w: %s", domain.ErrUnknownCategory, st.Message())
	case reasonNotFound:
		return fmt.Errorf("%w: %s", domain.ErrChallengeNotFound, st.Message())
	case reasonMalformed:
		return fmt.Errorf("%w: %s", ErrMalformed, st.Message())
	default:
		return fmt.Errorf("remote challenge service: %w", err)
	}
}
