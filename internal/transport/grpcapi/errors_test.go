package grpcapi

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestToStatusAndBack(t *testing.T) {
	tests := []struct {
		in   error
		code codes.Code
		back error
	}{
		{common.ErrorUnauthorized, codes.Unauthenticated, common.ErrorUnauthorized},
		{fmt.Errorf("wrapped: %w", common.ErrInvalidArgument), codes.InvalidArgument, common.ErrInvalidArgument},
		{common.ErrorAlreadyExists, codes.AlreadyExists, common.ErrorAlreadyExists},
		{common.ErrorNotFound, codes.NotFound, common.ErrorNotFound},
		{fmt.Errorf("find: %w: dial tcp", common.ErrStoreUnavailable), codes.Unavailable, common.ErrStoreUnavailable},
		{errors.New("boom"), codes.Internal, common.ErrorInternal},
	}
	for _, tt := range tests {
		st := toStatus(tt.in)
		assert.Equal(t, tt.code, status.Code(st), "for %v", tt.in)
		require.ErrorIs(t, fromStatus(st), tt.back)
	}

	assert.NoError(t, toStatus(nil))
	assert.NoError(t, fromStatus(nil))
	require.ErrorIs(t, fromStatus(status.Error(codes.ResourceExhausted, "slow down")), ErrRateLimited)

	plain := errors.New("not a status")
	assert.Equal(t, plain, fromStatus(plain))
}

func TestToStatus_DoesNotLeakDetail(t *testing.T) {
	st := toStatus(fmt.Errorf("find: %w: password authentication failed for user root", common.ErrStoreUnavailable))
	assert.Equal(t, "store unavailable", status.Convert(st).Message())
}
