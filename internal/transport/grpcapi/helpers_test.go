package grpcapi

import (
	"context"
	"net"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/credkeeper/internal/auth"
	"github.com/dmitrijs2005/credkeeper/internal/cryptox"
	"github.com/dmitrijs2005/credkeeper/internal/idcodec"
	"github.com/dmitrijs2005/credkeeper/internal/logging"
	"github.com/dmitrijs2005/credkeeper/internal/repositories/repomanager"
	"github.com/dmitrijs2005/credkeeper/internal/repositories/users"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/peer"
)

func newAuthService(t *testing.T) *auth.Service {
	t.Helper()
	ctx := context.Background()

	db, m, err := repomanager.Open(ctx, filepath.Join(t.TempDir(), "grpc.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ids, err := idcodec.NewSqidsCodec("", 8)
	require.NoError(t, err)

	key := make([]byte, cryptox.KeySize)
	gcm, err := cryptox.NewGCMCipher(key)
	require.NoError(t, err)
	siv, err := cryptox.NewSIVCipher(key)
	require.NoError(t, err)

	return auth.NewService(
		users.NewStore(m.Users(db), ids),
		auth.NewCipherVerifier(gcm),
		auth.NewTokenCodec(siv),
		logging.Discard(),
	)
}

func peerContext(addr string) context.Context {
	tcp, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		panic(err)
	}
	return peer.NewContext(context.Background(), &peer.Peer{Addr: tcp})
}
