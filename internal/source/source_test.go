package source

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"hdxsfx/internal/container"
	"hdxsfx/internal/security"
	"hdxsfx/pkg/sfx/sfxtest"
	"hdxsfx/pkg/spec"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "ui"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "ui", "click.wav"), []byte("click"), 0o644))

	d := Dir{Root: root}
	data, err := d.Fetch(context.Background(), "ui/click.wav")
	require.NoError(t, err)
	assert.Equal(t, "click", string(data))

	_, err = d.Fetch(context.Background(), "ui/none.wav")
	assert.ErrorIs(t, err, ErrNotFound)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = d.Fetch(ctx, "ui/click.wav")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sounds/coin.wav":
			w.Write([]byte("coin"))
		case "/sounds/broken.wav":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	h := HTTP{Client: srv.Client()}
	data, err := h.Fetch(context.Background(), srv.URL+"/sounds/coin.wav")
	require.NoError(t, err)
	assert.Equal(t, "coin", string(data))

	_, err = h.Fetch(context.Background(), srv.URL+"/sounds/missing.wav")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = h.Fetch(context.Background(), srv.URL+"/sounds/broken.wav")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "500")
}

func TestBank_PlainAndSealed(t *testing.T) {
	plain := container.NewBank("ui")
	require.NoError(t, plain.Put("click.wav", []byte("click")))

	s, err := NewBank(plain, "sounds/", "")
	require.NoError(t, err)
	data, err := s.Fetch(context.Background(), "sounds/click.wav")
	require.NoError(t, err)
	assert.Equal(t, "click", string(data))

	_, err = s.Fetch(context.Background(), "sounds/none.wav")
	assert.ErrorIs(t, err, ErrNotFound)

	salt := []byte("0123456789abcdef")
	enc, err := security.Encrypt([]byte("secret-click"), security.DeriveKey("pw", salt))
	require.NoError(t, err)
	sealed := container.NewBank("ui")
	sealed.Salt = salt
	require.NoError(t, sealed.Put("click.wav", enc))

	_, err = NewBank(sealed, "", "")
	assert.Error(t, err, "sealed bank needs a passphrase")

	s, err = NewBank(sealed, "", "pw")
	require.NoError(t, err)
	data, err = s.Fetch(context.Background(), "click.wav")
	require.NoError(t, err)
	assert.Equal(t, "secret-click", string(data))

	s, err = NewBank(sealed, "", "wrong")
	require.NoError(t, err)
	_, err = s.Fetch(context.Background(), "click.wav")
	assert.Error(t, err)
}

func TestSealed(t *testing.T) {
	key := security.DeriveKey("pw", []byte(spec.Salt))
	sealedBytes, err := security.Seal([]byte("hidden"), key)
	require.NoError(t, err)

	next := sfxtest.NewSource(map[string][]byte{
		"a.wav": sealedBytes,
		"b.wav": []byte("plain"),
	})
	s := NewSealed(next, "pw")

	data, err := s.Fetch(context.Background(), "a.wav")
	require.NoError(t, err)
	assert.Equal(t, "hidden", string(data))

	data, err = s.Fetch(context.Background(), "b.wav")
	require.NoError(t, err)
	assert.Equal(t, "plain", string(data))

	_, err = NewSealed(next, "nope").Fetch(context.Background(), "a.wav")
	assert.Error(t, err)
}

func TestCached(t *testing.T) {
	next := sfxtest.NewSource(map[string][]byte{"a.wav": []byte("a")})
	c := NewCached(next, time.Minute)

	for i := 0; i < 3; i++ {
		data, err := c.Fetch(context.Background(), "a.wav")
		require.NoError(t, err)
		assert.Equal(t, "a", string(data))
	}
	assert.Equal(t, []string{"a.wav"}, next.Fetches)
	assert.Equal(t, 1, c.Len())

	_, err := c.Fetch(context.Background(), "b.wav")
	require.Error(t, err)
	_, err = c.Fetch(context.Background(), "b.wav")
	require.Error(t, err)
	assert.Len(t, next.Fetches, 3, "errors are not cached")
}

func TestBuild(t *testing.T) {
	src, err := Build(Options{Kind: KindDir})
	require.NoError(t, err)
	assert.IsType(t, Dir{}, src)

	src, err = Build(Options{Kind: KindHTTP, Passphrase: "pw", CacheTTL: time.Second})
	require.NoError(t, err)
	c, ok := src.(*Cached)
	require.True(t, ok)
	assert.IsType(t, &Sealed{}, c.Next)

	b := container.NewBank("ui")
	require.NoError(t, b.Put("x.wav", []byte("x")))
	var buf bytes.Buffer
	require.NoError(t, container.WriteBank(&buf, b))
	path := filepath.Join(t.TempDir(), "ui.hdxs")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	src, err = Build(Options{Kind: KindBank, BankPath: path, BasePath: "sfx/"})
	require.NoError(t, err)
	data, err := src.Fetch(context.Background(), "sfx/x.wav")
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))

	_, err = Build(Options{Kind: "ftp"})
	assert.Error(t, err)
	_, err = Build(Options{Kind: KindBank, BankPath: filepath.Join(t.TempDir(), "none")})
	assert.Error(t, err)
}
