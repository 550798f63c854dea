package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/litreview/pkg/util"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestImageStore_SaveAndDelete(t *testing.T) {
	store, err := NewImageStore(t.TempDir(), 1<<20)
	require.NoError(t, err)

	key, err := store.Save(bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.Equal(t, "image/png", ContentType(key))

	path, err := store.Path(key)
	require.NoError(t, err)
	_, err = os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, store.Delete(key))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, store.Delete(key))
}

func TestImageStore_RejectsNonImage(t *testing.T) {
	store, err := NewImageStore(t.TempDir(), 1<<20)
	require.NoError(t, err)

	_, err = store.Save(strings.NewReader("definitely not a picture"))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	assert.Contains(t, apperrors.ToDomainError(err).Details, "image")
}

func TestImageStore_RejectsOversize(t *testing.T) {
	data := pngBytes(t)
	store, err := NewImageStore(t.TempDir(), int64(len(data)-1))
	require.NoError(t, err)

	_, err = store.Save(bytes.NewReader(data))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestImageStore_PathRejectsTraversal(t *testing.T) {
	store, err := NewImageStore(t.TempDir(), 1<<20)
	require.NoError(t, err)

	_, err = store.Path("../../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidKey)
}
