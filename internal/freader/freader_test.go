package freader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, data []byte) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.bin")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestReadAndGet(t *testing.T) {
	path := writeFixture(t, []byte{0x01, 0x02, 0x03, 0x04})
	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, 4, r.Size())
	assert.Equal(t, byte(0x01), r.Get())
	got := r.Read(2)
	assert.Equal(t, []byte{0x02, 0x03}, got)
	assert.Equal(t, int64(3), r.Tell())
}

func TestSeekWhence(t *testing.T) {
	path := writeFixture(t, []byte("abcdefgh"))
	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	r.Seek(4, Beg)
	assert.Equal(t, byte('e'), r.Get())

	r.Seek(-2, Cur)
	assert.Equal(t, byte('d'), r.Get())

	r.Seek(3, End)
	assert.Equal(t, byte('f'), r.Get())
}

func TestReadCString(t *testing.T) {
	path := writeFixture(t, append([]byte("hello\x00"), []byte("world")...))
	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	s := r.ReadCString()
	assert.Equal(t, "hello", string(s))
	assert.Equal(t, int64(6), r.Tell())
}

func TestTempSeekRestoresPosition(t *testing.T) {
	path := writeFixture(t, []byte("0123456789"))
	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	r.Seek(3, Beg)
	result := TempSeek(r, 7, Beg, func() byte { return r.Get() })
	assert.Equal(t, byte('7'), result)
	assert.Equal(t, int64(3), r.Tell())
}

func TestTempSeekRestoresPositionOnPanic(t *testing.T) {
	path := writeFixture(t, []byte("0123456789"))
	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	r.Seek(2, Beg)
	func() {
		defer func() { recover() }()
		TempSeek(r, 5, Beg, func() byte {
			panic("boom")
		})
	}()
	assert.Equal(t, int64(2), r.Tell())
}

func TestSubWindow(t *testing.T) {
	path := writeFixture(t, []byte("0123456789"))
	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	r.Seek(2, Beg)
	sub := r.Sub(6)
	assert.Equal(t, 4, sub.Size())
	assert.Equal(t, []byte("2345"), sub.Read(4))
}

func TestUintReaders(t *testing.T) {
	path := writeFixture(t, []byte{0x01, 0x00, 0x02, 0x00, 0x00, 0x00, 0x03, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00})
	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, uint16(1), r.Uint16())
	assert.Equal(t, uint32(2), r.Uint32())
}

func TestEmptyFile(t *testing.T) {
	path := writeFixture(t, nil)
	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, 0, r.Size())
}
