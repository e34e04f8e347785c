package objfile

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildArMember(name string, content []byte) []byte {
	hdr := make([]byte, arMemberHeaderSize)
	copy(hdr, []byte(fmt.Sprintf("%-16s", name)))
	copy(hdr[16:], []byte(fmt.Sprintf("%-12s", "0")))
	copy(hdr[28:], []byte(fmt.Sprintf("%-6s", "0")))
	copy(hdr[34:], []byte(fmt.Sprintf("%-6s", "0")))
	copy(hdr[40:], []byte(fmt.Sprintf("%-8s", "0")))
	copy(hdr[48:], []byte(fmt.Sprintf("%-10d", len(content))))
	hdr[58], hdr[59] = '`', '\n'

	body := append(hdr, content...)
	if len(content)%2 == 1 {
		body = append(body, 0)
	}
	return body
}

func TestReadArMembers(t *testing.T) {
	var archive []byte
	archive = append(archive, []byte(arMagic)...)
	archive = append(archive, buildArMember("a.o", []byte{0x01, 0x02, 0x03})...)
	archive = append(archive, buildArMember("b.o", []byte{0xaa, 0xbb})...)

	members, err := readArMembers(archive)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "a.o", members[0].name)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, archive[members[0].start:members[0].end])
	assert.Equal(t, "b.o", members[1].name)
	assert.Equal(t, []byte{0xaa, 0xbb}, archive[members[1].start:members[1].end])
}

func TestReadArMembersRejectsNonArchive(t *testing.T) {
	_, err := readArMembers([]byte("not an archive"))
	assert.Error(t, err)
}
