package objfile

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// arMember is one entry of a Unix archive's index: a name and the byte
// range of its content within the archive file.
type arMember struct {
	name  string
	start int
	end   int
}

const arMemberHeaderSize = 60

// readArMembers walks a "!<arch>\n"-prefixed archive's member headers,
// matching original_source/src/parse_file.cpp's read_archive. It supports
// BSD extended names ("#1/<len>", content-prefixed) since that's what the
// Apple toolchain's ar/libtool emit for static archives; GNU-style "//"
// name tables are not needed for the object archives this engine targets.
func readArMembers(window []byte) ([]arMember, error) {
	if len(window) < len(arMagic) || string(window[:len(arMagic)]) != arMagic {
		return nil, errors.New("not an archive")
	}

	var members []arMember
	pos := len(arMagic)
	for pos+arMemberHeaderSize <= len(window) {
		hdr := window[pos : pos+arMemberHeaderSize]
		name := strings.TrimRight(string(hdr[0:16]), " ")
		sizeField := strings.TrimSpace(string(hdr[48:58]))
		size, err := strconv.Atoi(sizeField)
		if err != nil {
			return nil, errors.Wrapf(err, "archive member size %q", sizeField)
		}

		contentStart := pos + arMemberHeaderSize
		contentEnd := contentStart + size
		if contentEnd > len(window) {
			return nil, errors.New("archive member overruns file")
		}

		if strings.HasPrefix(name, "#1/") {
			nameLen, err := strconv.Atoi(strings.TrimPrefix(name, "#1/"))
			if err == nil && contentStart+nameLen <= contentEnd {
				name = strings.TrimRight(string(window[contentStart:contentStart+nameLen]), "\x00")
				contentStart += nameLen
			}
		} else {
			name = strings.TrimSuffix(name, "/")
		}

		if name != "" && name != "__.SYMDEF" && name != "__.SYMDEF SORTED" {
			members = append(members, arMember{name: name, start: contentStart, end: contentEnd})
		}

		next := contentEnd
		if (size & 1) == 1 {
			next++ // members are padded to an even byte boundary
		}
		pos = next
	}
	return members, nil
}
