package objfile

import (
	"github.com/pkg/errors"

	"github.com/blacktop/odrv/internal/freader"
)

// Reopen re-mmaps the exact byte range a Registry Entry recorded and
// decodes its debug sections again, for the rare second-pass re-fetch a
// conflict report needs (SPEC_FULL.md §4.D's FetchOneDIE). The caller owns
// the returned Reader's lifetime and must Close it.
func Reopen(e Entry) (*freader.Reader, *DWARFSections, error) {
	r, err := freader.OpenRange(e.Path, e.Start, e.End)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "reopen %s", e.Path)
	}
	sections, _, err := openMachoSections(r.WindowBytes())
	if err != nil {
		r.Close()
		return nil, nil, errors.Wrapf(err, "reopen %s", e.Path)
	}
	return r, sections, nil
}
