// Package tensorio implements the on-disk operator file format used by the
// surface language's `load` expression (spec §6 grammar: `expr := "load"
// string`). A file is a small CBOR-encoded document: a semver-checked
// format header followed by a flat placement + complex-matrix payload.
package tensorio

import (
	"bytes"

	"github.com/blang/semver/v4"
	"github.com/fxamacker/cbor/v2"

	"github.com/nqpv-lang/nqpv/nqerr"
	"github.com/nqpv-lang/nqpv/qubit"
	"github.com/nqpv-lang/nqpv/tensor"
)

// CurrentFormatVersion is the version this package writes.
const CurrentFormatVersion = "1.0.0"

// supportedRange is the set of FormatVersion values this package can read.
// Widening it (e.g. to admit a 1.1.0 that only adds optional fields) is the
// expected maintenance path; a 2.0.0 bump signals a breaking payload change.
var supportedRange = semver.MustParseRange(">=1.0.0 <2.0.0")

// file is the document's wire shape. complexWire stores one matrix entry
// as a (real, imaginary) pair: cbor (like the teacher's witness/solution
// codec) has no native complex type.
type file struct {
	FormatVersion string        `cbor:"format_version"`
	Placement     []string      `cbor:"placement"`
	Dim           int           `cbor:"dim"`
	Entries       []complexWire `cbor:"entries"`
}

type complexWire struct {
	Re float64 `cbor:"re"`
	Im float64 `cbor:"im"`
}

// Save encodes t to CBOR bytes.
func Save(t *tensor.Tensor) ([]byte, error) {
	f := file{
		FormatVersion: CurrentFormatVersion,
		Placement:     append([]string(nil), t.Placement...),
		Dim:           t.Dim(),
		Entries:       make([]complexWire, len(t.Data)),
	}
	for i, v := range t.Data {
		f.Entries[i] = complexWire{Re: real(v), Im: imag(v)}
	}

	var buf bytes.Buffer
	enc := cbor.NewEncoder(&buf)
	if err := enc.Encode(f); err != nil {
		return nil, nqerr.Semanticf("tensorio: encode failed: %v", err)
	}
	return buf.Bytes(), nil
}

// Load decodes CBOR bytes back into a Tensor, checking FormatVersion
// against supportedRange before trusting the payload shape.
func Load(data []byte) (*tensor.Tensor, error) {
	var f file
	if err := cbor.Unmarshal(data, &f); err != nil {
		return nil, nqerr.Semanticf("tensorio: decode failed: %v", err)
	}

	version, err := semver.Parse(f.FormatVersion)
	if err != nil {
		return nil, nqerr.Semanticf("tensorio: invalid format_version %q: %v", f.FormatVersion, err)
	}
	if !supportedRange(version) {
		return nil, nqerr.Semanticf("tensorio: unsupported format_version %q", f.FormatVersion)
	}

	placement := qubit.Register(f.Placement)
	if err := qubit.Validate(placement); err != nil {
		return nil, err
	}
	wantDim := 1 << len(placement)
	if f.Dim != wantDim || len(f.Entries) != wantDim*wantDim {
		return nil, nqerr.Semanticf(
			"tensorio: payload shape mismatch: placement implies dim=%d (%d entries), file has dim=%d (%d entries)",
			wantDim, wantDim*wantDim, f.Dim, len(f.Entries))
	}

	t := tensor.New(placement)
	for i, e := range f.Entries {
		t.Data[i] = complex(e.Re, e.Im)
	}
	return t, nil
}
