// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package docquery

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// PARSER: Pure SSE framing layer. Knows nothing about event semantics.

// =============================================================================
// FRAME PARSER
// =============================================================================

// frameTerminator separates SSE frames: a blank line, i.e. two consecutive
// line breaks.
const frameTerminator = "\n\n"

// Parser reassembles complete SSE frames from raw byte chunks arriving at
// arbitrary, content-agnostic boundaries. A single chunk may contain zero,
// one, or many complete frames, and may split a frame anywhere - mid-field,
// mid-delimiter, or mid-rune.
//
// Parser is stateful and must not be shared across streams; the Streamer
// creates a fresh one per StartStream call.
type Parser struct {
	// dec decodes bytes to text incrementally. UTF-8 decoding must be
	// stateful so a multi-byte rune split across chunk boundaries is not
	// corrupted; a trailing partial rune stays in raw until the next chunk.
	dec *encoding.Decoder
	raw []byte

	// pending is the decoded text of the not-yet-terminated frame,
	// preserved verbatim across Feed calls.
	pending string
}

// NewParser creates a parser with a fresh decoder state.
func NewParser() *Parser {
	return &Parser{dec: unicode.UTF8.NewDecoder()}
}

// Feed consumes one raw chunk and returns the complete frames it finished,
// in order. Frames lacking an event kind or a data line (SSE comments,
// keep-alives) are discarded silently - that is not an error.
func (p *Parser) Feed(chunk []byte) []Frame {
	text := p.decode(chunk)

	// Carriage returns only ever appear as part of CRLF line endings on
	// this wire; payload line breaks arrive JSON-escaped. Dropping them
	// here keeps the terminator split correct even when a CRLF pair is
	// itself split across chunks.
	text = strings.ReplaceAll(text, "\r", "")

	p.pending += text

	segments := strings.Split(p.pending, frameTerminator)

	// All segments except the last are complete frames; the last (possibly
	// empty) is the in-progress frame and becomes the new buffer.
	p.pending = segments[len(segments)-1]

	var frames []Frame
	for _, seg := range segments[:len(segments)-1] {
		if f, ok := parseFrame(seg); ok {
			frames = append(frames, f)
		}
	}
	return frames
}

// decode appends chunk to the undecoded tail and returns as much decoded
// text as the bytes allow. A trailing incomplete rune is retained for the
// next call; invalid sequences are replaced, never dropped.
func (p *Parser) decode(chunk []byte) string {
	p.raw = append(p.raw, chunk...)

	var out strings.Builder
	for len(p.raw) > 0 {
		dst := make([]byte, len(p.raw)+utf8.UTFMax)
		nDst, nSrc, err := p.dec.Transform(dst, p.raw, false)
		out.Write(dst[:nDst])
		p.raw = p.raw[nSrc:]
		if err == transform.ErrShortDst {
			continue
		}
		// nil: everything consumed. ErrShortSrc: a partial rune stays
		// buffered in raw until more bytes arrive.
		break
	}
	return out.String()
}

// =============================================================================
// FRAME DECODING
// =============================================================================

// parseFrame splits one terminated segment into lines and extracts the
// event kind and data. Returns ok=false when either is missing.
func parseFrame(seg string) (Frame, bool) {
	var f Frame
	var hasEvent, hasData bool

	for _, line := range strings.Split(seg, "\n") {
		switch {
		case strings.HasPrefix(line, "event:"):
			// Only leading whitespace after the colon is insignificant;
			// anything trailing stays part of the kind.
			f.Event = strings.TrimLeft(line[len("event:"):], " \t")
			hasEvent = true

		case strings.HasPrefix(line, "data:"):
			data := line[len("data:"):]
			// Strip at most ONE leading space. Payloads may legitimately
			// begin with whitespace, so a second space belongs to the data.
			if len(data) > 0 && data[0] == ' ' {
				data = data[1:]
			}
			f.Data = data
			hasData = true
		}
		// Other fields (id:, retry:, ": comment") are ignored.
	}

	if !hasEvent || !hasData {
		return Frame{}, false
	}
	return f, true
}
