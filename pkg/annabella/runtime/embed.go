package runtime

import _ "embed"

// Source and Header are the embedded C runtime that generated translation
// units link against via the -build path (SPEC §10.6). Their contents are
// grounded on original_source/runtime/*.c and annabella-rt.h, trimmed to
// the value kinds and operations SPEC §6.3 requires.

//go:embed annabella-rt.c
var Source []byte

//go:embed annabella-rt.h
var Header []byte
