// Package decode reverses the text encodings commonly stacked on top of
// injected hidden-link payloads.
//
// Four decoders are provided: percent-encoding, HTML entities, \xHH escapes,
// and base64. Each one is applied blindly to arbitrary page text, so each is
// total: malformed input is left as it is and no decoder ever returns an
// error. Deep repeats the four decoders as one round until the text stops
// changing or a depth limit is reached.
//
// # Usage
//
//	text := decode.Deep(body, decode.DefaultMaxDepth)
//
// Base64 decoding is attempted on every run of base64 alphabet characters,
// so plain words of four or more letters can be rewritten into noise. A run
// whose length leaves a remainder of one when divided by four cannot be
// decoded and is kept.
package decode
