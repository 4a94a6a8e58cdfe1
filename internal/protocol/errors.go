package protocol

import "errors"

// ErrUnknownVerb is returned when a line's first token isn't a recognized
// command.
var ErrUnknownVerb = errors.New("protocol: unknown verb")

// ErrMalformed is returned when a recognized verb's arguments don't match
// its grammar.
var ErrMalformed = errors.New("protocol: malformed command")
