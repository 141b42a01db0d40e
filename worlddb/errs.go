package worlddb

import "errors"

// ErrValue reports a value whose bytes do not fit the layout its key
// demands.  Wrapped messages identify the variant and what went wrong.
var ErrValue = errors.New("worlddb: malformed value")
