package activity

import "github.com/rdlittle/contractor/internal/apperr"

// ErrInvalidInput indicates a nil or incomplete activity entry.
var ErrInvalidInput = apperr.New(apperr.ErrValidation, "invalid activity input")
