package codec

import "github.com/pkg/errors"

var ErrArgumentsInvalid = errors.New("argument bytes invalid")

const addressWidth = 32
