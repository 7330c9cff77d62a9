package codec

import "errors"

var (
	ErrParse     = errors.New("parse error")
	ErrSerialize = errors.New("serialize error")
)
