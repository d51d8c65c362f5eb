package i18n

import "errors"

var (
	ErrFailedToParseYAML = errors.New("failed to parse YAML content")
	ErrInvalidMessages   = errors.New("invalid message catalog")
	ErrFailedToReadFile  = errors.New("failed to read message file")
)
