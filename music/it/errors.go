package it

import "errors"

var (
	errShortHeader = errors.New("it: truncated module header")
	errBadMagic    = errors.New("it: missing IMPM magic")
	errShortRow    = errors.New("it: truncated pattern row data")
)
