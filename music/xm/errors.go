package xm

import "errors"

var (
	errShortCell   = errors.New("xm: truncated pattern cell")
	errShortHeader = errors.New("xm: truncated module header")
	errBadMagic    = errors.New("xm: missing \"Extended Module: \" magic")
	errShortSample = errors.New("xm: truncated sample data")
)
