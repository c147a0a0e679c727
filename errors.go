package main

import "errors"

var (
	ErrSessionStore     = errors.New("session store unavailable")
	ErrDelivery         = errors.New("message delivery failed")
	ErrInvalidCatalog   = errors.New("invalid intent catalog")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)
