package repository

import "errors"

var (
	ErrSessionStart     = errors.New("browser session failed to start")
	ErrFilterControl    = errors.New("report filter control was not interactable")
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")
	ErrSheetNotFound    = errors.New("worksheet not found")
	ErrShapeMismatch    = errors.New("worksheet does not match the expected report layout")
)
