package ui

import "errors"

const (
	NoSelectionNotice = "Please upload an image first."
	BusyNotice        = "An analysis is already running. Please wait for it to finish."
)

var (
	ErrNoSelection = errors.New("no file selected")
	ErrBusy        = errors.New("submission already in progress")
	ErrEmptyFile   = errors.New("file has no content")
)
