package models

import (
	"errors"
	"fmt"
)

// UploadState tracks one document upload from the wizard.
type UploadState string

const (
	UploadIdle      UploadState = "idle"
	UploadUploading UploadState = "uploading"
	UploadSuccess   UploadState = "success"
	UploadError     UploadState = "error"
)

var ErrInvalidTransition = errors.New("invalid upload state transition")

var uploadTransitions = map[UploadState][]UploadState{
	UploadIdle:      {UploadUploading},
	UploadUploading: {UploadSuccess, UploadError},
	UploadSuccess:   {UploadUploading},
	UploadError:     {UploadUploading},
}

// Transition returns next if moving there from s is allowed.
func (s UploadState) Transition(next UploadState) (UploadState, error) {
	for _, allowed := range uploadTransitions[s] {
		if allowed == next {
			return next, nil
		}
	}
	return s, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, next)
}
