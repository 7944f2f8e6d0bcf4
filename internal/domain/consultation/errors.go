package consultation

import "errors"

var (
	ErrConsultationNotFound = errors.New("consultation not found")
	ErrUnknownPatient       = errors.New("consultation references an unknown patient")
	ErrUnknownDoctor        = errors.New("consultation references an unknown doctor")
)
