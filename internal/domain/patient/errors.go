package patient

import "errors"

var (
	ErrPatientNotFound      = errors.New("patient not found")
	ErrPatientAlreadyExists = errors.New("patient with this QID already exists")
	ErrQIDRequired          = errors.New("QID is required")
	ErrInvalidDateOfBirth   = errors.New("date of birth cannot be in the future")
)
