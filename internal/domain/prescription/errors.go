package prescription

import "errors"

var (
	ErrPrescriptionNotFound = errors.New("prescription not found")
	ErrAlreadyDispensed     = errors.New("prescription has already been dispensed")
	ErrUnknownConsultation  = errors.New("prescription references an unknown consultation")
)
