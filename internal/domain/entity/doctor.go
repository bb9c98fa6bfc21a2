package entity

import "strings"

// ConsultationMode is a way a doctor can be consulted. The values double as
// the labels used in the address parameter set.
type ConsultationMode string

const (
	ConsultationVideo    ConsultationMode = "video consult"
	ConsultationInClinic ConsultationMode = "in clinic"
)

// ParseConsultationMode matches raw case-insensitively against the known
// modes. Anything else yields the empty mode, meaning "all".
func ParseConsultationMode(raw string) ConsultationMode {
	switch {
	case strings.EqualFold(raw, string(ConsultationVideo)):
		return ConsultationVideo
	case strings.EqualFold(raw, string(ConsultationInClinic)):
		return ConsultationInClinic
	default:
		return ""
	}
}

// RawDoctor is one loosely typed record as delivered by a data source.
type RawDoctor map[string]any

// Doctor is the canonical practitioner record. Values are built once by the
// normalizer and never modified afterwards; filters return new slices.
type Doctor struct {
	ID                string
	Name              string
	Specialties       []string
	Qualification     string
	ExperienceYears   int
	ClinicName        string
	LocationCity      string
	FeeAmount         int
	ConsultationModes []ConsultationMode
	ProfileImageURL   string
}

// HasMode reports whether the doctor offers mode, ignoring case.
func (d Doctor) HasMode(mode ConsultationMode) bool {
	for _, m := range d.ConsultationModes {
		if strings.EqualFold(string(m), string(mode)) {
			return true
		}
	}
	return false
}

// HasAnySpecialty reports whether at least one of the doctor's specialties is
// in selected.
func (d Doctor) HasAnySpecialty(selected map[string]struct{}) bool {
	for _, s := range d.Specialties {
		if _, ok := selected[s]; ok {
			return true
		}
	}
	return false
}
