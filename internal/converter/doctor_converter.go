package converter

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"go-doctor-directory/internal/delivery/dto"
	"go-doctor-directory/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// feeNoise lists currency markers stripped from fee strings before parsing.
// The mis-decoded rupee sign shows up in some upstream payloads.
var feeNoise = strings.NewReplacer(
	"â‚¹", "",
	"₹", "",
	"INR", "",
	"Rs.", "",
	"Rs", "",
	"$", "",
	",", "",
)

// Normalized amounts are capped so they stay non-negative on every platform.
var maxAmount = decimal.NewFromInt(math.MaxInt32)

// RawToDoctor normalizes one loosely typed source record. It never fails:
// missing or mistyped fields fall back to their zero value.
func RawToDoctor(raw entity.RawDoctor) entity.Doctor {
	clinic := asMap(raw["clinic"])
	var address map[string]any
	if clinic != nil {
		address = asMap(clinic["address"])
	}

	return entity.Doctor{
		ID:                asID(raw["id"]),
		Name:              asString(raw["name"]),
		Specialties:       specialtyNames(raw["specialities"]),
		Qualification:     asString(raw["doctor_introduction"]),
		ExperienceYears:   parseExperience(raw["experience"]),
		ClinicName:        asString(clinic["name"]),
		LocationCity:      asString(address["city"]),
		FeeAmount:         parseFee(raw["fees"]),
		ConsultationModes: consultationModes(raw),
		ProfileImageURL:   asString(raw["photo"]),
	}
}

// RawToDoctors normalizes every record, keeping source order.
func RawToDoctors(raws []entity.RawDoctor) []entity.Doctor {
	doctors := make([]entity.Doctor, 0, len(raws))
	for _, raw := range raws {
		if raw == nil {
			continue
		}
		doctors = append(doctors, RawToDoctor(raw))
	}
	return doctors
}

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO
func DoctorToResponse(doctor entity.Doctor) dto.DoctorResponse {
	modes := make([]string, len(doctor.ConsultationModes))
	for i, m := range doctor.ConsultationModes {
		modes[i] = string(m)
	}
	specialties := doctor.Specialties
	if specialties == nil {
		specialties = []string{}
	}

	return dto.DoctorResponse{
		ID:                doctor.ID,
		Name:              doctor.Name,
		Specialties:       specialties,
		Qualification:     doctor.Qualification,
		ExperienceYears:   doctor.ExperienceYears,
		ClinicName:        doctor.ClinicName,
		LocationCity:      doctor.LocationCity,
		FeeAmount:         doctor.FeeAmount,
		ConsultationModes: modes,
		ProfileImageURL:   doctor.ProfileImageURL,
	}
}

// DoctorsToResponses converts a slice of Doctor entities to slice of DoctorResponse DTOs
func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i, doctor := range doctors {
		responses[i] = DoctorToResponse(doctor)
	}
	return responses
}

func asMap(v any) map[string]any {
	switch m := v.(type) {
	case map[string]any:
		return m
	case entity.RawDoctor:
		return m
	}
	return nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		if id == math.Trunc(id) && !math.IsInf(id, 0) {
			return strconv.FormatInt(int64(id), 10)
		}
		return strconv.FormatFloat(id, 'f', -1, 64)
	}
	return ""
}

func specialtyNames(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}

	seen := make(map[string]struct{}, len(items))
	names := make([]string, 0, len(items))
	for _, item := range items {
		name := asString(asMap(item)["name"])
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

func consultationModes(raw entity.RawDoctor) []entity.ConsultationMode {
	modes := make([]entity.ConsultationMode, 0, 2)
	if truthy(raw["video_consult"]) {
		modes = append(modes, entity.ConsultationVideo)
	}
	if truthy(raw["in_clinic"]) {
		modes = append(modes, entity.ConsultationInClinic)
	}
	return modes
}

func truthy(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case float64:
		return b != 0 && !math.IsNaN(b)
	case string:
		s := strings.TrimSpace(strings.ToLower(b))
		return s != "" && s != "false" && s != "0"
	}
	return false
}

// parseExperience reads the leading whitespace-delimited token of strings
// such as "13 Years of experience".
func parseExperience(v any) int {
	switch e := v.(type) {
	case float64:
		return clampInt(e)
	case string:
		fields := strings.Fields(e)
		if len(fields) == 0 {
			return 0
		}
		digits := leadingDigits(fields[0])
		if digits == "" {
			return 0
		}
		n, err := strconv.ParseInt(digits, 10, 64)
		if err != nil || n > math.MaxInt32 {
			return math.MaxInt32
		}
		return int(n)
	}
	return 0
}

// parseFee reads fee strings such as "₹ 1,200" and truncates fractions.
func parseFee(v any) int {
	switch f := v.(type) {
	case float64:
		return clampInt(f)
	case string:
		cleaned := strings.Join(strings.Fields(feeNoise.Replace(f)), "")
		number := leadingNumber(cleaned)
		if number == "" {
			return 0
		}
		d, err := decimal.NewFromString(number)
		if err != nil || d.IsNegative() {
			return 0
		}
		if d.GreaterThanOrEqual(maxAmount) {
			return math.MaxInt32
		}
		return int(d.IntPart())
	}
	return 0
}

func leadingDigits(s string) string {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}

// leadingNumber returns the longest prefix of s shaped like 123 or 123.45.
func leadingNumber(s string) string {
	digits := leadingDigits(s)
	if digits == "" {
		return ""
	}
	rest := s[len(digits):]
	if len(rest) > 1 && rest[0] == '.' && unicode.IsDigit(rune(rest[1])) {
		return digits + "." + leadingDigits(rest[1:])
	}
	return digits
}

func clampInt(f float64) int {
	if math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}
