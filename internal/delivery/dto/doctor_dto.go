package dto

// Request DTOs

type ActionRequest struct {
	Type  string `json:"type" validate:"required,oneof=search select_suggestion set_consultation_type toggle_specialty set_sort clear_all"`
	Value string `json:"value" validate:"max=200"`
}

// Response DTOs

type DoctorResponse struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Specialties       []string `json:"specialties"`
	Qualification     string   `json:"qualification,omitempty"`
	ExperienceYears   int      `json:"experience_years"`
	ClinicName        string   `json:"clinic_name"`
	LocationCity      string   `json:"location_city"`
	FeeAmount         int      `json:"fee_amount"`
	ConsultationModes []string `json:"consultation_modes"`
	ProfileImageURL   string   `json:"profile_image_url,omitempty"`
}

type QueryStateResponse struct {
	Search           string   `json:"search"`
	ConsultationType string   `json:"consultation_type,omitempty"`
	Specialties      []string `json:"specialties"`
	SortBy           string   `json:"sort_by,omitempty"`
}

type DoctorListResponse struct {
	Status  string             `json:"status"`
	Address string             `json:"address"`
	Query   QueryStateResponse `json:"query"`
	Doctors []DoctorResponse   `json:"doctors"`
	Total   int                `json:"total"`
}

type SuggestionListResponse struct {
	Suggestions []DoctorResponse `json:"suggestions"`
}

type SpecialtyListResponse struct {
	Specialties []string `json:"specialties"`
	Total       int      `json:"total"`
}

type HealthResponse struct {
	Status        string `json:"status"`
	ListingStatus string `json:"listing_status"`
}
