package handlers

import (
	"time"

	"github.com/oksasatya/go-medicine-tracker/internal/application"
	"github.com/oksasatya/go-medicine-tracker/internal/domain/entity"
	"github.com/oksasatya/go-medicine-tracker/pkg/validation"
)

// Requests

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type forgotPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	NewPassword string `json:"new_password" binding:"required,pwd"`
}

type deviceTokenRequest struct {
	FCMToken string `json:"fcm_token" binding:"required"`
}

type profileRequest struct {
	Name string `json:"name" binding:"required,name"`
}

type compositionRequest struct {
	Name          string  `json:"name" binding:"required"`
	StrengthValue float64 `json:"strength_value" binding:"gte=0"`
	StrengthUnit  string  `json:"strength_unit"`
}

type medicineRequest struct {
	Name        string               `json:"name" binding:"required,name"`
	ImageURL    string               `json:"image_url" binding:"omitempty,url"`
	Dosage      string               `json:"dosage"`
	Quantity    int                  `json:"quantity" binding:"required,gt=0"`
	ExpiryDate  string               `json:"expiry_date" binding:"required,futuredate"`
	Category    string               `json:"category"`
	Notes       string               `json:"notes"`
	Composition []compositionRequest `json:"composition" binding:"omitempty,dive"`
	Form        string               `json:"form"`
}

func (r medicineRequest) toInput() application.MedicineInput {
	// futuredate already guaranteed the layout
	expiry, _ := time.Parse(validation.DateLayout, r.ExpiryDate)
	comp := make([]entity.Composition, 0, len(r.Composition))
	for _, c := range r.Composition {
		comp = append(comp, entity.Composition{Name: c.Name, StrengthValue: c.StrengthValue, StrengthUnit: c.StrengthUnit})
	}
	return application.MedicineInput{
		Name:        r.Name,
		ImageURL:    r.ImageURL,
		Dosage:      r.Dosage,
		Quantity:    r.Quantity,
		ExpiryDate:  expiry,
		Category:    r.Category,
		Notes:       r.Notes,
		Composition: comp,
		Form:        r.Form,
	}
}

type scheduleRequest struct {
	TimeOfDay string `json:"time_of_day" binding:"required,timeofday"`
	Frequency string `json:"frequency" binding:"omitempty,frequency"`
	IsActive  *bool  `json:"is_active"`
}

func (r scheduleRequest) toInput() application.ScheduleInput {
	tod, _ := entity.ParseTimeOfDay(r.TimeOfDay)
	freq, _ := entity.ParseFrequency(r.Frequency)
	return application.ScheduleInput{TimeOfDay: tod, Frequency: freq, Active: r.IsActive}
}

type schedulePatchRequest struct {
	TimeOfDay *string `json:"time_of_day" binding:"omitempty,timeofday"`
	Frequency *string `json:"frequency" binding:"omitempty,frequency"`
	IsActive  *bool   `json:"is_active"`
}

func (r schedulePatchRequest) toPatch() application.SchedulePatch {
	p := application.SchedulePatch{Active: r.IsActive}
	if r.TimeOfDay != nil {
		tod, _ := entity.ParseTimeOfDay(*r.TimeOfDay)
		p.TimeOfDay = &tod
	}
	if r.Frequency != nil {
		freq, _ := entity.ParseFrequency(*r.Frequency)
		p.Frequency = &freq
	}
	return p
}

type globalMedicineRequest struct {
	Name                string   `json:"name" binding:"required,name"`
	BrandName           string   `json:"brand_name"`
	GenericName         string   `json:"generic_name"`
	DosageForm          string   `json:"dosage_form"`
	Strength            string   `json:"strength"`
	Manufacturer        string   `json:"manufacturer"`
	Description         string   `json:"description"`
	Indications         []string `json:"indications"`
	SideEffects         []string `json:"side_effects"`
	Warnings            []string `json:"warnings"`
	StorageInstructions string   `json:"storage_instructions"`
	Category            string   `json:"category"`
	ATCCode             string   `json:"atc_code" binding:"omitempty,max=16"`
}

func (r globalMedicineRequest) toEntity() *entity.GlobalMedicine {
	return &entity.GlobalMedicine{
		Name:                r.Name,
		BrandName:           r.BrandName,
		GenericName:         r.GenericName,
		DosageForm:          r.DosageForm,
		Strength:            r.Strength,
		Manufacturer:        r.Manufacturer,
		Description:         r.Description,
		Indications:         r.Indications,
		SideEffects:         r.SideEffects,
		Warnings:            r.Warnings,
		StorageInstructions: r.StorageInstructions,
		Category:            r.Category,
		ATCCode:             r.ATCCode,
	}
}

// Responses

type authResponse struct {
	Token     string    `json:"token"`
	UserEmail string    `json:"user_email"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

func toAuthResponse(r *application.AuthResult) authResponse {
	return authResponse{Token: r.Token, UserEmail: r.Email, UserID: r.UserID, ExpiresAt: r.ExpiresAt}
}

type userResponse struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	HasDeviceToken bool      `json:"has_device_token"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toUserResponse(u *entity.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, HasDeviceToken: u.DeviceToken != "", CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
}

type profileResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func toProfileResponse(p *entity.Profile) profileResponse {
	return profileResponse{ID: p.ID, UserID: p.UserID, Name: p.Name, CreatedAt: p.CreatedAt}
}

func toProfileResponses(ps []entity.Profile) []profileResponse {
	out := make([]profileResponse, 0, len(ps))
	for i := range ps {
		out = append(out, toProfileResponse(&ps[i]))
	}
	return out
}

type medicineResponse struct {
	ID          string                `json:"id"`
	UserID      string                `json:"user_id"`
	ProfileID   string                `json:"profile_id"`
	ProfileName string                `json:"profile_name,omitempty"`
	Name        string                `json:"name"`
	ImageURL    string                `json:"image_url"`
	Dosage      string                `json:"dosage"`
	Quantity    int                   `json:"quantity"`
	ExpiryDate  string                `json:"expiry_date"`
	Category    string                `json:"category"`
	Notes       string                `json:"notes"`
	Composition []entity.Composition  `json:"composition"`
	Form        string                `json:"form"`
	Status      entity.MedicineStatus `json:"status"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

func toMedicineResponse(m *entity.Medicine) medicineResponse {
	comp := m.Composition
	if comp == nil {
		comp = []entity.Composition{}
	}
	return medicineResponse{
		ID:          m.ID,
		UserID:      m.UserID,
		ProfileID:   m.ProfileID,
		Name:        m.Name,
		ImageURL:    m.ImageURL,
		Dosage:      m.Dosage,
		Quantity:    m.Quantity,
		ExpiryDate:  m.ExpiryDate.Format(validation.DateLayout),
		Category:    m.Category,
		Notes:       m.Notes,
		Composition: comp,
		Form:        m.Form,
		Status:      m.Status,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toMedicineResponses(ms []entity.Medicine) []medicineResponse {
	out := make([]medicineResponse, 0, len(ms))
	for i := range ms {
		out = append(out, toMedicineResponse(&ms[i]))
	}
	return out
}

func toMedicineWithProfileResponses(ms []application.MedicineWithProfile) []medicineResponse {
	out := make([]medicineResponse, 0, len(ms))
	for i := range ms {
		r := toMedicineResponse(&ms[i].Medicine)
		r.ProfileName = ms[i].ProfileName
		out = append(out, r)
	}
	return out
}

type scheduleResponse struct {
	ID         string           `json:"id"`
	MedicineID string           `json:"medicine_id"`
	ProfileID  string           `json:"profile_id"`
	UserID     string           `json:"user_id"`
	TimeOfDay  string           `json:"time_of_day"`
	Frequency  entity.Frequency `json:"frequency"`
	IsActive   bool             `json:"is_active"`
	CreatedAt  time.Time        `json:"created_at"`
}

func toScheduleResponse(s *entity.Schedule) scheduleResponse {
	return scheduleResponse{
		ID:         s.ID,
		MedicineID: s.MedicineID,
		ProfileID:  s.ProfileID,
		UserID:     s.UserID,
		TimeOfDay:  s.TimeOfDay.String(),
		Frequency:  s.Frequency,
		IsActive:   s.Active,
		CreatedAt:  s.CreatedAt,
	}
}

func toScheduleResponses(ss []entity.Schedule) []scheduleResponse {
	out := make([]scheduleResponse, 0, len(ss))
	for i := range ss {
		out = append(out, toScheduleResponse(&ss[i]))
	}
	return out
}

func nonNilCatalog(gs []entity.GlobalMedicine) []entity.GlobalMedicine {
	if gs == nil {
		return []entity.GlobalMedicine{}
	}
	return gs
}
