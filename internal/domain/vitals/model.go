package vitals

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Record maps to the patient_health_records table. BMI is derived once at
// insert time and never recomputed.
type Record struct {
	ID                     uuid.UUID `db:"id" json:"id"`
	PatientID              uuid.UUID `db:"patient_id" json:"patient_id"`
	RecordedAt             time.Time `db:"recorded_at" json:"recorded_at"`
	HeartRate              *int      `db:"heart_rate" json:"heart_rate,omitempty"`
	BloodPressureSystolic  *int      `db:"blood_pressure_systolic" json:"blood_pressure_systolic,omitempty"`
	BloodPressureDiastolic *int      `db:"blood_pressure_diastolic" json:"blood_pressure_diastolic,omitempty"`
	Weight                 *float64  `db:"weight" json:"weight,omitempty"`
	Height                 *float64  `db:"height" json:"height,omitempty"`
	Temperature            *float64  `db:"temperature" json:"temperature,omitempty"`
	OxygenSaturation       *int      `db:"oxygen_saturation" json:"oxygen_saturation,omitempty"`
	BMI                    *float64  `db:"bmi" json:"bmi,omitempty"`
	Notes                  *string   `db:"notes" json:"notes,omitempty"`
}

// ComputeBMI returns weight (kg) / height (m)², rounded to two decimals.
// It returns nil unless both measurements are present and positive.
func ComputeBMI(weightKg, heightCm *float64) *float64 {
	if weightKg == nil || heightCm == nil || *weightKg <= 0 || *heightCm <= 0 {
		return nil
	}
	m := *heightCm / 100
	bmi := math.Round(*weightKg/(m*m)*100) / 100
	return &bmi
}

// Summary renders the measurements present on r as one line of text.
func (r *Record) Summary() string {
	var parts []string
	if r.HeartRate != nil {
		parts = append(parts, fmt.Sprintf("HR %d bpm", *r.HeartRate))
	}
	if r.BloodPressureSystolic != nil && r.BloodPressureDiastolic != nil {
		parts = append(parts, fmt.Sprintf("BP %d/%d mmHg", *r.BloodPressureSystolic, *r.BloodPressureDiastolic))
	}
	if r.Weight != nil {
		parts = append(parts, fmt.Sprintf("Wt %g kg", *r.Weight))
	}
	if r.Height != nil {
		parts = append(parts, fmt.Sprintf("Ht %g cm", *r.Height))
	}
	if r.BMI != nil {
		parts = append(parts, fmt.Sprintf("BMI %.2f", *r.BMI))
	}
	if r.Temperature != nil {
		parts = append(parts, fmt.Sprintf("Temp %g°C", *r.Temperature))
	}
	if r.OxygenSaturation != nil {
		parts = append(parts, fmt.Sprintf("SpO2 %d%%", *r.OxygenSaturation))
	}
	if len(parts) == 0 {
		return "no measurements"
	}
	return strings.Join(parts, ", ")
}
