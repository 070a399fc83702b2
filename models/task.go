package models

import "time"

// TaskKind distinguishes the two work item flavours sharing one lifecycle.
type TaskKind string

const (
	TaskKindDonation TaskKind = "donation"
	TaskKindRequest  TaskKind = "request"
)

// TaskStatus represents the lifecycle state of a task
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusAccepted  TaskStatus = "accepted"
	TaskStatusPicked    TaskStatus = "picked"
	TaskStatusDelivered TaskStatus = "delivered"
)

// Initiative is one of the six fixed aid categories
type Initiative string

const (
	InitiativeFood              Initiative = "food"
	InitiativeEducation         Initiative = "education"
	InitiativeEmergencySupport  Initiative = "emergency_support"
	InitiativeRehabilitation    Initiative = "rehabilitation"
	InitiativeEmergencyResponse Initiative = "emergency_response"
	InitiativeShelter           Initiative = "shelter"
)

// Initiatives lists every valid initiative tag, in a fixed order.
var Initiatives = []Initiative{
	InitiativeFood,
	InitiativeEducation,
	InitiativeEmergencySupport,
	InitiativeRehabilitation,
	InitiativeEmergencyResponse,
	InitiativeShelter,
}

// FoodDetails carries the food-initiative specific fields
type FoodDetails struct {
	FoodType    string     `json:"foodType" dynamodbav:"foodType" validate:"required"`
	Quantity    string     `json:"quantity" dynamodbav:"quantity" validate:"required"`
	PreparedAt  *time.Time `json:"preparedAt,omitempty" dynamodbav:"preparedAt,omitempty"`
	Perishable  bool       `json:"perishable" dynamodbav:"perishable"`
	Vegetarian  bool       `json:"vegetarian" dynamodbav:"vegetarian"`
}

// EducationDetails carries the education-initiative specific fields
type EducationDetails struct {
	MaterialType string `json:"materialType" dynamodbav:"materialType" validate:"required"`
	AgeGroup     string `json:"ageGroup,omitempty" dynamodbav:"ageGroup,omitempty"`
	Quantity     int    `json:"quantity" dynamodbav:"quantity" validate:"required,min=1"`
}

// EmergencySupportDetails carries the emergency-support specific fields
type EmergencySupportDetails struct {
	SupportType string `json:"supportType" dynamodbav:"supportType" validate:"required"`
	Urgency     string `json:"urgency" dynamodbav:"urgency" validate:"required,oneof=low medium high critical"`
}

// RehabilitationDetails carries the rehabilitation specific fields
type RehabilitationDetails struct {
	ServiceType   string `json:"serviceType" dynamodbav:"serviceType" validate:"required"`
	DurationWeeks int    `json:"durationWeeks,omitempty" dynamodbav:"durationWeeks,omitempty" validate:"omitempty,min=1"`
}

// EmergencyResponseDetails carries the emergency-response specific fields
type EmergencyResponseDetails struct {
	IncidentType   string `json:"incidentType" dynamodbav:"incidentType" validate:"required"`
	PeopleAffected int    `json:"peopleAffected,omitempty" dynamodbav:"peopleAffected,omitempty" validate:"omitempty,min=1"`
}

// ShelterDetails carries the shelter specific fields
type ShelterDetails struct {
	ShelterType  string `json:"shelterType" dynamodbav:"shelterType" validate:"required"`
	Capacity     int    `json:"capacity,omitempty" dynamodbav:"capacity,omitempty" validate:"omitempty,min=1"`
	DurationDays int    `json:"durationDays,omitempty" dynamodbav:"durationDays,omitempty" validate:"omitempty,min=1"`
}

// TaskDetails is a variant keyed by the task's initiative: exactly the
// sub-struct matching the initiative tag must be set.
type TaskDetails struct {
	Food              *FoodDetails              `json:"food,omitempty" dynamodbav:"food,omitempty"`
	Education         *EducationDetails         `json:"education,omitempty" dynamodbav:"education,omitempty"`
	EmergencySupport  *EmergencySupportDetails  `json:"emergencySupport,omitempty" dynamodbav:"emergencySupport,omitempty"`
	Rehabilitation    *RehabilitationDetails    `json:"rehabilitation,omitempty" dynamodbav:"rehabilitation,omitempty"`
	EmergencyResponse *EmergencyResponseDetails `json:"emergencyResponse,omitempty" dynamodbav:"emergencyResponse,omitempty"`
	Shelter           *ShelterDetails           `json:"shelter,omitempty" dynamodbav:"shelter,omitempty"`
}

// Matches reports whether the variant set on d corresponds to the initiative.
func (d *TaskDetails) Matches(initiative Initiative) bool {
	if d == nil {
		return false
	}
	switch initiative {
	case InitiativeFood:
		return d.Food != nil
	case InitiativeEducation:
		return d.Education != nil
	case InitiativeEmergencySupport:
		return d.EmergencySupport != nil
	case InitiativeRehabilitation:
		return d.Rehabilitation != nil
	case InitiativeEmergencyResponse:
		return d.EmergencyResponse != nil
	case InitiativeShelter:
		return d.Shelter != nil
	}
	return false
}

// Task represents a donation or a community request. Both kinds share the
// same document shape and the same status lifecycle; the kind decides which
// table the document lives in and how the counterpart contact is read.
type Task struct {
	ID                     string       `json:"id" dynamodbav:"id"`
	Kind                   TaskKind     `json:"kind" dynamodbav:"kind"`
	Initiative             Initiative   `json:"initiative" dynamodbav:"initiative"`
	City                   string       `json:"city" dynamodbav:"city"`         // display-cased, as submitted
	Location               string       `json:"location" dynamodbav:"location"` // canonical lowercase, used for all filtering
	Address                string       `json:"address" dynamodbav:"address"`
	ContactName            string       `json:"contactName" dynamodbav:"contactName"`
	ContactPhone           string       `json:"contactPhone" dynamodbav:"contactPhone"`
	Description            string       `json:"description" dynamodbav:"description"`
	Status                 TaskStatus   `json:"status" dynamodbav:"status"`
	EstimatedBeneficiaries int          `json:"estimatedBeneficiaries" dynamodbav:"estimatedBeneficiaries"`
	Details                *TaskDetails `json:"details,omitempty" dynamodbav:"details,omitempty"`
	CreatedBy              string       `json:"createdBy" dynamodbav:"createdBy"`
	CreatedAt              time.Time    `json:"createdAt" dynamodbav:"createdAt"`
	AssignedTo             string       `json:"assignedTo,omitempty" dynamodbav:"assignedTo,omitempty"`
	AcceptedAt             *time.Time   `json:"acceptedAt,omitempty" dynamodbav:"acceptedAt,omitempty"`
	PickedAt               *time.Time   `json:"pickedAt,omitempty" dynamodbav:"pickedAt,omitempty"`
	DeliveredAt            *time.Time   `json:"deliveredAt,omitempty" dynamodbav:"deliveredAt,omitempty"`
	DeclinedBy             []string     `json:"declinedBy,omitempty" dynamodbav:"declinedBy,omitempty"` // string set in storage, written only via atomic adds
}

// CreateTaskRequest is the body for POST /donations and POST /requests
type CreateTaskRequest struct {
	Initiative             Initiative   `json:"initiative" validate:"required,oneof=food education emergency_support rehabilitation emergency_response shelter"`
	City                   string       `json:"city" validate:"required"`
	Address                string       `json:"address" validate:"required"`
	ContactName            string       `json:"contactName" validate:"required,min=2,max=100"`
	ContactPhone           string       `json:"contactPhone" validate:"required,min=6,max=20"`
	Description            string       `json:"description" validate:"required,max=2000"`
	EstimatedBeneficiaries int          `json:"estimatedBeneficiaries,omitempty" validate:"omitempty,min=1"`
	Details                *TaskDetails `json:"details,omitempty"`
}

// TransitionRequest is the body for PATCH /{kind}/{id}/status
type TransitionRequest struct {
	Status TaskStatus `json:"status" validate:"required,oneof=accepted picked delivered"`
}

// TransitionResult is returned by the workflow engine on success
type TransitionResult struct {
	PreviousStatus TaskStatus `json:"previousStatus"`
	NewStatus      TaskStatus `json:"newStatus"`
}

// CreateTaskResponse echoes the persisted task plus the fan-out count
type CreateTaskResponse struct {
	Task               *Task `json:"task"`
	VolunteersNotified int   `json:"volunteersNotified"`
}

// TaskFilter narrows task listing queries
type TaskFilter struct {
	Location string     `json:"location,omitempty"`
	Status   TaskStatus `json:"status,omitempty"`
	Limit    int        `json:"limit,omitempty"`
	Offset   int        `json:"offset,omitempty"`
}

// LocationStats aggregates per-city counts for GET /location/{city}/stats
type LocationStats struct {
	City             string `json:"city"`
	TotalDonations   int    `json:"totalDonations"`
	TotalRequests    int    `json:"totalRequests"`
	Completed        int    `json:"completed"`
	ActiveVolunteers int    `json:"activeVolunteers"`
}
