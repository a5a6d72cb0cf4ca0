package models

import (
	"time"

	id "shelterhub/pkg/domain"
	dErrors "shelterhub/pkg/domain-errors"
)

// Shelter owns staff, categories, and animals. Staff and categories are
// cascade-deleted with the shelter; deletion is restricted while animals
// remain attached. Name is globally unique.
type Shelter struct {
	ID          id.ShelterID
	Name        string
	Location    string
	Phone       string
	Description string
	CreatedAt   time.Time
}

// NewShelter validates and constructs a shelter.
func NewShelter(shelterID id.ShelterID, name, location, phone, description string, now time.Time) (*Shelter, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "shelter name is required")
	}
	if location == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "shelter location is required")
	}
	return &Shelter{
		ID:          shelterID,
		Name:        name,
		Location:    location,
		Phone:       phone,
		Description: description,
		CreatedAt:   now,
	}, nil
}

// Category groups a shelter's animals; cascade-deleted with the shelter, and
// its animals cascade with it.
type Category struct {
	ID        id.CategoryID
	Name      string
	ShelterID id.ShelterID
}

// AdoptionState tracks where the animal stands in the adoption pipeline.
type AdoptionState string

const (
	AnimalAvailable AdoptionState = "available"
	AnimalPending   AdoptionState = "pending"
	AnimalAdopted   AdoptionState = "adopted"
)

// Animal lives in exactly one shelter and one category. References to shelter
// and category are held as ids and resolved through lookups, never as an
// embedded object graph.
type Animal struct {
	ID         id.AnimalID
	Name       string
	Age        int
	Breed      string
	State      AdoptionState
	CategoryID id.CategoryID
	ShelterID  id.ShelterID
}

// NewAnimal validates and constructs an available animal.
func NewAnimal(animalID id.AnimalID, name string, age int, breed string, categoryID id.CategoryID, shelterID id.ShelterID) (*Animal, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "animal name is required")
	}
	if age < 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "animal age must not be negative")
	}
	if categoryID.IsNil() || shelterID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "animal requires a category and a shelter")
	}
	return &Animal{
		ID:         animalID,
		Name:       name,
		Age:        age,
		Breed:      breed,
		State:      AnimalAvailable,
		CategoryID: categoryID,
		ShelterID:  shelterID,
	}, nil
}
