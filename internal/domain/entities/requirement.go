package entities

import (
	"errors"
	"fmt"
)

// RequirementKind identifies the condition an achievement is unlocked by.
type RequirementKind string

const (
	RequirementVisitLocations    RequirementKind = "visit_locations"
	RequirementVisitCategory     RequirementKind = "visit_category"
	RequirementCompleteChallenge RequirementKind = "complete_challenge"
	RequirementTakePhotos        RequirementKind = "take_photos"
	RequirementShareLocations    RequirementKind = "share_locations"

	// legacyCompletePhotoChallenge is the name older catalogs use for
	// RequirementCompleteChallenge.
	legacyCompletePhotoChallenge RequirementKind = "complete_photo_challenge"
)

var (
	ErrUnknownRequirement = errors.New("unknown requirement kind")
	ErrInvalidRequirement = errors.New("invalid requirement")
)

// ProgressFacts are the counters requirements are checked against.
// They are computed from a progress snapshot after a transition.
type ProgressFacts struct {
	VisitedLocations    int              // size of the visited set
	VisitedByCategory   map[Category]int // visited locations per catalog category
	CompletedChallenges int              // size of the completed challenges set
	CompletedPhotos     int              // completed challenge entries of kind photo
	Shares              int              // number of share transitions
}

// Requirement is the unlock condition of an achievement.
//
// The set of implementations is closed: every kind lives in this file and
// implements MetBy, so a new kind cannot be added without deciding how it is
// evaluated.
type Requirement interface {
	Kind() RequirementKind
	Threshold() int
	MetBy(f ProgressFacts) bool

	requirement()
}

// VisitLocations is met once enough distinct locations were visited.
type VisitLocations struct {
	Count int
}

func (r VisitLocations) Kind() RequirementKind      { return RequirementVisitLocations }
func (r VisitLocations) Threshold() int             { return r.Count }
func (r VisitLocations) MetBy(f ProgressFacts) bool { return f.VisitedLocations >= r.Count }
func (VisitLocations) requirement()                 {}

// VisitCategory is met once enough locations of one category were visited.
type VisitCategory struct {
	Count    int
	Category Category
}

func (r VisitCategory) Kind() RequirementKind { return RequirementVisitCategory }
func (r VisitCategory) Threshold() int        { return r.Count }
func (r VisitCategory) MetBy(f ProgressFacts) bool {
	return f.VisitedByCategory[r.Category] >= r.Count
}
func (VisitCategory) requirement() {}

// CompleteChallenges is met once enough distinct challenges were completed.
type CompleteChallenges struct {
	Count int
}

func (r CompleteChallenges) Kind() RequirementKind      { return RequirementCompleteChallenge }
func (r CompleteChallenges) Threshold() int             { return r.Count }
func (r CompleteChallenges) MetBy(f ProgressFacts) bool { return f.CompletedChallenges >= r.Count }
func (CompleteChallenges) requirement()                 {}

// TakePhotos is met once enough photo challenges are marked completed.
type TakePhotos struct {
	Count int
}

func (r TakePhotos) Kind() RequirementKind      { return RequirementTakePhotos }
func (r TakePhotos) Threshold() int             { return r.Count }
func (r TakePhotos) MetBy(f ProgressFacts) bool { return f.CompletedPhotos >= r.Count }
func (TakePhotos) requirement()                 {}

// ShareLocations is met once the user shared locations enough times.
type ShareLocations struct {
	Count int
}

func (r ShareLocations) Kind() RequirementKind      { return RequirementShareLocations }
func (r ShareLocations) Threshold() int             { return r.Count }
func (r ShareLocations) MetBy(f ProgressFacts) bool { return f.Shares >= r.Count }
func (ShareLocations) requirement()                 {}

// RequirementSpec is the flat form of a requirement used by catalog files.
type RequirementSpec struct {
	Type     string `json:"type" validate:"required"`
	Value    int    `json:"value" validate:"gte=1"`
	Category string `json:"category,omitempty"`
}

// ParseRequirement converts a flat spec into a Requirement.
func ParseRequirement(spec RequirementSpec) (Requirement, error) {
	if spec.Value < 1 {
		return nil, fmt.Errorf("%w: threshold %d must be positive", ErrInvalidRequirement, spec.Value)
	}

	switch RequirementKind(spec.Type) {
	case RequirementVisitLocations:
		return VisitLocations{Count: spec.Value}, nil
	case RequirementVisitCategory:
		category := Category(spec.Category)
		if !category.Valid() {
			return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidRequirement, spec.Category)
		}
		return VisitCategory{Count: spec.Value, Category: category}, nil
	case RequirementCompleteChallenge, legacyCompletePhotoChallenge:
		return CompleteChallenges{Count: spec.Value}, nil
	case RequirementTakePhotos:
		return TakePhotos{Count: spec.Value}, nil
	case RequirementShareLocations:
		return ShareLocations{Count: spec.Value}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRequirement, spec.Type)
	}
}

// SpecOf returns the flat form of r.
func SpecOf(r Requirement) RequirementSpec {
	spec := RequirementSpec{
		Type:  string(r.Kind()),
		Value: r.Threshold(),
	}
	if vc, ok := r.(VisitCategory); ok {
		spec.Category = string(vc.Category)
	}
	return spec
}
