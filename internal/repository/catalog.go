package repository

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/tLat87/VisitTours/internal/domain/entities"
)

var (
	ErrLocationNotFound  = errors.New("location not found")
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrInvalidCatalog    = errors.New("invalid catalog")
)

//go:embed data/catalog.json
var defaultCatalog []byte

type catalogFile struct {
	Locations    []locationJSON    `json:"locations" validate:"required,min=1,dive"`
	Achievements []achievementJSON `json:"achievements" validate:"dive"`
	Challenges   []challengeJSON   `json:"challenges" validate:"dive"`
}

type locationJSON struct {
	ID          string `json:"id" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Category    string `json:"category" validate:"oneof=peace history liveliness"`
	Coordinates struct {
		Latitude  float64 `json:"latitude" validate:"latitude"`
		Longitude float64 `json:"longitude" validate:"longitude"`
	} `json:"coordinates"`
}

type achievementJSON struct {
	ID          string                   `json:"id" validate:"required"`
	Title       string                   `json:"title" validate:"required"`
	Description string                   `json:"description"`
	Icon        string                   `json:"icon"`
	Points      int                      `json:"points" validate:"gte=0"`
	Requirement entities.RequirementSpec `json:"requirement"`
}

type challengeJSON struct {
	ID          string        `json:"id" validate:"required"`
	Kind        string        `json:"kind" validate:"oneof=photo quiz audio_guide"`
	LocationID  string        `json:"locationId" validate:"required"`
	Title       string        `json:"title" validate:"required"`
	Description string        `json:"description"`
	Points      int           `json:"points" validate:"gte=0"`
	Question    *questionJSON `json:"question"`
}

type questionJSON struct {
	Text        string   `json:"text" validate:"required"`
	Options     []string `json:"options" validate:"min=2,dive,required"`
	Answer      int      `json:"answer" validate:"gte=0"`
	Explanation string   `json:"explanation"`
}

// CatalogRepository provides read-only access to the static catalog of
// locations, achievements and challenges. The catalog is loaded once and
// never changes, so it can be shared between users.
type CatalogRepository struct {
	locations    []entities.Location
	byID         map[string]int
	achievements []entities.Achievement
	challenges   []entities.Challenge
}

// NewCatalogRepository loads the catalog from path, or the embedded default
// catalog when path is empty.
func NewCatalogRepository(path string) (*CatalogRepository, error) {
	if path == "" {
		return ParseCatalog(defaultCatalog)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a catalog document.
func ParseCatalog(data []byte) (*CatalogRepository, error) {
	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal catalog JSON: %v", ErrInvalidCatalog, err)
	}

	if err := validator.New().Struct(file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	r := &CatalogRepository{byID: make(map[string]int, len(file.Locations))}

	for _, l := range file.Locations {
		if _, dup := r.byID[l.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate location id %q", ErrInvalidCatalog, l.ID)
		}
		r.byID[l.ID] = len(r.locations)
		r.locations = append(r.locations, entities.Location{
			ID:          l.ID,
			Title:       l.Title,
			Description: l.Description,
			Category:    entities.Category(l.Category),
			Coordinates: entities.Coordinates{
				Latitude:  l.Coordinates.Latitude,
				Longitude: l.Coordinates.Longitude,
			},
		})
	}

	seen := make(map[string]bool, len(file.Achievements))
	for _, a := range file.Achievements {
		if seen[a.ID] {
			return nil, fmt.Errorf("%w: duplicate achievement id %q", ErrInvalidCatalog, a.ID)
		}
		seen[a.ID] = true

		req, err := entities.ParseRequirement(a.Requirement)
		if err != nil {
			return nil, fmt.Errorf("%w: achievement %q: %v", ErrInvalidCatalog, a.ID, err)
		}

		r.achievements = append(r.achievements, entities.Achievement{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			Icon:        a.Icon,
			Points:      a.Points,
			Requirement: req,
		})
	}

	seen = make(map[string]bool, len(file.Challenges))
	for _, c := range file.Challenges {
		if seen[c.ID] {
			return nil, fmt.Errorf("%w: duplicate challenge id %q", ErrInvalidCatalog, c.ID)
		}
		seen[c.ID] = true

		if _, ok := r.byID[c.LocationID]; !ok {
			return nil, fmt.Errorf("%w: challenge %q references unknown location %q", ErrInvalidCatalog, c.ID, c.LocationID)
		}

		challenge := entities.Challenge{
			ID:          c.ID,
			Kind:        entities.ChallengeKind(c.Kind),
			LocationID:  c.LocationID,
			Title:       c.Title,
			Description: c.Description,
			Points:      c.Points,
		}
		if challenge.Kind == entities.ChallengeQuiz && c.Question == nil {
			return nil, fmt.Errorf("%w: quiz %q has no question", ErrInvalidCatalog, c.ID)
		}
		if q := c.Question; q != nil {
			if q.Answer >= len(q.Options) {
				return nil, fmt.Errorf("%w: challenge %q answer %d out of range", ErrInvalidCatalog, c.ID, q.Answer)
			}
			challenge.Question = &entities.Question{
				Text:        q.Text,
				Options:     q.Options,
				Answer:      q.Answer,
				Explanation: q.Explanation,
			}
		}

		r.challenges = append(r.challenges, challenge)
	}

	return r, nil
}

// Locations returns all locations in catalog order.
func (r *CatalogRepository) Locations() []entities.Location {
	out := make([]entities.Location, len(r.locations))
	copy(out, r.locations)
	return out
}

// Location returns the location with the given id.
func (r *CatalogRepository) Location(id string) (entities.Location, error) {
	i, ok := r.byID[id]
	if !ok {
		return entities.Location{}, ErrLocationNotFound
	}
	return r.locations[i], nil
}

// CategoryOf returns the category of a catalog location.
func (r *CatalogRepository) CategoryOf(id string) (entities.Category, bool) {
	i, ok := r.byID[id]
	if !ok {
		return "", false
	}
	return r.locations[i].Category, true
}

// Achievements returns the achievement templates in catalog order.
func (r *CatalogRepository) Achievements() []entities.Achievement {
	out := make([]entities.Achievement, len(r.achievements))
	copy(out, r.achievements)
	return out
}

// Challenges returns the challenge templates in catalog order.
func (r *CatalogRepository) Challenges() []entities.Challenge {
	out := make([]entities.Challenge, len(r.challenges))
	copy(out, r.challenges)
	return out
}

// Challenge returns the challenge template with the given id.
func (r *CatalogRepository) Challenge(id string) (entities.Challenge, error) {
	for _, c := range r.challenges {
		if c.ID == id {
			return c, nil
		}
	}
	return entities.Challenge{}, ErrChallengeNotFound
}

// ChallengesAt returns the challenges of one location in catalog order.
func (r *CatalogRepository) ChallengesAt(locationID string) []entities.Challenge {
	var out []entities.Challenge
	for _, c := range r.challenges {
		if c.LocationID == locationID {
			out = append(out, c)
		}
	}
	return out
}
