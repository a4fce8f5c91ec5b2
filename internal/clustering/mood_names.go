package clustering

import "strings"

// generateMoodName creates a descriptive name based on audio feature centroid values.
// Uses a 2x2 energy/valence quadrant system with acousticness modifier.
//
// Quadrants:
//   - High Energy + High Valence = "Upbeat Party"
//   - High Energy + Low Valence  = "Intense & Dark"
//   - Low Energy  + High Valence = "Chill & Happy"
//   - Low Energy  + Low Valence  = "Reflective & Melancholy"
//
// Modifiers: danceability > 0.7 adds "Danceable" and acousticness > 0.6 adds
// "Acoustic", appended in parentheses, e.g. "Upbeat Party (Danceable, Acoustic)".
func generateMoodName(centroid map[string]float64) string {
	var baseName string

	switch {
	case highEnergy(centroid) && highValence(centroid):
		baseName = "Upbeat Party"
	case highEnergy(centroid):
		baseName = "Intense & Dark"
	case highValence(centroid):
		baseName = "Chill & Happy"
	default:
		baseName = "Reflective & Melancholy"
	}

	var modifiers []string
	if centroid["danceability"] > 0.7 {
		modifiers = append(modifiers, "Danceable")
	}
	if centroid["acousticness"] > 0.6 {
		modifiers = append(modifiers, "Acoustic")
	}

	if len(modifiers) == 0 {
		return baseName
	}
	return baseName + " (" + strings.Join(modifiers, ", ") + ")"
}

func highEnergy(centroid map[string]float64) bool  { return centroid["energy"] > 0.6 }
func highValence(centroid map[string]float64) bool { return centroid["valence"] > 0.5 }

// MoodCategory represents a mood classification for display purposes.
type MoodCategory struct {
	Name        string  // Display name
	Energy      float64 // Average energy level
	Valence     float64 // Average positivity
	Description string  // Brief description of the mood
}

// GetMoodCategory returns a detailed mood category for a centroid.
func GetMoodCategory(centroid map[string]float64) MoodCategory {
	var description string
	switch {
	case highEnergy(centroid) && highValence(centroid):
		description = "High-energy, positive vibes"
	case highEnergy(centroid):
		description = "Intense, driving energy with darker tones"
	case highValence(centroid):
		description = "Relaxed and uplifting"
	default:
		description = "Contemplative and introspective"
	}

	return MoodCategory{
		Name:        generateMoodName(centroid),
		Energy:      centroid["energy"],
		Valence:     centroid["valence"],
		Description: description,
	}
}
