package clustering

import (
	"slices"
	"time"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"github.com/sirupsen/logrus"

	"github.com/justestif/go-spotify-listening-stats/internal/logging"
)

// MoodConfig holds mood clustering parameters.
type MoodConfig struct {
	NumClusters    int // Number of clusters to create (default: 3)
	MinClusterSize int // Minimum plays per mood (smaller clusters become outliers)
}

// DefaultMoodConfig returns the recommended default configuration.
func DefaultMoodConfig() MoodConfig {
	return MoodConfig{
		NumClusters:    3,
		MinClusterSize: 2,
	}
}

// Mood is a cluster of plays with similar audio features.
type Mood struct {
	Name        string             // Quadrant name, e.g. "Upbeat Party"
	Description string             // One-line description of the quadrant
	Plays       []Play             // Plays in this mood, oldest first
	Centroid    map[string]float64 // Average feature values for this cluster
	FirstPlayed time.Time
	LastPlayed  time.Time
}

// Size returns the number of plays in the mood.
func (m Mood) Size() int {
	return len(m.Plays)
}

// playObservation wraps a Play to implement clusters.Observation.
type playObservation struct {
	play   *Play
	coords clusters.Coordinates
}

func (o playObservation) Coordinates() clusters.Coordinates {
	return o.coords
}

func (o playObservation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

// featureNames defines the audio features used for clustering, in coordinate order.
var featureNames = []string{"energy", "valence", "danceability", "acousticness"}

// DetectMoods groups plays by audio feature similarity using k-means clustering.
// Returns moods ordered by size (largest first) and the plays that fit no mood.
func DetectMoods(plays []Play, cfg MoodConfig, log *logrus.Entry) ([]Mood, []Play) {
	if len(plays) == 0 {
		return nil, nil
	}
	if log == nil {
		log = logging.Zone("clustering")
	}

	if cfg.NumClusters <= 0 {
		cfg.NumClusters = DefaultMoodConfig().NumClusters
	}

	// Fewer plays than clusters cannot be partitioned
	if len(plays) < cfg.NumClusters {
		return nil, slices.Clone(plays)
	}

	var obs clusters.Observations
	for i := range plays {
		obs = append(obs, playObservation{
			play:   &plays[i],
			coords: extractFeatures(&plays[i]),
		})
	}

	km := kmeans.New()
	result, err := km.Partition(obs, cfg.NumClusters)
	if err != nil {
		log.WithError(err).Warn("K-means clustering failed")
		return nil, slices.Clone(plays)
	}

	var moods []Mood
	var outliers []Play

	for _, cluster := range result {
		var clusterPlays []Play
		for _, o := range cluster.Observations {
			if po, ok := o.(playObservation); ok {
				clusterPlays = append(clusterPlays, *po.play)
			}
		}

		if len(clusterPlays) == 0 {
			continue
		}
		if len(clusterPlays) < cfg.MinClusterSize {
			outliers = append(outliers, clusterPlays...)
			continue
		}

		slices.SortStableFunc(clusterPlays, func(a, b Play) int {
			return a.PlayedAt.Compare(b.PlayedAt)
		})

		centroid := make(map[string]float64, len(featureNames))
		for i, name := range featureNames {
			centroid[name] = cluster.Center[i]
		}

		category := GetMoodCategory(centroid)
		moods = append(moods, Mood{
			Name:        category.Name,
			Description: category.Description,
			Plays:       clusterPlays,
			Centroid:    centroid,
			FirstPlayed: clusterPlays[0].PlayedAt,
			LastPlayed:  clusterPlays[len(clusterPlays)-1].PlayedAt,
		})
	}

	slices.SortStableFunc(moods, func(a, b Mood) int {
		if a.Size() != b.Size() {
			return b.Size() - a.Size()
		}
		if a.Name < b.Name {
			return -1
		}
		if a.Name > b.Name {
			return 1
		}
		return 0
	})

	return moods, outliers
}

// extractFeatures returns the clustering features of a play as a coordinate vector.
func extractFeatures(p *Play) clusters.Coordinates {
	return clusters.Coordinates{
		p.Energy,
		p.Valence,
		p.Danceability,
		p.Acousticness,
	}
}
