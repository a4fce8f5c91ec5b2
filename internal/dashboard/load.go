package dashboard

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/justestif/go-spotify-listening-stats/internal/config"
	"github.com/justestif/go-spotify-listening-stats/internal/dataset"
	"github.com/justestif/go-spotify-listening-stats/internal/logging"
)

// FileInfo describes a dataset file on disk.
type FileInfo struct {
	Path    string
	Exists  bool
	ModTime time.Time
}

// Data holds both preprocessed datasets.
type Data struct {
	Recent     *Frame
	Top        *Frame
	RecentFile FileInfo
	TopFile    FileInfo
}

// Load reads and preprocesses both dataset files. Missing files load as empty frames.
func Load(cfg *config.Config, log *logrus.Entry) (*Data, error) {
	if log == nil {
		log = logging.Zone("dashboard")
	}

	recent, recentInfo, err := loadFrame(cfg.RecentPath(), log)
	if err != nil {
		return nil, fmt.Errorf("loading recent plays: %w", err)
	}
	top, topInfo, err := loadFrame(cfg.TopPath(), log)
	if err != nil {
		return nil, fmt.Errorf("loading top tracks: %w", err)
	}

	log.WithFields(logrus.Fields{
		"recent_rows": recent.Len(),
		"top_rows":    top.Len(),
	}).Debug("Loaded datasets")

	return &Data{
		Recent:     recent,
		Top:        top,
		RecentFile: recentInfo,
		TopFile:    topInfo,
	}, nil
}

func loadFrame(path string, log *logrus.Entry) (*Frame, FileInfo, error) {
	info := FileInfo{Path: path}
	st, err := os.Stat(path)
	switch {
	case err == nil:
		info.Exists = true
		info.ModTime = st.ModTime()
	case !errors.Is(err, os.ErrNotExist):
		return nil, info, fmt.Errorf("stat %s: %w", path, err)
	}

	table, err := dataset.ReadTable(path, dataset.WithLogger(log))
	if err != nil {
		return nil, info, err
	}
	return Preprocess(table), info, nil
}
